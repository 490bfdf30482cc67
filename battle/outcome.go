package battle

// Outcome evaluates the quality of player's position against opponent as an
// unnormalized scalar, roughly in [0, 1] (0.8 for two equal full-health
// sides). Grounded in calculations.py's
// outcome_func_v1, reshaped per the harness's exact base/diff/scale contract:
// a player with a live creature starts from a materially better footing
// (base 0.8) than one about to lose (base 0.2), and that base is nudged by
// the HP and faint differentials scaled down by 10 so a single faint or big
// HP swing doesn't dominate the comparison between near-equal positions.
func Outcome(player, opponent *Side) float64 {
	base := 0.2
	if hasLiveCreature(player) {
		base = 0.8
	}

	hpRatioDiff := hpLostRatio(opponent) - hpLostRatio(player)
	playerFaintRatio := faintRatio(player)
	faintRatioDiff := faintRatio(opponent) - playerFaintRatio*playerFaintRatio

	return base + (hpRatioDiff+faintRatioDiff)/10
}

func hasLiveCreature(s *Side) bool {
	for i := range s.Party {
		if !s.Party[i].IsFainted() {
			return true
		}
	}
	return false
}

// hpLostRatio is the fraction of the side's combined base HP that has been
// lost. The 0/0 = 0 convention applies to an empty party.
func hpLostRatio(s *Side) float64 {
	var totalBase, totalLost int
	for i := range s.Party {
		c := &s.Party[i]
		totalBase += c.BaseHP
		totalLost += c.BaseHP - c.HP
	}
	if totalBase == 0 {
		return 0
	}
	return float64(totalLost) / float64(totalBase)
}

// faintRatio is the fraction of the side's party that has fainted.
func faintRatio(s *Side) float64 {
	if len(s.Party) == 0 {
		return 0
	}
	fainted := 0
	for i := range s.Party {
		if s.Party[i].IsFainted() {
			fainted++
		}
	}
	return float64(fainted) / float64(len(s.Party))
}
