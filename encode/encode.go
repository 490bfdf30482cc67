// Package encode turns a pair of battle sides into the fixed-width float32
// vector the predictor consumes, mirroring game.InputEncoder's role of
// flattening live state into a network-ready input layer.
package encode

import "github.com/alphabeth/porygon/battle"

// InputDim is the total length of an encoded (player, opponent) pair:
// 6 creatures * (1 hp ratio + 4 move pp ratios) * 2 sides.
const InputDim = battle.PartyMax * (1 + battle.MovesMax) * 2

const slotWidth = 1 + battle.MovesMax

// Encode produces the InputDim-length vector for (player, opponent), sorted
// by each side's stable creature id ascending and padded with Epsilon for
// missing creatures or moves. Order-invariant to party shuffles (§8 property
// 4): only the stable id governs placement, never slice position.
func Encode(player, opponent *battle.Side) []float32 {
	out := make([]float32, 0, InputDim)
	out = appendSide(out, player)
	out = appendSide(out, opponent)
	return out
}

func appendSide(out []float32, side *battle.Side) []float32 {
	sorted := side.SortedByID()
	for slot := 0; slot < battle.PartyMax; slot++ {
		if slot >= len(sorted) {
			out = appendEpsilonSlot(out)
			continue
		}
		c := &side.Party[sorted[slot]]
		out = append(out, hpRatio(c))
		for m := 0; m < battle.MovesMax; m++ {
			out = append(out, ppRatio(c, m))
		}
	}
	return out
}

func appendEpsilonSlot(out []float32) []float32 {
	for i := 0; i < slotWidth; i++ {
		out = append(out, battle.Epsilon)
	}
	return out
}

func hpRatio(c *battle.Creature) float32 {
	if c.BaseHP == 0 {
		return battle.Epsilon
	}
	return float32(c.HP) / float32(c.BaseHP)
}

func ppRatio(c *battle.Creature, moveIdx int) float32 {
	if moveIdx >= len(c.Moves) {
		return battle.Epsilon
	}
	m := c.Moves[moveIdx]
	if m.BasePP == 0 {
		return battle.Epsilon
	}
	ratio := float32(m.PP) / float32(m.BasePP)
	if ratio == 0 {
		return battle.Epsilon
	}
	return ratio
}
