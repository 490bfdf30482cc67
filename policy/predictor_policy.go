package policy

import (
	"math/rand"

	"github.com/alphabeth/porygon/battle"
	"github.com/alphabeth/porygon/predictor"
)

// Predictor wraps a *predictor.Network as a battle.Policy, implementing
// predict_move's decision half of C4: encode, predict, draw a concrete
// action, and commit to it through the callback triple.
type Predictor struct {
	Network *predictor.Network
	Rng     *rand.Rand
}

var _ battle.Policy = Predictor{}

func (p Predictor) rng() *rand.Rand {
	if p.Rng != nil {
		return p.Rng
	}
	return fallbackRng()
}

func (p Predictor) TakeTurn(player, opponent *battle.Side, attack battle.AttackFunc, useItem battle.UseItemFunc, switchTo battle.SwitchFunc) error {
	result, err := predictor.PredictMove(p.Network, player, opponent, p.rng())
	if err != nil {
		return err
	}
	if result.Kind == battle.AttackKind {
		return attack(player.Active().MoveAt(result.Index))
	}
	return switchTo(result.Index)
}

func (p Predictor) ForceSwitch(party []battle.Creature) int {
	return ForceSwitchDefault(party)
}
