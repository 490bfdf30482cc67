// Package policy provides baseline battle.Policy implementations and the
// shared forced-switch rule (C9), analogous to the teacher's ModelInterface
// hierarchy (RandomModel, DamageModel) reworked to the harness's
// attack/use_item/switch callback contract.
package policy

import (
	"math/rand"
	"sync"

	"github.com/alphabeth/porygon/battle"
)

var (
	fallbackRngOnce sync.Once
	fallbackRngVal  *rand.Rand
)

// fallbackRng lazily creates and persists a single *rand.Rand shared by every
// Random, HighestDamage, or Predictor left with a nil Rng, instead of
// reseeding a fresh one on every call (which would make such a value-receiver
// policy draw the same action for a given action count on every turn).
// Callers that need independent streams should set Rng explicitly.
func fallbackRng() *rand.Rand {
	fallbackRngOnce.Do(func() { fallbackRngVal = rand.New(rand.NewSource(1)) })
	return fallbackRngVal
}

// ForceSwitchDefault implements C9: the first party index i > 0 whose
// creature has hp > 0, or 0 as a sentinel if none exists.
func ForceSwitchDefault(party []battle.Creature) int {
	for i := 1; i < len(party); i++ {
		if !party[i].IsFainted() {
			return i
		}
	}
	return 0
}

// Random picks uniformly among legal actions (moves with pp > 0, plus
// switches to a non-fainted backup), grounded in random_model.py's
// RandomModel.take_turn: a weighted coin between "attack" and "switch" by
// count of each option, then a uniform pick within the chosen kind.
type Random struct {
	Rng *rand.Rand
}

var _ battle.Policy = Random{}

func (r Random) rng() *rand.Rand {
	if r.Rng != nil {
		return r.Rng
	}
	return fallbackRng()
}

func (r Random) TakeTurn(player, opponent *battle.Side, attack battle.AttackFunc, useItem battle.UseItemFunc, switchTo battle.SwitchFunc) error {
	actions := battle.LegalActions(player)
	if len(actions) == 0 {
		return nil
	}
	rng := r.rng()
	a := actions[rng.Intn(len(actions))]
	if a.Kind == battle.AttackKind {
		return attack(player.Active().MoveAt(a.MoveIndex))
	}
	return switchTo(a.PartyIndex)
}

func (r Random) ForceSwitch(party []battle.Creature) int {
	return ForceSwitchDefault(party)
}

// HighestDamage always attacks with whichever available move deals the most
// damage against the opponent's active creature (ties broken by move
// order), grounded in damage_model.py's DamageModel.take_turn. Falls back to
// a switch only when every move is exhausted.
type HighestDamage struct {
	Rng *rand.Rand
}

var _ battle.Policy = HighestDamage{}

func (h HighestDamage) rng() *rand.Rand {
	if h.Rng != nil {
		return h.Rng
	}
	return fallbackRng()
}

func (h HighestDamage) TakeTurn(player, opponent *battle.Side, attack battle.AttackFunc, useItem battle.UseItemFunc, switchTo battle.SwitchFunc) error {
	active := player.Active()
	defender := opponent.Active()
	usable := active.UsableMoves()
	if len(usable) == 0 {
		idx := ForceSwitchDefault(player.Party)
		if idx == 0 {
			return attack(battle.StruggleMove)
		}
		return switchTo(idx)
	}

	best := usable[0]
	bestDamage := -1
	rng := h.rng()
	for _, idx := range usable {
		move := active.Moves[idx]
		damage, _, _ := battle.CalculateDamage(rng, move, active, defender)
		if damage > bestDamage {
			bestDamage = damage
			best = idx
		}
	}
	return attack(active.Moves[best])
}

func (h HighestDamage) ForceSwitch(party []battle.Creature) int {
	return ForceSwitchDefault(party)
}

// OneShot wraps a single, already-decided battle.Action as a battle.Policy
// whose next TakeTurn executes exactly that action, then becomes inert.
// Grounded in spec §9's note that the source's callable-attribute one-shot
// policies become an explicit tagged variant here instead of a closure.
type OneShot struct {
	Action battle.Action
	spent  bool
	rng    *rand.Rand
}

var _ battle.Policy = &OneShot{}

func NewOneShot(a battle.Action) *OneShot {
	return &OneShot{Action: a}
}

func (o *OneShot) TakeTurn(player, opponent *battle.Side, attack battle.AttackFunc, useItem battle.UseItemFunc, switchTo battle.SwitchFunc) error {
	if o.spent {
		if o.rng == nil {
			o.rng = rand.New(rand.NewSource(1))
		}
		return Random{Rng: o.rng}.TakeTurn(player, opponent, attack, useItem, switchTo)
	}
	o.spent = true
	if o.Action.Kind == battle.AttackKind {
		return attack(player.Active().MoveAt(o.Action.MoveIndex))
	}
	return switchTo(o.Action.PartyIndex)
}

func (o *OneShot) ForceSwitch(party []battle.Creature) int {
	return ForceSwitchDefault(party)
}
