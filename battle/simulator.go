package battle

import (
	"math/rand"

	"github.com/pkg/errors"
)

// ErrNoPolicy is returned when a side has no attached Policy but the
// Simulator needs one to decide a turn.
var ErrNoPolicy = errors.New("battle: side has no policy attached")

// Simulator is the one concrete forward simulator the core drives through
// PlayTurn/PlayToEnd. It is the single real implementation of the harness's
// consumed simulator interface (spec's C1), grounded in battle.py's
// _turn_start/_turn_ai/_turn_perform_attacks/_turn_end turn loop.
type Simulator struct {
	rng *rand.Rand
}

// NewSimulator builds a Simulator seeded from rng. A nil rng is replaced by
// a new source with the fixed seed 1.
func NewSimulator(rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Simulator{rng: rng}
}

// decision is the attack-or-switch choice a side committed to this turn.
type decision struct {
	kind ActionKind
	move Move
	idx  int
}

// decide runs mover's Policy to get exactly one committed action, via the
// same attack/use_item/switch callback triple the harness exposes.
func (s *Simulator) decide(mover, other *Side) (decision, error) {
	if mover.Policy == nil {
		return decision{}, errors.Wrapf(ErrNoPolicy, "side %q", mover.Name)
	}
	var out decision
	var set bool
	attack := func(move Move) error {
		out = decision{kind: AttackKind, move: move}
		set = true
		return nil
	}
	useItem := func(item interface{}) error {
		return nil
	}
	switchTo := func(partyIndex int) error {
		out = decision{kind: SwitchKind, idx: partyIndex}
		set = true
		return nil
	}
	if err := mover.Policy.TakeTurn(mover, other, attack, useItem, switchTo); err != nil {
		return decision{}, errors.Wrapf(err, "side %q take_turn", mover.Name)
	}
	if !set {
		return decision{}, errors.Errorf("side %q take_turn committed to nothing", mover.Name)
	}
	return out, nil
}

// PlayTurn mutates both sides to reflect one fully resolved turn: each side
// decides via its attached Policy, switches apply immediately, attacks queue
// by speed (coin flip on a tie, per battle.py's _enqueue_attack), status
// ticks resolve at end of turn, and fainted actives are replaced via the
// losing side's Policy.ForceSwitch. Returns the winner, if the turn ended
// the battle.
func (s *Simulator) PlayTurn(sideA, sideB *Side) (winner *Side, err error) {
	decA, err := s.decide(sideA, sideB)
	if err != nil {
		return nil, err
	}
	if decA.kind == SwitchKind {
		sideA.SwitchTo(decA.idx)
	}
	decB, err := s.decide(sideB, sideA)
	if err != nil {
		return nil, err
	}
	if decB.kind == SwitchKind {
		sideB.SwitchTo(decB.idx)
	}

	type queued struct {
		attacker, defender *Side
		move               Move
	}
	var queue []queued
	if decA.kind == AttackKind && decB.kind == AttackKind {
		speedA := sideA.Active().Stats.Speed
		speedB := sideB.Active().Stats.Speed
		first, second := sideA, sideB
		firstMove, secondMove := decA.move, decB.move
		switch {
		case speedB > speedA:
			first, second = sideB, sideA
			firstMove, secondMove = decB.move, decA.move
		case speedA == speedB && s.rng.Float64() < 0.5:
			first, second = sideB, sideA
			firstMove, secondMove = decB.move, decA.move
		}
		other := func(side *Side) *Side {
			if side == sideA {
				return sideB
			}
			return sideA
		}
		queue = append(queue,
			queued{first, other(first), firstMove},
			queued{second, other(second), secondMove},
		)
	} else if decA.kind == AttackKind {
		queue = append(queue, queued{sideA, sideB, decA.move})
	} else if decB.kind == AttackKind {
		queue = append(queue, queued{sideB, sideA, decB.move})
	}

	for _, q := range queue {
		attacker := q.attacker.Active()
		if attacker == nil || attacker.IsFainted() {
			continue
		}
		defender := q.defender.Active()
		if defender == nil || defender.IsFainted() {
			continue
		}
		s.performAttack(q.move, attacker, defender)
		if defender.IsFainted() {
			s.forceReplacement(q.defender)
		}
	}

	if sideA.HasLost() {
		return sideB, nil
	}
	if sideB.HasLost() {
		return sideA, nil
	}

	s.tickStatus(sideA)
	if sideA.Active() != nil && sideA.Active().IsFainted() {
		s.forceReplacement(sideA)
	}
	s.tickStatus(sideB)
	if sideB.Active() != nil && sideB.Active().IsFainted() {
		s.forceReplacement(sideB)
	}

	if sideA.HasLost() {
		return sideB, nil
	}
	if sideB.HasLost() {
		return sideA, nil
	}
	return nil, nil
}

// performAttack resolves one creature's attack against another, decrementing
// PP, rolling damage and inflicting the move's status, per
// battle.py's _perform_attack/try_attack.
func (s *Simulator) performAttack(move Move, attacker, defender *Creature) {
	if move != StruggleMove {
		for i := range attacker.Moves {
			if attacker.Moves[i] == move {
				attacker.Moves[i].PP--
				break
			}
		}
	}
	damage, _, _ := CalculateDamage(s.rng, move, attacker, defender)
	defender.TakeDamage(damage)
	if move.Inflict != NoStatus {
		switch move.Inflict {
		case Poison, BadPoison, Burn:
			defender.OtherStatus = move.Inflict
			defender.OtherStatusTurns = 0
		default:
			defender.Status = move.Inflict
			defender.StatusTurns = 1 + s.rng.Intn(7)
		}
	}
}

// tickStatus applies end-of-turn self-inflicted status damage (poison,
// bad poison, burn), grounded in battle.py's _turn_end/self_inflict.
func (s *Simulator) tickStatus(side *Side) {
	active := side.Active()
	if active == nil || active.IsFainted() {
		return
	}
	switch active.OtherStatus {
	case Poison:
		active.OtherStatusTurns++
		active.TakeDamage(active.BaseHP / 16)
	case BadPoison:
		active.OtherStatusTurns++
		active.TakeDamage(active.BaseHP * active.OtherStatusTurns / 16)
	case Burn:
		active.OtherStatusTurns++
		active.TakeDamage(active.BaseHP / 8)
	}
}

// forceReplacement asks the side's Policy to replace a fainted active
// creature (C9), swapping it in if a living replacement is found.
func (s *Simulator) forceReplacement(side *Side) {
	if side.Policy == nil {
		return
	}
	idx := side.Policy.ForceSwitch(side.Party)
	if idx > 0 && idx < len(side.Party) && !side.Party[idx].IsFainted() {
		side.SwitchTo(idx)
	}
}

// PlayToEnd repeatedly resolves turns until a winner emerges.
func (s *Simulator) PlayToEnd(sideA, sideB *Side) (*Side, error) {
	for {
		winner, err := s.PlayTurn(sideA, sideB)
		if err != nil {
			return nil, err
		}
		if winner != nil {
			return winner, nil
		}
	}
}

// Clone returns independent copies of both sides, safe to simulate on
// without affecting the originals.
func Clone(sideA, sideB *Side) (Side, Side) {
	return sideA.Clone(), sideB.Clone()
}
