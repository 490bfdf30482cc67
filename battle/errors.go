package battle

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// ErrSimulatorContractBreach marks a simulator result that contradicts its
// own winner report: a winner is declared while both sides still field a
// live creature, or no winner is declared while one side has lost.
var ErrSimulatorContractBreach = errors.New("battle: simulator contract breach")

// CheckWinnerContract validates a PlayTurn/PlayToEnd result against the two
// sides it was computed from, per the §7 "simulator contract breach" class.
func CheckWinnerContract(sideA, sideB *Side, winner *Side) error {
	aLost, bLost := sideA.HasLost(), sideB.HasLost()
	switch {
	case winner == nil && (aLost || bLost):
		return errors.Wrap(ErrSimulatorContractBreach, "no winner reported but a side has lost")
	case winner == sideA && (aLost || !bLost):
		return errors.Wrap(ErrSimulatorContractBreach, "sideA declared winner despite its own or the opponent's state")
	case winner == sideB && (bLost || !aLost):
		return errors.Wrap(ErrSimulatorContractBreach, "sideB declared winner despite its own or the opponent's state")
	}
	return nil
}

// ValidateSide aggregates every structural invariant violation found on s
// into a single multierror, rather than stopping at the first one, so a
// caller doing a one-shot integrity pass sees the whole picture.
func ValidateSide(s *Side) error {
	var result *multierror.Error
	if len(s.Party) == 0 {
		result = multierror.Append(result, errors.New("battle: side has an empty party"))
		return result.ErrorOrNil()
	}
	if len(s.Party) > PartyMax {
		result = multierror.Append(result, errors.Errorf("battle: party size %d exceeds PartyMax %d", len(s.Party), PartyMax))
	}
	seen := make(map[int32]bool, len(s.Party))
	for i := range s.Party {
		c := &s.Party[i]
		if len(c.Moves) > MovesMax {
			result = multierror.Append(result, errors.Errorf("battle: creature %q has %d moves, exceeds MovesMax %d", c.Name, len(c.Moves), MovesMax))
		}
		if seen[c.ID] {
			result = multierror.Append(result, errors.Errorf("battle: duplicate stable id %d on side %q", c.ID, s.Name))
		}
		seen[c.ID] = true
		if c.HP < 0 || c.HP > c.BaseHP {
			result = multierror.Append(result, errors.Errorf("battle: creature %q hp %d out of [0, %d]", c.Name, c.HP, c.BaseHP))
		}
	}
	return result.ErrorOrNil()
}
