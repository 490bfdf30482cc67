// Package eval pits two battle.Policy contestants against each other over
// repeated battles and tallies wins/draws/losses, grounded in the teacher's
// Arena (arena.go), which does the same for two chess-playing Agents ahead
// of a self-play model-promotion decision. The promotion/training-example
// half of that concern is dropped (spec's Non-goals exclude self-play
// training infrastructure); what survives is the win/draw/loss bookkeeping
// and turn-by-turn logging, repurposed as a strength-comparison harness for
// a Planner against a baseline (or another Planner configuration).
package eval

import (
	"bytes"
	"fmt"
	"log"
	"math/rand"

	"github.com/alphabeth/porygon/battle"
)

// Contestant is a named battle.Policy plus the fresh party it fields each
// match; PartyFactory is called once per game so repeated games never share
// mutable creature state.
type Contestant struct {
	Name         string
	Policy       battle.Policy
	PartyFactory func() []battle.Creature

	Wins, Draws, Losses int
}

// Arena runs repeated head-to-head battles between two Contestants.
type Arena struct {
	a, b     *Contestant
	maxTurns int
	rng      *rand.Rand
	buf      bytes.Buffer
	logger   *log.Logger
}

// NewArena builds an Arena seeded from rng (nil uses a fixed default seed so
// results stay reproducible, per spec §5's determinism requirement).
func NewArena(a, b *Contestant, maxTurns int, rng *rand.Rand) *Arena {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	ar := &Arena{a: a, b: b, maxTurns: maxTurns, rng: rng}
	ar.logger = log.New(&ar.buf, "", log.Ltime)
	return ar
}

// Result is the outcome of one played match.
type Result struct {
	Winner *Contestant // nil on a draw
	Turns  int
}

// Play runs one battle to completion (or until maxTurns, counted a draw) and
// updates both contestants' tallies.
func (ar *Arena) Play() (Result, error) {
	sideA := &battle.Side{Name: ar.a.Name, ID: 1, Party: ar.a.PartyFactory(), Policy: ar.a.Policy}
	sideB := &battle.Side{Name: ar.b.Name, ID: 2, Party: ar.b.PartyFactory(), Policy: ar.b.Policy}
	sim := battle.NewSimulator(ar.rng)

	turns := 0
	for turns < ar.maxTurns {
		if sideA.HasLost() || sideB.HasLost() {
			break
		}
		winner, err := sim.PlayTurn(sideA, sideB)
		if err != nil {
			return Result{}, err
		}
		turns++
		ar.logger.Printf("turn %d: %s=%d hp, %s=%d hp\n", turns,
			sideA.Name, sideA.Active().HP, sideB.Name, sideB.Active().HP)
		if winner != nil {
			break
		}
	}

	var result Result
	result.Turns = turns
	switch {
	case sideA.HasLost() && sideB.HasLost(), turns >= ar.maxTurns && !sideA.HasLost() && !sideB.HasLost():
		ar.a.Draws++
		ar.b.Draws++
	case sideA.HasLost():
		ar.b.Wins++
		ar.a.Losses++
		result.Winner = ar.b
	case sideB.HasLost():
		ar.a.Wins++
		ar.b.Losses++
		result.Winner = ar.a
	}
	return result, nil
}

// PlayMatch runs n games and returns the per-game results in order.
func (ar *Arena) PlayMatch(n int) ([]Result, error) {
	results := make([]Result, 0, n)
	for i := 0; i < n; i++ {
		r, err := ar.Play()
		if err != nil {
			return results, fmt.Errorf("eval: game %d: %w", i, err)
		}
		results = append(results, r)
	}
	return results, nil
}

// Log returns the arena's accumulated turn-by-turn trace.
func (ar *Arena) Log() string {
	return ar.buf.String()
}
