// Package mcts implements the arena-allocated Monte Carlo Tree Search core
// (C5 Node & Tree, C6 Selection/Expansion, C7 Rollout Driver), grounded in
// the teacher's Naughty/children-by-index arena (mcts/naughty.go,
// mcts/tree.go) with the teacher's PUCT selection formula replaced by
// classic UCB1 and its AlphaZero policy-prior expansion replaced by the
// harness's forward-simulator rollout.
package mcts

import (
	"math/rand"
	"sync"

	"github.com/alphabeth/porygon/battle"
	"github.com/alphabeth/porygon/policy"
	"github.com/alphabeth/porygon/predictor"
	"github.com/chewxy/math32"
)

// UCBExploration is the fixed UCB1 exploration constant sqrt(2).
var UCBExploration = math32.Sqrt(2)

// Config configures a single search: its simulation budget, the warm-up
// length before the predictor starts biasing the planner's rollout moves,
// and the opponent's rollout baseline.
type Config struct {
	NumSimulations int // default 50
	LearningTurns  int // default 10; simulations before the predictor biases rollouts

	// OpponentBaseline is the policy the opponent side uses both for its
	// ad-hoc response during traversal (§4.7 step 2) and for the remainder
	// of a rollout once the traversal leaf is resolved.
	OpponentBaseline battle.Policy

	// Network, if non-nil, is consulted for the planner's rollout moves
	// once LearningTurns simulations have completed. A nil Network keeps
	// the random baseline for the planner's rollout moves indefinitely.
	Network *predictor.Network

	// RootNoise adds Dirichlet exploration noise to the root children's
	// UCB1 selection scores. Off by default so the engine matches spec's plain
	// UCB1 description (and so UCB monotonicity holds in tests); exposed
	// for callers who want additional exploration pressure.
	RootNoise bool

	Rng *rand.Rand
}

// DefaultConfig returns the harness's documented defaults (§6): 50
// simulations, a 10-simulation learning warm-up, and a random opponent
// baseline. Both the tree's own Rng and the opponent baseline's Rng are
// given their own persistent source (distinct seeds, so the two don't draw
// in lockstep) exactly as the teacher seeds one *rand.Rand per struct at
// construction (arena.go's MakeArena, mcts/tree.go's dirichlet setup)
// rather than minting a fresh one on every use.
func DefaultConfig() Config {
	return Config{
		NumSimulations:   50,
		LearningTurns:    10,
		OpponentBaseline: policy.Random{Rng: rand.New(rand.NewSource(2))},
		Rng:              rand.New(rand.NewSource(1)),
	}
}

// IsValid reports whether conf describes a runnable search.
func (c Config) IsValid() bool {
	return c.NumSimulations > 0 && c.LearningTurns >= 0 && c.OpponentBaseline != nil
}

var (
	fallbackRngOnce sync.Once
	fallbackRngVal  *rand.Rand
)

// fallbackRng lazily creates and persists a single *rand.Rand, shared by
// every Config left with a nil Rng, instead of reseeding a fresh one on
// every call (which would make every such Config draw identically each
// time). Callers that care about reproducibility should set Rng explicitly;
// this only backstops the cases that don't. The core is single-threaded per
// search (§5), so this fallback is not meant to be shared across concurrent
// searches.
func fallbackRng() *rand.Rand {
	fallbackRngOnce.Do(func() { fallbackRngVal = rand.New(rand.NewSource(1)) })
	return fallbackRngVal
}

func (c Config) rng() *rand.Rand {
	if c.Rng != nil {
		return c.Rng
	}
	return fallbackRng()
}
