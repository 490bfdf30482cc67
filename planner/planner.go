// Package planner implements the Planner Façade (C8): the single entry
// point the surrounding harness calls each turn. Grounded in the teacher's
// Agent (agent.go), which wraps an *mcts.MCTS plus a neural network behind
// a small Search/Close surface; this façade wraps an *mcts.Tree plus the
// shared predictor behind the harness's battle.Policy callback contract
// instead of Agent's game.Move-returning Search.
package planner

import (
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/alphabeth/porygon/battle"
	"github.com/alphabeth/porygon/mcts"
	"github.com/alphabeth/porygon/policy"
	"github.com/alphabeth/porygon/predictor"
)

// Planner is a battle.Policy that decides its move by growing a fresh
// mcts.Tree every turn. It holds no board state of its own between turns:
// only the predictor (shared, trained across turns and battles per spec's
// §5 "shared resources") and the search configuration persist.
type Planner struct {
	Conf      mcts.Config
	Simulator *battle.Simulator
	Log       *log.Logger

	lastTree *mcts.Tree // retained only for inspection/debugging (cmd/inspect)
}

var _ battle.Policy = &Planner{}

// New builds a Planner with conf, a Simulator seeded from sim (nil uses the
// package default seed), and a logger writing to stderr in the teacher's
// style (agogo.go, arena.go use the stdlib logger directly with no custom
// prefix).
func New(conf mcts.Config, sim *battle.Simulator) *Planner {
	if sim == nil {
		sim = battle.NewSimulator(nil)
	}
	return &Planner{
		Conf:      conf,
		Simulator: sim,
		Log:       log.New(os.Stderr, "", log.LstdFlags),
	}
}

// NewWithDefaults builds a Planner using mcts.DefaultConfig(), optionally
// biased by net once warm-up completes.
func NewWithDefaults(net *predictor.Network) *Planner {
	conf := mcts.DefaultConfig()
	conf.Network = net
	return New(conf, nil)
}

// TakeTurn implements C8's take_turn: grow a tree rooted at (player,
// opponent), run Conf.NumSimulations iterations, then execute
// best_root_action() through the provided callbacks exactly once. Neither
// player nor opponent is mutated during search — mcts.Tree.Search clones
// both before touching them.
func (p *Planner) TakeTurn(player, opponent *battle.Side, attack battle.AttackFunc, useItem battle.UseItemFunc, switchTo battle.SwitchFunc) error {
	if !p.Conf.IsValid() {
		return errors.New("planner: invalid search configuration")
	}
	tree := mcts.NewTree(p.Conf, player.ID, opponent.ID)
	if err := tree.Search(p.Simulator, player, opponent); err != nil {
		return errors.Wrap(err, "planner: search")
	}
	p.lastTree = tree

	action := tree.BestRootAction()
	p.Log.Printf("planner: %d sims, chose %s", p.Conf.NumSimulations, action.Description)

	if action.Kind == battle.AttackKind {
		return attack(player.Active().MoveAt(action.MoveIndex))
	}
	return switchTo(action.PartyIndex)
}

// ForceSwitch implements C9: delegate to the shared default rule, since a
// forced replacement needs no search (spec §4.9 — the harness already knows
// the only sensible candidates).
func (p *Planner) ForceSwitch(party []battle.Creature) int {
	return policy.ForceSwitchDefault(party)
}

// LastTree returns the tree grown by the most recent TakeTurn call, or nil
// if none has run yet. Exists for cmd/inspect's DOT export; never read by
// the search itself.
func (p *Planner) LastTree() *mcts.Tree {
	return p.lastTree
}
