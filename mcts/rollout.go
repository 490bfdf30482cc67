package mcts

import (
	"math/rand"

	"github.com/alphabeth/porygon/battle"
	"github.com/alphabeth/porygon/encode"
	"github.com/alphabeth/porygon/policy"
	"github.com/alphabeth/porygon/predictor"
)

// Search runs conf.NumSimulations iterations of select/expand/rollout/
// backprop rooted at the real (player, opponent) state, grounded in the
// teacher's Search loop (mcts/search.go's pipeline) with the AlphaZero
// expand-and-simulate step replaced by the harness's forward battle
// simulator (C7).
//
// player and opponent are never mutated: every iteration works against
// fresh clones.
func (t *Tree) Search(sim *battle.Simulator, player, opponent *battle.Side) error {
	for i := 0; i < t.conf.NumSimulations; i++ {
		if err := t.simulate(sim, player, opponent); err != nil {
			return err
		}
		t.simulationsRun++
	}
	return nil
}

func sideFor(wantID int32, a, b *battle.Side) *battle.Side {
	if a.ID == wantID {
		return a
	}
	return b
}

// simulate runs one full select -> expand -> rollout -> backprop iteration.
func (t *Tree) simulate(sim *battle.Simulator, realPlayer, realOpponent *battle.Side) error {
	planner := realPlayer.Clone()
	opponent := realOpponent.Clone()
	rng := t.conf.rng()

	path := []id{t.root}
	cur := t.root
	hitTerminalMidTraversal := false

	for {
		n := t.at(cur)
		mover := sideFor(n.playerToMove, &planner, &opponent)
		if mover.Active() == nil || planner.HasLost() || opponent.HasLost() {
			hitTerminalMidTraversal = true
			break
		}
		t.expand(cur, mover)
		if len(t.at(cur).children) == 0 {
			hitTerminalMidTraversal = true
			break
		}

		next := t.selectChild(cur)
		nextNode := t.at(next)
		if nextNode.depth > 1 && nextNode.depth%2 == 1 {
			// Even parent holds the planner's proposed action; this odd
			// child holds the opponent's response. Both halves are now
			// known, so the turn resolves here regardless of how much
			// deeper the traversal continues.
			if err := resolveTurn(sim, &planner, &opponent, t.at(cur).action, nextNode.action); err != nil {
				return err
			}
		}
		path = append(path, next)
		cur = next

		if t.at(cur).visits == 0 {
			break
		}
		if planner.HasLost() || opponent.HasLost() {
			hitTerminalMidTraversal = true
			break
		}
	}

	leaf := t.at(cur)
	if !planner.HasLost() && !opponent.HasLost() && leaf.depth > 1 && leaf.isPlannerOwned() {
		// Leaf holds the planner's proposal only; the opponent hasn't
		// picked a response yet (§4.7 step 2). Pick one ad hoc from the
		// configured baseline and resolve the turn it completes.
		opponentAction, err := decideAction(t.conf.OpponentBaseline, &opponent, &planner)
		if err != nil {
			return err
		}
		if err := resolveTurn(sim, &planner, &opponent, leaf.action, opponentAction); err != nil {
			return err
		}
	}

	if !planner.HasLost() && !opponent.HasLost() {
		planner.Policy = t.plannerRolloutPolicy(rng)
		opponent.Policy = t.conf.OpponentBaseline
		if _, err := sim.PlayToEnd(&planner, &opponent); err != nil {
			return err
		}
	}

	reward := battle.Outcome(&planner, &opponent)
	t.backprop(path, reward)

	if hitTerminalMidTraversal && t.conf.Network != nil {
		t.updatePredictor(realPlayer, realOpponent)
	}
	return nil
}

// plannerRolloutPolicy implements the learning_turns gate: a random baseline
// for the first LearningTurns simulations, the predictor thereafter.
func (t *Tree) plannerRolloutPolicy(rng *rand.Rand) battle.Policy {
	if t.simulationsRun < t.conf.LearningTurns || t.conf.Network == nil {
		return policy.Random{Rng: rng}
	}
	return policy.Predictor{Network: t.conf.Network, Rng: rng}
}

// resolveTurn commits both sides to their chosen actions via one-shot
// policies and advances the simulator by exactly one turn.
func resolveTurn(sim *battle.Simulator, planner, opponent *battle.Side, plannerAction, opponentAction battle.Action) error {
	planner.Policy = policy.NewOneShot(plannerAction)
	opponent.Policy = policy.NewOneShot(opponentAction)
	_, err := sim.PlayTurn(planner, opponent)
	return err
}

// decideAction runs p.TakeTurn against mover (with other as its opponent) and
// reports back the battle.Action it committed to, so an ad hoc policy choice
// can be recorded the same way tree actions are.
func decideAction(p battle.Policy, mover, other *battle.Side) (battle.Action, error) {
	active := mover.Active()
	var result battle.Action
	attack := func(m battle.Move) error {
		result = battle.Action{Kind: battle.AttackKind, MoveIndex: moveIndexOf(active, m)}
		return nil
	}
	useItem := func(interface{}) error { return nil }
	switchTo := func(idx int) error {
		result = battle.Action{Kind: battle.SwitchKind, PartyIndex: idx}
		return nil
	}
	if err := p.TakeTurn(mover, other, attack, useItem, switchTo); err != nil {
		return battle.Action{}, err
	}
	return result, nil
}

func moveIndexOf(active *battle.Creature, m battle.Move) int {
	if m == battle.StruggleMove {
		return battle.StruggleIndex
	}
	for i, mv := range active.Moves {
		if mv == m {
			return i
		}
	}
	return battle.StruggleIndex
}

// backprop adds reward (or its complement for opponent-owned nodes) to every
// node on path and increments each node's visit count (§4.7 step 6).
func (t *Tree) backprop(path []id, reward float64) {
	for _, nid := range path {
		n := t.at(nid)
		n.visits++
		if nid == t.root || n.isPlannerOwned() {
			n.cumulativeOutcome += reward
		} else {
			n.cumulativeOutcome += 1 - reward
		}
	}
}

// updatePredictor implements §4.7 step 7's optional online update: when a
// traversal runs into a real terminal before exhausting its unvisited
// lazy-expansion budget, the root's current child distribution is fit as a
// training target against the real pre-turn encoding.
func (t *Tree) updatePredictor(player, opponent *battle.Side) {
	input := encode.Encode(player, opponent)
	target := t.targetFromRoot(player)
	_ = t.conf.Network.Fit(input, target)
}

// targetFromRoot builds a predictor.OutputDim training target from the
// root's current child statistics: each child's share of the root's
// cumulative outcome lands in its switch or move slot, everything else is
// epsilon, and the outcome slot carries the root's own average reward.
func (t *Tree) targetFromRoot(player *battle.Side) []float32 {
	out := make([]float32, predictor.OutputDim)
	for i := range out {
		out[i] = battle.Epsilon
	}
	root := t.at(t.root)
	if root.visits == 0 {
		return out
	}
	for _, c := range root.children {
		cn := t.at(c)
		if cn.visits == 0 {
			continue
		}
		share := float32(cn.cumulativeOutcome / float64(root.cumulativeOutcome+battle.Epsilon))
		if cn.action.Kind == battle.SwitchKind {
			rank := player.RankOf(player.Party[cn.action.PartyIndex].ID)
			if rank >= 0 && rank < battle.PartyMax {
				out[rank] = share
			}
			continue
		}
		rank := player.RankOf(player.Active().ID)
		slot := battle.PartyMax + rank*battle.MovesMax + moveSlot(cn.action.MoveIndex)
		if slot >= battle.PartyMax && slot < predictor.OutputDim-1 {
			out[slot] = share
		}
	}
	out[predictor.OutputDim-1] = float32(root.cumulativeOutcome / float64(root.visits))
	return out
}

func moveSlot(moveIndex int) int {
	if moveIndex >= battle.MovesMax {
		return battle.MovesMax - 1
	}
	return moveIndex
}
