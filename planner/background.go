package planner

import (
	"context"

	"github.com/alphabeth/porygon/battle"
	"github.com/alphabeth/porygon/mcts"
)

// Future is the single-use promise returned by SearchAsync: a producer
// (the search goroutine) and a consumer (whatever called Join) sharing one
// buffered result slot, per spec §5's "producer/consumer pair with a
// single result slot, join-on-read semantics, and no shared mutable state
// between workers".
type Future struct {
	resultCh chan asyncResult
	cancel   context.CancelFunc
	cached   *asyncResult
}

type asyncResult struct {
	action battle.Action
	tree   *mcts.Tree
	err    error
}

// SearchAsync dispatches one search to a background goroutine and returns
// immediately. The goroutine owns its own cloned sides via mcts.Tree.SearchContext
// (no state is shared with the caller), so player and opponent remain safe
// to read concurrently but must not be mutated until the Future is joined
// or cancelled.
func (p *Planner) SearchAsync(ctx context.Context, player, opponent *battle.Side) *Future {
	ctx, cancel := context.WithCancel(ctx)
	f := &Future{resultCh: make(chan asyncResult, 1), cancel: cancel}

	go func() {
		tree := mcts.NewTree(p.Conf, player.ID, opponent.ID)
		if err := tree.SearchContext(ctx, p.Simulator, player, opponent); err != nil {
			f.resultCh <- asyncResult{err: err}
			return
		}
		f.resultCh <- asyncResult{action: tree.BestRootAction(), tree: tree}
	}()
	return f
}

// Join blocks until the background search completes and returns its chosen
// action. The result is cached after the first call, so a Future can be
// joined more than once without a second receive on the underlying channel.
func (f *Future) Join() (battle.Action, error) {
	if f.cached == nil {
		r := <-f.resultCh
		f.cached = &r
	}
	return f.cached.action, f.cached.err
}

// Tree returns the tree grown by the background search, available only
// after Join has returned without error.
func (f *Future) Tree() *mcts.Tree {
	if f.cached == nil {
		return nil
	}
	return f.cached.tree
}

// Cancel abandons the future. The search goroutine notices on its next
// between-simulation check and returns early; its partially built tree is
// simply never read.
func (f *Future) Cancel() {
	f.cancel()
}

// Execute joins the future and, on success, applies its chosen action to
// player through the take_turn callback contract exactly once — letting a
// caller dispatch SearchAsync early (e.g. while a "thinking" indicator
// renders) and still honor C8's execute-exactly-once guarantee when ready.
func (f *Future) Execute(player *battle.Side, attack battle.AttackFunc, useItem battle.UseItemFunc, switchTo battle.SwitchFunc) error {
	action, err := f.Join()
	if err != nil {
		return err
	}
	if action.Kind == battle.AttackKind {
		return attack(player.Active().MoveAt(action.MoveIndex))
	}
	return switchTo(action.PartyIndex)
}
