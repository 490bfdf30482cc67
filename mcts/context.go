package mcts

import (
	"context"

	"github.com/alphabeth/porygon/battle"
)

// SearchContext behaves like Search but checks ctx between simulations,
// stopping early with ctx.Err() if the caller cancels before the configured
// simulation budget completes. Used by the planner's background worker
// variant (spec §5): the partially grown tree is simply left unread, no
// explicit teardown needed.
func (t *Tree) SearchContext(ctx context.Context, sim *battle.Simulator, player, opponent *battle.Side) error {
	for i := 0; i < t.conf.NumSimulations; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := t.simulate(sim, player, opponent); err != nil {
			return err
		}
		t.simulationsRun++
	}
	return nil
}
