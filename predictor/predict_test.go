package predictor

import (
	"math/rand"
	"testing"

	"github.com/alphabeth/porygon/battle"
	"github.com/stretchr/testify/require"
)

func twoMonSide() *battle.Side {
	return &battle.Side{Party: []battle.Creature{
		{ID: 1, HP: 50, BaseHP: 100, Moves: []battle.Move{{PP: 5, BasePP: 10}}},
		{ID: 2, HP: 100, BaseHP: 100, Moves: []battle.Move{{PP: 5, BasePP: 10}}},
	}}
}

// TestPredictMoveUntrainedIsUniform covers scenario S5: an untrained
// predictor returns the uniform fallback, equivalent to the random baseline.
func TestPredictMoveUntrainedIsUniform(t *testing.T) {
	n := &Network{conf: DefaultConfig(60, 31)}
	require.False(t, n.IsTrained())

	player := twoMonSide()
	opponent := twoMonSide()
	result, err := PredictMove(n, player, opponent, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	for _, p := range result.MoveProbs {
		require.InDelta(t, 1.0/float64(battle.MovesMax), p, 1e-6)
	}
	for _, p := range result.SwitchProbs {
		require.InDelta(t, 1.0/float64(battle.PartyMax), p, 1e-6)
	}
}

func TestDecodeSplitsOutputVectorBySections(t *testing.T) {
	out := make([]float32, OutputDim)
	out[0] = 0.5 // switch rank 0
	out[battle.PartyMax+2] = 0.25 // creature rank 0, move 2
	out[OutputDim-1] = 0.42       // outcome

	pred := decode(out)
	require.InDelta(t, 0.5, pred.SwitchProbs[0], 1e-9)
	require.InDelta(t, 0.25, pred.MoveProbs[0][2], 1e-9)
	require.InDelta(t, 0.42, pred.Outcome, 1e-9)
}

func TestWeightedPickRespectsWeights(t *testing.T) {
	weights := []float32{0, 1, 0, 0}
	idx := weightedPick(weights, 0.5, rand.New(rand.NewSource(1)))
	require.Equal(t, 1, idx)
}
