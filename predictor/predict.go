package predictor

import (
	"math/rand"

	"github.com/alphabeth/porygon/battle"
	"github.com/alphabeth/porygon/encode"
	"gorgonia.org/vecf32"
)

// OutputDim is the fixed width of a raw prediction vector: 6 switch weights,
// 24 move weights (6 creatures * 4 moves), and 1 scalar outcome estimate.
const OutputDim = battle.PartyMax + battle.PartyMax*battle.MovesMax + 1

// Prediction is the decoded output of a forward pass: the per-creature
// switch and move weights, plus the scalar outcome estimate at index 30.
type Prediction struct {
	SwitchProbs [battle.PartyMax]float32
	MoveProbs   [battle.PartyMax][battle.MovesMax]float32
	Outcome     float32
}

// Kind is the attack/switch draw produced by PredictMove.
type Kind = battle.ActionKind

// MoveResult is predict_move's full return tuple minus the policy handle
// itself, which the policy package builds from it (predictor has no
// dependency on policy, to avoid an import cycle).
type MoveResult struct {
	Kind        Kind
	Index       int // move index (0..MovesMax-1) or party index (1..PartyMax-1)
	MoveProbs   [battle.MovesMax]float32
	SwitchProbs [battle.PartyMax]float32
}

// PredictMove runs a forward pass for (player, opponent) and draws a
// concrete decision, per spec §4.4: slice out the four move weights
// belonging to the current active creature (via its sorted-id rank) and the
// six switch weights, normalize their concatenation to probabilities, draw
// kind as attack with probability equal to the sum of move weights else
// switch, then draw the index from the matching weight vector. If the
// network is untrained, returns the uniform fallback (equivalent to the
// random baseline).
func PredictMove(n *Network, player, opponent *battle.Side, rng *rand.Rand) (MoveResult, error) {
	if !n.IsTrained() {
		return uniformMoveResult(player, rng), nil
	}

	input := encode.Encode(player, opponent)
	out, err := n.Predict(input)
	if err != nil {
		return MoveResult{}, err
	}

	pred := decode(out)
	active := player.Active()
	rank := player.RankOf(active.ID)

	moveWeights := pred.MoveProbs[rank]
	switchWeights := pred.SwitchProbs

	moveTotal := vecf32.Sum(moveWeights[:])
	total := moveTotal + vecf32.Sum(switchWeights[:])
	if total <= 0 {
		return uniformMoveResult(player, rng), nil
	}

	draw := rng.Float32() * total
	if draw < moveTotal {
		idx := weightedPick(moveWeights[:], draw, rng)
		return MoveResult{Kind: battle.AttackKind, Index: idx, MoveProbs: moveWeights, SwitchProbs: switchWeights}, nil
	}
	rank := weightedPick(switchWeights[:], draw-moveTotal, rng)
	// Switch weights are indexed by sorted-id rank; map the drawn rank back
	// to a party index, and fall back to a uniform legal pick when it does
	// not name a live backup.
	sorted := player.SortedByID()
	if rank >= len(sorted) || sorted[rank] == 0 || player.Party[sorted[rank]].IsFainted() {
		fallback := uniformMoveResult(player, rng)
		fallback.MoveProbs, fallback.SwitchProbs = moveWeights, switchWeights
		return fallback, nil
	}
	return MoveResult{Kind: battle.SwitchKind, Index: sorted[rank], MoveProbs: moveWeights, SwitchProbs: switchWeights}, nil
}

func decode(out []float32) Prediction {
	var pred Prediction
	for i := 0; i < battle.PartyMax; i++ {
		pred.SwitchProbs[i] = out[i]
	}
	for c := 0; c < battle.PartyMax; c++ {
		for m := 0; m < battle.MovesMax; m++ {
			pred.MoveProbs[c][m] = out[battle.PartyMax+c*battle.MovesMax+m]
		}
	}
	pred.Outcome = out[battle.PartyMax+battle.PartyMax*battle.MovesMax]
	return pred
}

// weightedPick draws an index from weights proportional to their positive
// values, falling back to a uniform draw over every index when the positive
// weights do not cover draw (for example when every weight is non-positive).
func weightedPick(weights []float32, draw float32, rng *rand.Rand) int {
	var cum float32
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cum += w
		if draw < cum {
			return i
		}
	}
	return rng.Intn(len(weights))
}

func uniformMoveResult(player *battle.Side, rng *rand.Rand) MoveResult {
	actions := battle.LegalActions(player)
	result := MoveResult{}
	for i := range result.MoveProbs {
		result.MoveProbs[i] = 1.0 / float32(battle.MovesMax)
	}
	for i := range result.SwitchProbs {
		result.SwitchProbs[i] = 1.0 / float32(battle.PartyMax)
	}
	if len(actions) == 0 {
		return result
	}
	pick := actions[rng.Intn(len(actions))]
	result.Kind = pick.Kind
	if pick.Kind == battle.AttackKind {
		result.Index = pick.MoveIndex
	} else {
		result.Index = pick.PartyIndex
	}
	return result
}
