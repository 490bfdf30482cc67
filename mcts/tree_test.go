package mcts

import (
	"math/rand"
	"testing"

	"github.com/alphabeth/porygon/battle"
	"github.com/alphabeth/porygon/policy"
	"github.com/stretchr/testify/require"
)

func twoMonSide(id int32, name string) *battle.Side {
	return &battle.Side{
		Name: name,
		ID:   id,
		Party: []battle.Creature{
			{ID: id*10 + 1, Name: "A", HP: 100, BaseHP: 100, Stats: battle.Stats{Attack: 50, Defense: 50, Speed: 60},
				Moves: []battle.Move{{Name: "Tackle", BaseDamage: 40, PP: 5, BasePP: 5}}},
			{ID: id*10 + 2, Name: "B", HP: 100, BaseHP: 100, Stats: battle.Stats{Attack: 50, Defense: 50, Speed: 40},
				Moves: []battle.Move{{Name: "Tackle", BaseDamage: 40, PP: 5, BasePP: 5}}},
		},
	}
}

func testConfig() Config {
	return Config{
		NumSimulations:   20,
		LearningTurns:    5,
		OpponentBaseline: policy.Random{Rng: rand.New(rand.NewSource(2))},
		Rng:              rand.New(rand.NewSource(3)),
	}
}

// TestSearchProducesAValidTree covers §8 property 1: tree integrity holds
// after a full search.
func TestSearchProducesAValidTree(t *testing.T) {
	player := twoMonSide(1, "planner")
	opponent := twoMonSide(2, "opponent")
	tree := NewTree(testConfig(), player.ID, opponent.ID)
	sim := battle.NewSimulator(rand.New(rand.NewSource(4)))

	require.NoError(t, tree.Search(sim, player, opponent))
	require.NoError(t, tree.Validate())
}

// TestRootVisitsMatchSimulationCount covers §8 property 2.
func TestRootVisitsMatchSimulationCount(t *testing.T) {
	player := twoMonSide(1, "planner")
	opponent := twoMonSide(2, "opponent")
	conf := testConfig()
	conf.NumSimulations = 15
	tree := NewTree(conf, player.ID, opponent.ID)
	sim := battle.NewSimulator(rand.New(rand.NewSource(4)))

	require.NoError(t, tree.Search(sim, player, opponent))
	require.Equal(t, conf.NumSimulations, tree.at(tree.root).visits)
}

// TestBestRootActionBreaksTiesByInsertionOrder checks the tie-break rule
// directly against a hand-built tree, independent of search noise.
func TestBestRootActionBreaksTiesByInsertionOrder(t *testing.T) {
	tree := &Tree{conf: testConfig()}
	tree.plannerID, tree.opponentID = 1, 2
	tree.root = tree.alloc(node{playerToMove: 1, depth: 1})
	a := tree.alloc(node{depth: 2, action: battle.Action{Kind: battle.AttackKind, MoveIndex: 0}})
	b := tree.alloc(node{depth: 2, action: battle.Action{Kind: battle.AttackKind, MoveIndex: 1}})
	tree.at(a).cumulativeOutcome = 1.0
	tree.at(b).cumulativeOutcome = 1.0
	tree.at(tree.root).children = []id{a, b}

	best := tree.BestRootAction()
	require.Equal(t, 0, best.MoveIndex)
}

// TestRootDistributionSortsAscendingByProbability covers C5's
// root_distribution formula and ordering.
func TestRootDistributionSortsAscendingByProbability(t *testing.T) {
	tree := &Tree{conf: testConfig()}
	tree.plannerID, tree.opponentID = 1, 2
	tree.root = tree.alloc(node{playerToMove: 1, depth: 1})
	lo := tree.alloc(node{depth: 2, cumulativeOutcome: -2, visits: 3})
	hi := tree.alloc(node{depth: 2, cumulativeOutcome: 5, visits: 7})
	tree.at(tree.root).children = []id{hi, lo}

	dist := tree.RootDistribution()
	require.Len(t, dist, 2)
	require.LessOrEqual(t, dist[0].Probability, dist[1].Probability)
}

// TestRootDistributionFallsBackToUniformWhenDenominatorIsZero covers the
// degenerate case where every child has zero cumulative outcome.
func TestRootDistributionFallsBackToUniformWhenDenominatorIsZero(t *testing.T) {
	tree := &Tree{conf: testConfig()}
	tree.root = tree.alloc(node{depth: 1})
	a := tree.alloc(node{depth: 2})
	b := tree.alloc(node{depth: 2})
	tree.at(tree.root).children = []id{a, b}

	dist := tree.RootDistribution()
	require.InDelta(t, 0.5, dist[0].Probability, 1e-9)
	require.InDelta(t, 0.5, dist[1].Probability, 1e-9)
}

// TestUCB1PrefersHigherMeanAtEqualVisits checks monotonicity (§8 property 6):
// holding visits equal, the child with the larger average outcome scores
// higher.
func TestUCB1PrefersHigherMeanAtEqualVisits(t *testing.T) {
	low := &node{cumulativeOutcome: 1, visits: 10}
	high := &node{cumulativeOutcome: 8, visits: 10}
	require.Greater(t, ucb1(high, 100, UCBExploration), ucb1(low, 100, UCBExploration))
}

// TestUCB1PrefersFewerVisitsAtEqualMean checks the explore term grows as a
// child's own visit count shrinks relative to its parent's.
func TestUCB1PrefersFewerVisitsAtEqualMean(t *testing.T) {
	rare := &node{cumulativeOutcome: 5, visits: 2}
	common := &node{cumulativeOutcome: 5, visits: 50}
	require.Greater(t, ucb1(rare, 100, UCBExploration), ucb1(common, 100, UCBExploration))
}

// TestBackpropParityRewardsPlannerNodesDirectly covers §8 property 7: a
// planner-owned node (even depth) accumulates reward unflipped, while an
// opponent-owned node (odd depth > 1) accumulates its complement.
func TestBackpropParityRewardsPlannerNodesDirectly(t *testing.T) {
	tree := &Tree{conf: testConfig()}
	tree.root = tree.alloc(node{depth: 1})
	plannerNode := tree.alloc(node{depth: 2})
	opponentNode := tree.alloc(node{depth: 3})

	tree.backprop([]id{tree.root, plannerNode, opponentNode}, 0.7)

	require.InDelta(t, 0.7, tree.at(tree.root).cumulativeOutcome, 1e-9)
	require.InDelta(t, 0.7, tree.at(plannerNode).cumulativeOutcome, 1e-9)
	require.InDelta(t, 0.3, tree.at(opponentNode).cumulativeOutcome, 1e-9)
	require.Equal(t, 1, tree.at(plannerNode).visits)
}

// TestSearchFavorsSuperEffectiveMoveAgainstAGrassDefender covers §8 scenario
// S1: Charizard's fire-type move is super-effective against Bulbasaur's
// grass type, so after a full search the root distribution ranks it highest
// and it is the chosen best root action.
func TestSearchFavorsSuperEffectiveMoveAgainstAGrassDefender(t *testing.T) {
	player := &battle.Side{
		ID: 1,
		Party: []battle.Creature{
			{ID: 11, Name: "Charizard", Type: battle.Fire, HP: 100, BaseHP: 100,
				Stats: battle.Stats{Attack: 80, Defense: 60, Speed: 100},
				Moves: []battle.Move{
					{Name: "Ember", BaseDamage: 60, PP: 10, BasePP: 10, Type: battle.Fire},
					{Name: "Scratch", BaseDamage: 60, PP: 10, BasePP: 10, Type: battle.Normal},
				}},
		},
	}
	opponent := &battle.Side{
		ID: 2,
		Party: []battle.Creature{
			{ID: 21, Name: "Bulbasaur", Type: battle.Grass, HP: 100, BaseHP: 100,
				Stats: battle.Stats{Attack: 50, Defense: 50, Speed: 50},
				Moves: []battle.Move{{Name: "Tackle", BaseDamage: 40, PP: 10, BasePP: 10, Type: battle.Normal}}},
		},
	}
	conf := Config{
		NumSimulations:   1000,
		LearningTurns:    50,
		OpponentBaseline: policy.Random{Rng: rand.New(rand.NewSource(2))},
		Rng:              rand.New(rand.NewSource(3)),
	}
	tree := NewTree(conf, player.ID, opponent.ID)
	sim := battle.NewSimulator(rand.New(rand.NewSource(4)))
	require.NoError(t, tree.Search(sim, player, opponent))

	dist := tree.RootDistribution()
	require.Len(t, dist, 2)
	highest := dist[len(dist)-1]
	require.Equal(t, battle.AttackKind, highest.Action.Kind)
	require.Equal(t, 0, highest.Action.MoveIndex) // Ember

	best := tree.BestRootAction()
	require.Equal(t, 0, best.MoveIndex)
}

// TestSearchPicksWaterMoveAgainstAHighestDamageFireOpponent covers §8
// scenario S2: Squirtle's water-type move is super-effective against
// Charizard's fire type, and remains the argmax root action even when the
// opponent baseline is the highest-damage policy rather than random.
func TestSearchPicksWaterMoveAgainstAHighestDamageFireOpponent(t *testing.T) {
	player := &battle.Side{
		ID: 1,
		Party: []battle.Creature{
			{ID: 31, Name: "Squirtle", Type: battle.Water, HP: 100, BaseHP: 100,
				Stats: battle.Stats{Attack: 50, Defense: 50, Speed: 50},
				Moves: []battle.Move{
					{Name: "WaterGun", BaseDamage: 60, PP: 10, BasePP: 10, Type: battle.Water},
					{Name: "Tackle", BaseDamage: 60, PP: 10, BasePP: 10, Type: battle.Normal},
				}},
		},
	}
	opponent := &battle.Side{
		ID: 2,
		Party: []battle.Creature{
			{ID: 41, Name: "Charizard", Type: battle.Fire, HP: 100, BaseHP: 100,
				Stats: battle.Stats{Attack: 50, Defense: 50, Speed: 50},
				Moves: []battle.Move{{Name: "Ember", BaseDamage: 50, PP: 10, BasePP: 10, Type: battle.Fire}}},
		},
	}
	conf := Config{
		NumSimulations:   1000,
		LearningTurns:    50,
		OpponentBaseline: policy.HighestDamage{Rng: rand.New(rand.NewSource(2))},
		Rng:              rand.New(rand.NewSource(3)),
	}
	tree := NewTree(conf, player.ID, opponent.ID)
	sim := battle.NewSimulator(rand.New(rand.NewSource(4)))
	require.NoError(t, tree.Search(sim, player, opponent))

	best := tree.BestRootAction()
	require.Equal(t, battle.AttackKind, best.Kind)
	require.Equal(t, 0, best.MoveIndex) // WaterGun
}

// TestSearchPrefersSwitchingOverStruggleWhenOutOfPP covers §8 scenario S3: with
// every move at pp 0 the only attack action is Struggle, but a party with a
// healthy backup should still prefer switching it in over letting the active
// creature, which is at 5 hp against a faster opponent that always one-shots
// it, Struggle.
func TestSearchPrefersSwitchingOverStruggleWhenOutOfPP(t *testing.T) {
	player := &battle.Side{
		ID: 1,
		Party: []battle.Creature{
			{ID: 1, Name: "Weak", Type: battle.Normal, HP: 5, BaseHP: 100,
				Stats: battle.Stats{Attack: 50, Defense: 50, Speed: 10},
				Moves: []battle.Move{{Name: "Spent", BaseDamage: 40, PP: 0, BasePP: 10, Type: battle.Normal}}},
			{ID: 2, Name: "Backup", Type: battle.Normal, HP: 100, BaseHP: 100,
				Stats: battle.Stats{Attack: 50, Defense: 50, Speed: 50},
				Moves: []battle.Move{{Name: "Tackle", BaseDamage: 40, PP: 10, BasePP: 10, Type: battle.Normal}}},
		},
	}
	opponent := &battle.Side{
		ID: 2,
		Party: []battle.Creature{
			{ID: 3, Name: "Big", Type: battle.Normal, HP: 100, BaseHP: 100,
				Stats: battle.Stats{Attack: 100, Defense: 10, Speed: 100},
				Moves: []battle.Move{{Name: "Hammer", BaseDamage: 60, PP: 10, BasePP: 10, Type: battle.Normal}}},
		},
	}
	conf := Config{
		NumSimulations:   40,
		LearningTurns:    10,
		OpponentBaseline: policy.Random{Rng: rand.New(rand.NewSource(2))},
		Rng:              rand.New(rand.NewSource(3)),
	}
	tree := NewTree(conf, player.ID, opponent.ID)
	sim := battle.NewSimulator(rand.New(rand.NewSource(4)))
	require.NoError(t, tree.Search(sim, player, opponent))

	best := tree.BestRootAction()
	require.Equal(t, battle.SwitchKind, best.Kind)
	require.Equal(t, 1, best.PartyIndex)
}

// TestForceSwitchDuringRolloutPicksTheSoleSurvivor covers §8 scenario S4: a
// production Policy's ForceSwitch, driven through the same Simulator.PlayTurn
// path the rollout driver (C7) uses, replaces a mid-turn faint with the
// party's one surviving backup regardless of whether this side attacked or
// switched voluntarily that turn.
func TestForceSwitchDuringRolloutPicksTheSoleSurvivor(t *testing.T) {
	ourSide := &battle.Side{
		Name: "planner",
		Party: []battle.Creature{
			{ID: 1, Name: "Active", Type: battle.Normal, HP: 1, BaseHP: 100,
				Stats: battle.Stats{Attack: 50, Defense: 50, Speed: 10},
				Moves: []battle.Move{{Name: "Tackle", BaseDamage: 10, PP: 10, BasePP: 10, Type: battle.Normal}}},
			{ID: 2, Name: "Fainted", Type: battle.Normal, HP: 0, BaseHP: 100,
				Stats: battle.Stats{Attack: 50, Defense: 50, Speed: 50}},
			{ID: 3, Name: "AlsoFainted", Type: battle.Normal, HP: 0, BaseHP: 100,
				Stats: battle.Stats{Attack: 50, Defense: 50, Speed: 50}},
			{ID: 4, Name: "Survivor", Type: battle.Normal, HP: 100, BaseHP: 100,
				Stats: battle.Stats{Attack: 50, Defense: 50, Speed: 50}},
		},
		Policy: policy.Random{Rng: rand.New(rand.NewSource(5))},
	}
	opponent := &battle.Side{
		Name: "opponent",
		Party: []battle.Creature{
			{ID: 5, Name: "Brute", Type: battle.Normal, HP: 100, BaseHP: 100,
				Stats: battle.Stats{Attack: 100, Defense: 10, Speed: 100},
				Moves: []battle.Move{{Name: "Smash", BaseDamage: 60, PP: 10, BasePP: 10, Type: battle.Normal}}},
		},
		Policy: policy.Random{Rng: rand.New(rand.NewSource(6))},
	}

	sim := battle.NewSimulator(rand.New(rand.NewSource(7)))
	_, err := sim.PlayTurn(ourSide, opponent)
	require.NoError(t, err)

	require.Equal(t, int32(4), ourSide.Active().ID)
}

func TestToDOTRendersEveryNode(t *testing.T) {
	player := twoMonSide(1, "planner")
	opponent := twoMonSide(2, "opponent")
	conf := testConfig()
	conf.NumSimulations = 5
	tree := NewTree(conf, player.ID, opponent.ID)
	sim := battle.NewSimulator(rand.New(rand.NewSource(4)))
	require.NoError(t, tree.Search(sim, player, opponent))

	dot, err := tree.ToDOT()
	require.NoError(t, err)
	require.Contains(t, dot, "digraph")
}
