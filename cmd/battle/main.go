// Command battle wires the battle, planner, and policy packages end to end
// for two scripted parties, mirroring the teacher's cmd/infer loop (game
// state, Search, apply, repeat) against the creature-battle domain instead
// of chess.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/alphabeth/porygon/battle"
	"github.com/alphabeth/porygon/mcts"
	"github.com/alphabeth/porygon/planner"
	"github.com/alphabeth/porygon/policy"
)

var (
	numSimulations = flag.Int("num_simulations", 50, "number of MCTS simulations per planner turn")
	seed           = flag.Int64("seed", 1, "rng seed for the battle simulator and planner search")
	maxTurns       = flag.Int("max_turns", 200, "safety cap on turns before declaring a draw")
)

func demoParty(id int32, name string) *battle.Side {
	return &battle.Side{
		Name: name,
		ID:   id,
		Party: []battle.Creature{
			{ID: id*10 + 1, Name: "Charmander", Type: battle.Fire, HP: 118, BaseHP: 118,
				Stats: battle.Stats{Attack: 52, Defense: 43, Speed: 65},
				Moves: []battle.Move{
					{Name: "Ember", BaseDamage: 40, PP: 25, BasePP: 25, Type: battle.Fire},
					{Name: "Scratch", BaseDamage: 40, PP: 35, BasePP: 35, Type: battle.Normal},
				}},
			{ID: id*10 + 2, Name: "Squirtle", Type: battle.Water, HP: 127, BaseHP: 127,
				Stats: battle.Stats{Attack: 48, Defense: 65, Speed: 43},
				Moves: []battle.Move{
					{Name: "Water Gun", BaseDamage: 40, PP: 25, BasePP: 25, Type: battle.Water},
					{Name: "Tackle", BaseDamage: 40, PP: 35, BasePP: 35, Type: battle.Normal},
				}},
		},
	}
}

func main() {
	flag.Parse()

	player := demoParty(1, "planner")
	opponent := demoParty(2, "opponent")
	opponent.Policy = policy.HighestDamage{Rng: rand.New(rand.NewSource(*seed + 1))}

	conf := mcts.DefaultConfig()
	conf.NumSimulations = *numSimulations
	conf.Rng = rand.New(rand.NewSource(*seed))
	conf.OpponentBaseline = policy.HighestDamage{Rng: rand.New(rand.NewSource(*seed + 1))}

	p := planner.New(conf, battle.NewSimulator(rand.New(rand.NewSource(*seed))))
	player.Policy = p

	sim := battle.NewSimulator(rand.New(rand.NewSource(*seed + 2)))
	for turn := 0; turn < *maxTurns; turn++ {
		if player.HasLost() || opponent.HasLost() {
			break
		}
		if _, err := sim.PlayTurn(player, opponent); err != nil {
			fmt.Fprintf(os.Stderr, "battle: turn %d: %s\n", turn, err)
			os.Exit(1)
		}
		fmt.Printf("turn %d: %s=%d/%d hp, %s=%d/%d hp\n", turn,
			player.Active().Name, player.Active().HP, player.Active().BaseHP,
			opponent.Active().Name, opponent.Active().HP, opponent.Active().BaseHP)
	}

	switch {
	case opponent.HasLost() && !player.HasLost():
		fmt.Println("planner wins")
	case player.HasLost() && !opponent.HasLost():
		fmt.Println("opponent wins")
	default:
		fmt.Println("draw")
	}
}
