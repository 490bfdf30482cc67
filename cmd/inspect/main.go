// Command inspect runs a single planner turn against a scripted battle
// state and writes the resulting search tree as a Graphviz DOT file,
// satisfying the node's optional "description" field (spec §3) with an
// actual rendering path, grounded in the pack's gographviz wiring.
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
	numSimulations = flag.Int("num_simulations", 200, "number of MCTS simulations to run")
	seed           = flag.Int64("seed", 1, "rng seed for the search")
	outFile        = flag.String("out", "tree.dot", "path to write the rendered DOT tree")
)

func scriptedSide(id int32, name string) *battle.Side {
	return &battle.Side{
		Name: name,
		ID:   id,
		Party: []battle.Creature{
			{ID: id*10 + 1, Name: "A", HP: 100, BaseHP: 100,
				Stats: battle.Stats{Attack: 55, Defense: 45, Speed: 60},
				Moves: []battle.Move{
					{Name: "Slam", BaseDamage: 50, PP: 10, BasePP: 10, Type: battle.Normal},
					{Name: "Ember", BaseDamage: 40, PP: 10, BasePP: 10, Type: battle.Fire},
				}},
			{ID: id*10 + 2, Name: "B", HP: 90, BaseHP: 90,
				Stats: battle.Stats{Attack: 60, Defense: 40, Speed: 50},
				Moves: []battle.Move{
					{Name: "Bite", BaseDamage: 45, PP: 15, BasePP: 15, Type: battle.Dark},
				}},
		},
	}
}

func main() {
	flag.Parse()

	player := scriptedSide(1, "planner")
	opponent := scriptedSide(2, "opponent")

	conf := mcts.DefaultConfig()
	conf.NumSimulations = *numSimulations
	conf.Rng = rand.New(rand.NewSource(*seed))
	conf.OpponentBaseline = policy.Random{Rng: rand.New(rand.NewSource(*seed + 1))}

	p := planner.New(conf, battle.NewSimulator(rand.New(rand.NewSource(*seed))))

	var committed string
	attack := func(m battle.Move) error { committed = "attack:" + m.Name; return nil }
	useItem := func(interface{}) error { return nil }
	switchTo := func(idx int) error { committed = fmt.Sprintf("switch:%d", idx); return nil }

	if err := p.TakeTurn(player, opponent, attack, useItem, switchTo); err != nil {
		fmt.Fprintf(os.Stderr, "inspect: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("chose %s, tree has %d nodes\n", committed, p.LastTree().NumNodes())

	dot, err := p.LastTree().ToDOT()
	if err != nil {
		fmt.Fprintf(os.Stderr, "inspect: render dot: %s\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*outFile, []byte(dot), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "inspect: write %s: %s\n", *outFile, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", *outFile)
}
