package mcts

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
)

// ToDOT renders the tree as Graphviz DOT text for offline inspection, one
// node per arena slot labeled with its depth, visit count, and cumulative
// outcome.
func (t *Tree) ToDOT() (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName("mcts"); err != nil {
		return "", err
	}
	if err := g.SetDir(true); err != nil {
		return "", err
	}

	for i := range t.nodes {
		n := &t.nodes[i]
		name := nodeName(id(i))
		label := fmt.Sprintf("\"depth=%d visits=%d outcome=%.3f %s\"", n.depth, n.visits, n.cumulativeOutcome, n.description)
		if err := g.AddNode("mcts", name, map[string]string{"label": label}); err != nil {
			return "", err
		}
	}
	for i := range t.nodes {
		n := &t.nodes[i]
		src := nodeName(id(i))
		for _, c := range n.children {
			if err := g.AddEdge(src, nodeName(c), true, nil); err != nil {
				return "", err
			}
		}
	}
	return g.String(), nil
}

func nodeName(i id) string {
	return fmt.Sprintf("n%d", int(i))
}
