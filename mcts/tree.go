package mcts

import (
	"github.com/alphabeth/porygon/battle"
	"github.com/chewxy/math32"
)

// Tree is the arena-allocated search tree for one planner turn, grounded in
// the teacher's naughty-indexed MCTS arena (nodes []Node, children [][]naughty)
// with its PUCT selection and policy-network expansion swapped for plain
// UCB1 over a forward battle simulator.
type Tree struct {
	nodes []node
	root  id

	plannerID, opponentID int32

	conf           Config
	simulationsRun int

	rootNoise []float64 // lazily sampled once the root's child count is known
}

// NewTree builds a one-node tree rooted at the current battle state, owned
// by the planner's side.
func NewTree(conf Config, plannerSideID, opponentSideID int32) *Tree {
	t := &Tree{conf: conf, plannerID: plannerSideID, opponentID: opponentSideID}
	t.root = t.alloc(node{
		playerToMove: plannerSideID,
		depth:        1,
		description:  "root",
	})
	return t
}

// other returns the side id that is not cur, among the tree's two known
// sides.
func (t *Tree) other(cur int32) int32 {
	if cur == t.plannerID {
		return t.opponentID
	}
	return t.plannerID
}

func (t *Tree) alloc(n node) id {
	t.nodes = append(t.nodes, n)
	return id(len(t.nodes) - 1)
}

func (t *Tree) at(i id) *node { return &t.nodes[i] }

// Root returns the root node's id.
func (t *Tree) Root() id { return t.root }

// NumNodes returns the number of arena slots in use (cmd/inspect reports it).
func (t *Tree) NumNodes() int { return len(t.nodes) }

// ucb1 scores a child for selection: exploitation plus the sqrt(2) bonus.
func ucb1(child *node, parentVisits int, c float32) float32 {
	if child.visits == 0 {
		return math32.Inf(1)
	}
	exploit := float32(child.cumulativeOutcome / float64(child.visits))
	explore := c * math32.Sqrt(math32.Log(float32(parentVisits))/float32(child.visits))
	return exploit + explore
}

// expand enumerates the legal actions of side (the node's playerToMove) and
// attaches any action not already represented as a child. Never re-expands
// an action already present, keeping each node's child set fixed once
// established (§4.6's "never re-expand a node").
func (t *Tree) expand(nid id, side *battle.Side) {
	n := t.at(nid)
	active := side.Active()
	if active == nil {
		return
	}
	for _, a := range battle.LegalActions(side) {
		k := keyFor(active, side, a)
		if _, ok := n.findChild(k); ok {
			continue
		}
		child := t.alloc(node{
			playerToMove: t.other(n.playerToMove),
			action:       a,
			depth:        n.depth + 1,
			description:  a.Description,
		})
		t.at(nid).attach(k, child)
	}
}

// selectChild picks the child to descend into: the earliest-inserted
// unvisited child if one exists, else the UCB1 argmax, with ties broken by
// insertion order (lowest child index wins) in both branches.
func (t *Tree) selectChild(nid id) id {
	n := t.at(nid)
	for _, c := range n.children {
		if t.at(c).visits == 0 {
			return c
		}
	}
	var noise []float64
	if t.conf.RootNoise && nid == t.root {
		noise = t.rootNoiseFor(n)
	}

	best := n.children[0]
	bestScore := ucb1(t.at(best), n.visits, t.conf.exploration()) + noiseAt(noise, 0)
	for i, c := range n.children[1:] {
		score := ucb1(t.at(c), n.visits, t.conf.exploration()) + noiseAt(noise, i+1)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	return best
}

func noiseAt(noise []float64, i int) float32 {
	if i >= len(noise) {
		return 0
	}
	return float32(noise[i])
}

func (c Config) exploration() float32 {
	return UCBExploration
}

// BestRootAction returns the root child with the greatest cumulative
// outcome, ties broken by insertion order (C5's best_root_action).
func (t *Tree) BestRootAction() battle.Action {
	root := t.at(t.root)
	best := root.children[0]
	for _, c := range root.children[1:] {
		if t.at(c).cumulativeOutcome > t.at(best).cumulativeOutcome {
			best = c
		}
	}
	return t.at(best).action
}

// RootChildSummary is one entry of root_distribution's output.
type RootChildSummary struct {
	Action            battle.Action
	CumulativeOutcome float64
	Probability       float64
	Visits            int
	Description       string
}

// RootDistribution implements C5's root_distribution(): a probability per
// root child derived from cumulative_outcome, sorted ascending by
// probability.
func (t *Tree) RootDistribution() []RootChildSummary {
	root := t.at(t.root)
	n := len(root.children)
	if n == 0 {
		return nil
	}
	outcomes := make([]float64, n)
	var maxAbs, sum float64
	for i, c := range root.children {
		o := t.at(c).cumulativeOutcome
		outcomes[i] = o
		sum += o
		if a := absFloat64(o); a > maxAbs {
			maxAbs = a
		}
	}
	denom := sum + maxAbs*float64(n)

	out := make([]RootChildSummary, n)
	for i, c := range root.children {
		cn := t.at(c)
		var prob float64
		if denom == 0 {
			prob = 1.0 / float64(n)
		} else {
			prob = (maxAbs + outcomes[i]) / denom
		}
		out[i] = RootChildSummary{
			Action:            cn.action,
			CumulativeOutcome: cn.cumulativeOutcome,
			Probability:       prob,
			Visits:            cn.visits,
			Description:       cn.description,
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Probability > out[j].Probability; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func absFloat64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Validate checks the tree integrity invariants from §8 property 1: every
// non-root node is reachable from exactly one parent, depths increase by
// exactly one per edge, and no node has two children sharing a key.
func (t *Tree) Validate() error {
	return validateTree(t)
}
