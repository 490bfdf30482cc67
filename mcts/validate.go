package mcts

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// validateTree checks §8 property 1 (tree integrity): every non-root node
// is reachable from exactly one parent by walking children, depth increases
// by exactly one per edge, and no node holds two children under the same
// key (detected by comparing childIndex's size against children's, since a
// real collision in node.attach overwrites the map entry for an old key
// while still appending the new id to the children slice, so the two
// lengths diverge). Grounded in battle/errors.go's multierror aggregation
// style.
func validateTree(t *Tree) error {
	var result *multierror.Error
	parentOf := make(map[id]id, len(t.nodes))
	reached := make(map[id]bool, len(t.nodes))
	reached[t.root] = true

	var walk func(nid id)
	walk = func(nid id) {
		n := t.at(nid)
		if len(n.childIndex) != len(n.children) {
			result = multierror.Append(result, fmt.Errorf("node %d: %d children but %d distinct keys, a later child overwrote an earlier one's key", nid, len(n.children), len(n.childIndex)))
		}
		for _, c := range n.children {
			if prev, ok := parentOf[c]; ok && prev != nid {
				result = multierror.Append(result, fmt.Errorf("node %d: child %d already claimed by node %d", nid, c, prev))
			}
			parentOf[c] = nid
			if reached[c] {
				result = multierror.Append(result, fmt.Errorf("node %d reached via multiple parents", c))
			}
			reached[c] = true
			if t.at(c).depth != n.depth+1 {
				result = multierror.Append(result, fmt.Errorf("node %d: depth %d is not parent depth %d + 1", c, t.at(c).depth, n.depth))
			}
			if t.at(c).visits > n.visits {
				result = multierror.Append(result, fmt.Errorf("node %d: visits %d exceed parent visits %d", c, t.at(c).visits, n.visits))
			}
			walk(c)
		}
	}
	walk(t.root)

	for i := range t.nodes {
		nid := id(i)
		if nid != t.root && !reached[nid] {
			result = multierror.Append(result, fmt.Errorf("node %d is unreachable from root", nid))
		}
	}
	return result.ErrorOrNil()
}
