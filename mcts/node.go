package mcts

import "github.com/alphabeth/porygon/battle"

// id indexes into Tree.nodes. Real ids start at 0 (the root is always
// allocated first and gets id 0), so nilID (-1) is distinct from any real id.
type id int32

const nilID id = -1

// childKey uniquely identifies a child within its parent: the mover's active
// creature at expansion time, the action's kind, and a kind-specific key
// (move index for an attack, target's stable id for a switch). Generalized
// from the teacher's bare move-index child map (mcts/tree.go's
// children [][]naughty) to this triple per the harness's richer action set.
type childKey struct {
	creatureID int32
	kind       battle.ActionKind
	key        int32
}

func keyFor(moverActive *battle.Creature, moverSide *battle.Side, a battle.Action) childKey {
	k := childKey{creatureID: moverActive.ID, kind: a.Kind}
	if a.Kind == battle.AttackKind {
		k.key = int32(a.MoveIndex)
	} else {
		k.key = moverSide.Party[a.PartyIndex].ID
	}
	return k
}

// node is one arena slot. playerToMove names the side whose legal actions
// define this node's children (root's is the planner's side); action is the
// single action that led into this node from its parent (the root's is the
// zero-value sentinel). depth starts at 1 for the root.
//
// Action ownership alternates by depth, starting with the root: a node's own
// action was chosen by whichever side was playerToMove one level up, so
// depth 2 holds the planner's proposed action (root.playerToMove is the
// planner), depth 3 the opponent's response to it, depth 4 the planner's
// next turn, and so on. best_root_action() therefore always ranges over the
// planner's own candidate actions, and the adversarial backprop sign (see
// backprop in rollout.go) flips at odd depths greater than 1, where the
// node's own action belongs to the opponent.
type node struct {
	playerToMove int32
	action       battle.Action
	depth        int

	cumulativeOutcome float64
	visits            int

	children   []id
	childIndex map[childKey]id

	description string
}

// isPlannerOwned reports whether this node's own action was chosen by the
// planner (true at even depths; the root, which owns no action, is never
// asked). See the ownership note on node above.
func (n *node) isPlannerOwned() bool { return n.depth%2 == 0 }

func (n *node) findChild(k childKey) (id, bool) {
	if n.childIndex == nil {
		return nilID, false
	}
	c, ok := n.childIndex[k]
	return c, ok
}

func (n *node) attach(k childKey, c id) {
	if n.childIndex == nil {
		n.childIndex = make(map[childKey]id)
	}
	n.childIndex[k] = c
	n.children = append(n.children, c)
}
