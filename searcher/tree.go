package searcher

import (
	"errors"

	"tictactoe/fixed"
	"tictactoe/game"
)

var ErrArenaExhausted = errors.New("search tree arena exhausted")

type nodeID int32

const (
	rootID nodeID = 0
	noNode nodeID = -1

	// rough footprint of one node, used to turn a memory budget into a node
	// count
	nodeSize = 96
)

// node is one position reached by move from its parent. score accumulates
// outcome values from mover's point of view; the average is taken on read.
type node struct {
	parent    nodeID
	move      game.Move
	mover     game.Player
	expanded  bool
	nChildren uint8
	visits    int32
	score     fixed.Q
	children  [game.NumCells]nodeID
}

// tree is an arena holding every node of one search. Nodes refer to each
// other by index, so the whole tree goes away with the slice.
type tree struct {
	nodes []node
	limit int
}

func newTree(rootMover game.Player, limit int) *tree {
	if limit < 1 {
		panic("search tree needs room for at least the root")
	}
	t := &tree{
		nodes: make([]node, 0, min(limit, 1024)),
		limit: limit,
	}
	t.nodes = append(t.nodes, node{parent: noNode, move: -1, mover: rootMover})
	return t
}

func (t *tree) len() int {
	return len(t.nodes)
}

// expand adds one child per legal move of b, all moved by the opponent of
// id's mover. Either every child is added or none.
func (t *tree) expand(id nodeID, b *game.Board, buf []game.Move) error {
	moves := game.LegalMoves(b, buf[:0])
	if len(t.nodes)+len(moves) > t.limit {
		return ErrArenaExhausted
	}
	mover := t.nodes[id].mover.Opponent()
	for i, m := range moves {
		child := nodeID(len(t.nodes))
		t.nodes = append(t.nodes, node{parent: id, move: m, mover: mover})
		// t.nodes may have moved; index again rather than keep a pointer.
		t.nodes[id].children[i] = child
	}
	t.nodes[id].nChildren = uint8(len(moves))
	t.nodes[id].expanded = true
	return nil
}

// selectChild returns the child of id with the strictly greatest UCT score,
// the lowest slot winning ties. id must have children.
func (t *tree) selectChild(id nodeID) nodeID {
	n := &t.nodes[id]
	if n.nChildren == 0 {
		panic("cannot select from a node without children")
	}
	parentVisits := int(n.visits)
	best := n.children[0]
	c := &t.nodes[best]
	bestScore := uctScore(parentVisits, int(c.visits), c.score)
	for _, child := range n.children[1:n.nChildren] {
		c := &t.nodes[child]
		if s := uctScore(parentVisits, int(c.visits), c.score); s > bestScore {
			best, bestScore = child, s
		}
	}
	return best
}

// backup adds v to id and flips it for every ancestor up to the root.
func (t *tree) backup(id nodeID, v fixed.Q) {
	for id != noNode {
		n := &t.nodes[id]
		n.visits++
		n.score += v
		v = fixed.One - v
		id = n.parent
	}
}

// mostVisited returns the child of id with the most visits, lowest slot on
// ties, and false when id was never expanded.
func (t *tree) mostVisited(id nodeID) (nodeID, bool) {
	n := &t.nodes[id]
	if n.nChildren == 0 {
		return noNode, false
	}
	best := n.children[0]
	for _, child := range n.children[1:n.nChildren] {
		if t.nodes[child].visits > t.nodes[best].visits {
			best = child
		}
	}
	return best, true
}

func (t *tree) average(id nodeID) fixed.Q {
	n := &t.nodes[id]
	if n.visits == 0 {
		return fixed.Zero
	}
	return fixed.Div(n.score, fixed.FromInt(int(n.visits)))
}

func (t *tree) policy(id nodeID) map[game.Move]int {
	n := &t.nodes[id]
	out := make(map[game.Move]int, n.nChildren)
	for _, child := range n.children[:n.nChildren] {
		out[t.nodes[child].move] = int(t.nodes[child].visits)
	}
	return out
}
