package searcher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"tictactoe/fixed"
	"tictactoe/game"
)

// chain builds a path of depth nodes below the root and returns their ids,
// root first.
func chain(t *tree, depth int) []nodeID {
	ids := []nodeID{rootID}
	for d := 1; d <= depth; d++ {
		parent := ids[d-1]
		id := nodeID(len(t.nodes))
		t.nodes = append(t.nodes, node{
			parent: parent,
			move:   game.Move(d - 1),
			mover:  t.nodes[parent].mover.Opponent(),
		})
		t.nodes[parent].children[0] = id
		t.nodes[parent].nChildren = 1
		t.nodes[parent].expanded = true
		ids = append(ids, id)
	}
	return ids
}

func TestBackup(t *testing.T) {
	t.Run("outcome alternates one ply at a time", func(t *testing.T) {
		for _, v := range []fixed.Q{fixed.Zero, 64, fixed.Half, 200, fixed.One} {
			tr := newTree(game.O, 100)
			const depth = 7
			ids := chain(tr, depth)
			tr.backup(ids[depth], v)

			for k := 0; k <= depth; k++ {
				n := tr.nodes[ids[depth-k]]
				want := v
				if k%2 == 1 {
					want = fixed.One - v
				}
				require.Equal(t, int32(1), n.visits, "Every ancestor should gain one visit")
				require.Equal(t, want, n.score, "Value at distance %d from the leaf", k)
			}
		}
	})

	t.Run("scores accumulate", func(t *testing.T) {
		tr := newTree(game.O, 10)
		ids := chain(tr, 1)
		tr.backup(ids[1], fixed.One)
		tr.backup(ids[1], fixed.Half)
		require.Equal(t, int32(2), tr.nodes[ids[1]].visits)
		require.Equal(t, fixed.One+fixed.Half, tr.nodes[ids[1]].score)
		require.Equal(t, fixed.Half, tr.nodes[rootID].score)
		require.Equal(t, fixed.Q(192), tr.average(ids[1]))
	})
}

func TestExpand(t *testing.T) {
	t.Run("one child per legal move with the other player moving", func(t *testing.T) {
		b, err := game.ParseBoard("X... .O.. .... ....")
		require.NoError(t, err)
		tr := newTree(game.O, 100)
		buf := make([]game.Move, 0, game.NumCells)

		require.NoError(t, tr.expand(rootID, &b, buf))

		root := tr.nodes[rootID]
		require.True(t, root.expanded)
		require.Equal(t, uint8(14), root.nChildren)
		require.Equal(t, 15, tr.len())
		for i := 0; i < int(root.nChildren); i++ {
			child := tr.nodes[root.children[i]]
			require.Equal(t, rootID, child.parent)
			require.Equal(t, game.X, child.mover, "Children alternate the mover")
			require.True(t, b.IsLegal(child.move))
			require.Zero(t, child.visits)
		}
		require.Equal(t, game.Move(1), tr.nodes[root.children[0]].move, "Slots follow cell order")
	})

	t.Run("fails without partial children when the arena is full", func(t *testing.T) {
		var b game.Board
		tr := newTree(game.O, 10)
		err := tr.expand(rootID, &b, make([]game.Move, 0, game.NumCells))
		require.True(t, errors.Is(err, ErrArenaExhausted))
		require.Equal(t, 1, tr.len())
		require.False(t, tr.nodes[rootID].expanded)
	})
}

func TestSelectChild(t *testing.T) {
	setup := func(stats ...[2]int) *tree {
		tr := newTree(game.O, 100)
		for i, s := range stats {
			id := nodeID(len(tr.nodes))
			tr.nodes = append(tr.nodes, node{
				parent: rootID,
				move:   game.Move(i),
				mover:  game.X,
				visits: int32(s[0]),
				score:  fixed.FromInt(s[1]),
			})
			tr.nodes[rootID].children[i] = id
			tr.nodes[rootID].visits += int32(s[0])
		}
		tr.nodes[rootID].nChildren = uint8(len(stats))
		tr.nodes[rootID].expanded = true
		return tr
	}

	t.Run("ties keep the first slot", func(t *testing.T) {
		tr := setup([2]int{4, 2}, [2]int{4, 2}, [2]int{4, 2})
		require.Equal(t, nodeID(1), tr.selectChild(rootID))
	})

	t.Run("unvisited child is picked before better children", func(t *testing.T) {
		tr := setup([2]int{4, 4}, [2]int{4, 3}, [2]int{0, 0})
		require.Equal(t, nodeID(3), tr.selectChild(rootID))
	})

	t.Run("first of several unvisited children", func(t *testing.T) {
		tr := setup([2]int{0, 0}, [2]int{0, 0})
		require.Equal(t, nodeID(1), tr.selectChild(rootID))
	})

	t.Run("strictly greatest score", func(t *testing.T) {
		tr := setup([2]int{4, 1}, [2]int{4, 4}, [2]int{4, 2})
		require.Equal(t, nodeID(2), tr.selectChild(rootID))
	})

	t.Run("panics without children", func(t *testing.T) {
		tr := newTree(game.O, 1)
		require.Panics(t, func() { tr.selectChild(rootID) })
	})
}

func TestMostVisited(t *testing.T) {
	tr := newTree(game.O, 100)
	_, ok := tr.mostVisited(rootID)
	require.False(t, ok, "Unexpanded root has no best child")

	var b game.Board
	require.NoError(t, tr.expand(rootID, &b, make([]game.Move, 0, game.NumCells)))
	tr.nodes[tr.nodes[rootID].children[3]].visits = 5
	tr.nodes[tr.nodes[rootID].children[7]].visits = 5
	tr.nodes[tr.nodes[rootID].children[9]].visits = 4

	best, ok := tr.mostVisited(rootID)
	require.True(t, ok)
	require.Equal(t, game.Move(3), tr.nodes[best].move, "Ties go to the lowest slot")
}
