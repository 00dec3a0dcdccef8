package zobrist

import (
	"testing"

	"github.com/matryer/is"

	"tictactoe/game"
)

func TestIncrementalHashMatchesFull(t *testing.T) {
	is := is.New(t)
	k := NewKeys(11)

	var b game.Board
	h := k.Hash(&b)
	is.Equal(h, uint64(0)) // empty board hashes to zero

	moves := []game.Move{5, 0, 10, 15, 3, 12}
	p := game.X
	for _, m := range moves {
		is.NoErr(b.Play(m, p))
		h = k.Toggle(h, m, p)
		is.Equal(h, k.Hash(&b))
		p = p.Opponent()
	}

	// undo in reverse order
	for i := len(moves) - 1; i >= 0; i-- {
		p = p.Opponent()
		h = k.Toggle(h, moves[i], p)
	}
	is.Equal(h, uint64(0))
}

func TestKeysAreSeeded(t *testing.T) {
	is := is.New(t)
	a, b, c := NewKeys(3), NewKeys(3), NewKeys(4)
	is.Equal(a.cells, b.cells)
	is.True(a.cells != c.cells)
	is.Equal(a.Seed(), uint64(3))
	for i := range a.cells {
		for j := range a.cells[i] {
			is.True(a.cells[i][j] != 0) // keys are never zero
		}
	}
}

func TestSideToMoveChangesKey(t *testing.T) {
	is := is.New(t)
	k := NewKeys(5)
	var b game.Board
	is.NoErr(b.Play(6, game.X))
	is.True(k.Key(&b, game.X) != k.Key(&b, game.O))
	is.Equal(k.Key(&b, game.X), k.Hash(&b))
}
