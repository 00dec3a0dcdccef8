package game

import (
	"fmt"
	"strings"
)

// Board is a snapshot of the grid, indexed row by row. It is a value type so
// copies are cheap and never alias.
type Board [NumCells]Cell

// ParseBoard reads the format produced by Board.String. Whitespace and the
// '/' row separator are ignored.
func ParseBoard(s string) (Board, error) {
	var b Board
	i := 0
	for _, r := range s {
		var c Cell
		switch r {
		case '.', '-', '_':
			c = Empty
		case 'X', 'x':
			c = X
		case 'O', 'o':
			c = O
		case ' ', '\n', '\t', '/':
			continue
		default:
			return Board{}, fmt.Errorf("invalid cell %q at position %d", r, i)
		}
		if i >= NumCells {
			return Board{}, fmt.Errorf("board has more than %d cells", NumCells)
		}
		b[i] = c
		i++
	}
	if i != NumCells {
		return Board{}, fmt.Errorf("board has %d cells, want %d", i, NumCells)
	}
	return b, nil
}

func (b Board) String() string {
	var sb strings.Builder
	sb.Grow(NumCells)
	for _, c := range b {
		sb.WriteString(c.String())
	}
	return sb.String()
}

// Count returns the number of stones of each colour.
func (b *Board) Count() (x, o int) {
	for _, c := range b {
		switch c {
		case X:
			x++
		case O:
			o++
		}
	}
	return x, o
}

// ToMove derives the side to move from the stone counts. X moves first.
func (b *Board) ToMove() Player {
	x, o := b.Count()
	if x > o {
		return O
	}
	return X
}

// Play places p on m, failing with ErrIllegalMove when the cell is taken or
// out of range.
func (b *Board) Play(m Move, p Player) error {
	if !m.Valid() {
		return fmt.Errorf("move %d out of range: %w", m, ErrIllegalMove)
	}
	if b[m] != Empty {
		return fmt.Errorf("cell %d occupied by %v: %w", m, b[m], ErrIllegalMove)
	}
	if p != X && p != O {
		return fmt.Errorf("no such player %d: %w", p, ErrIllegalMove)
	}
	b[m] = p
	return nil
}

func (b *Board) IsLegal(m Move) bool {
	return m.Valid() && b[m] == Empty
}
