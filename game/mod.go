package game

import (
	"errors"

	"tictactoe/fixed"
)

const (
	BoardSize = 4
	NumCells  = BoardSize * BoardSize
	// Goal is the number of aligned stones that wins.
	Goal = 3
)

var ErrIllegalMove = errors.New("illegal move")

type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// Player is the side to move. Its values coincide with the Cell the player
// places.
type Player = Cell

func (c Cell) Opponent() Cell {
	switch c {
	case X:
		return O
	case O:
		return X
	}
	return Empty
}

func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	}
	return "."
}

// Move is a cell index.
type Move int

func (m Move) Valid() bool {
	return m >= 0 && m < NumCells
}

func (m Move) Row() int { return int(m) / BoardSize }
func (m Move) Col() int { return int(m) % BoardSize }

type Result uint8

const (
	None Result = iota
	WinX
	WinO
	Draw
)

func (r Result) String() string {
	switch r {
	case WinX:
		return "X wins"
	case WinO:
		return "O wins"
	case Draw:
		return "draw"
	}
	return "in progress"
}

// Winner returns the winning player, or Empty for a draw or an unfinished game.
func (r Result) Winner() Player {
	switch r {
	case WinX:
		return X
	case WinO:
		return O
	}
	return Empty
}

// OutcomeValue scores a finished game from perspective's point of view: a win
// is worth one, a loss zero and a draw one half.
func OutcomeValue(r Result, perspective Player) fixed.Q {
	switch r {
	case Draw:
		return fixed.Half
	case WinX, WinO:
		if r.Winner() == perspective {
			return fixed.One
		}
		return fixed.Zero
	}
	return fixed.Half
}
