// Package display draws boards on a terminal.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"tictactoe/game"
)

type Renderer struct {
	w   io.Writer
	out *termenv.Output
}

// New renders to w. Without color every style is dropped, which keeps the
// output stable for logs and tests.
func New(w io.Writer, color bool) *Renderer {
	var opts []termenv.OutputOption
	if !color {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}
	return &Renderer{w: w, out: termenv.NewOutput(w, opts...)}
}

func (r *Renderer) cell(c game.Cell, highlight bool) string {
	style := r.out.String(c.String())
	switch c {
	case game.X:
		style = style.Foreground(r.out.Color("1"))
	case game.O:
		style = style.Foreground(r.out.Color("4"))
	default:
		style = style.Faint()
	}
	if highlight {
		style = style.Bold().Underline()
	}
	return style.String()
}

// Board draws b as a grid, emphasising last. Pass a move that is not Valid
// to emphasise nothing.
func (r *Renderer) Board(b game.Board, last game.Move) string {
	var sb strings.Builder
	for row := 0; row < game.BoardSize; row++ {
		for col := 0; col < game.BoardSize; col++ {
			m := game.Move(row*game.BoardSize + col)
			if col > 0 {
				sb.WriteString(" | ")
			}
			sb.WriteString(r.cell(b[m], m == last))
		}
		sb.WriteByte('\n')
		if row < game.BoardSize-1 {
			sb.WriteString(strings.Repeat("-", 4*game.BoardSize-3))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Observe has the shape of an engine observer and prints every move.
func (r *Renderer) Observe(step int, player game.Player, move game.Move, board game.Board) {
	fmt.Fprintf(r.w, "move %d: %v plays (%d, %d)\n%s\n", step, player, move.Row(), move.Col(), r.Board(board, move))
}

func (r *Renderer) Result(result game.Result) {
	fmt.Fprintln(r.w, r.out.String(result.String()).Bold().String())
}
