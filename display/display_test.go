package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tictactoe/game"
)

func TestBoard(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false)
	b, err := game.ParseBoard("X... .O.. .... ...X")
	require.NoError(t, err)

	got := r.Board(b, 5)
	want := strings.Join([]string{
		"X | . | . | .",
		"-------------",
		". | O | . | .",
		"-------------",
		". | . | . | .",
		"-------------",
		". | . | . | X",
		"",
	}, "\n")
	require.Equal(t, want, got, "Plain profile should render without escape codes")
}

func TestObserve(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false)
	var b game.Board
	require.NoError(t, b.Play(6, game.X))
	r.Observe(1, game.X, 6, b)
	r.Result(game.WinX)

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "move 1: X plays (1, 2)\n"))
	require.True(t, strings.HasSuffix(out, "X wins\n"))
}
