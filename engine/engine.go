package engine

import (
	"context"

	"tictactoe/experiments/metrics"
	"tictactoe/game"
)

// MaxMoves bounds a game; a board has no more cells than this.
const MaxMoves = game.NumCells

type Engine interface {
	// Run plays a game till it is decided or the board is full.
	Run(ctx context.Context) (game.Result, metrics.GameMetric, []metrics.MoveMetric, error)
}
