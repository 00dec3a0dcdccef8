package agent

import (
	"context"
	"sync"

	"golang.org/x/exp/rand"

	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/random"
	"tictactoe/searcher"
)

type randomAgent struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomAgent plays a uniformly random legal move. It is the baseline the
// search is measured against.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: random.NewRolloutSource(seed)}
}

func (a *randomAgent) FindMove(ctx context.Context, board game.Board, player game.Player) (searcher.Decision, error) {
	if err := ctx.Err(); err != nil {
		return searcher.Decision{}, err
	}
	moves := game.LegalMoves(&board, nil)
	if len(moves) == 0 {
		return searcher.Decision{Metric: metrics.SearchMetric{StopReason: metrics.StopNoMoves}}, nil
	}
	a.mu.Lock()
	move := moves[a.rng.Intn(len(moves))]
	a.mu.Unlock()
	return searcher.Decision{Move: move, Found: true}, nil
}
