package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"tictactoe/agent"
	"tictactoe/experiments/metrics"
	"tictactoe/game"
)

var ErrNoMove = errors.New("agent found no move")

var _ Engine = (*Local)(nil)

// Observer is called after every move with the board it produced.
type Observer func(step int, player game.Player, move game.Move, board game.Board)

// Local plays two in-process agents against each other. The board is only
// touched under mu; agents search on a snapshot.
type Local struct {
	mu       sync.Mutex
	board    game.Board
	agents   map[game.Player]agent.Agent
	observer Observer
}

type LocalOption func(*Local)

func WithObserver(observer Observer) LocalOption {
	return func(e *Local) {
		e.observer = observer
	}
}

// WithBoard starts the game from board instead of an empty grid.
func WithBoard(board game.Board) LocalOption {
	return func(e *Local) {
		e.board = board
	}
}

// NewLocal pits x, who moves first, against o.
func NewLocal(x, o agent.Agent, options ...LocalOption) *Local {
	if x == nil || o == nil {
		panic("need an agent for each player")
	}
	e := &Local{
		agents: map[game.Player]agent.Agent{game.X: x, game.O: o},
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Board returns a snapshot of the current position.
func (e *Local) Board() game.Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board
}

func (e *Local) Run(ctx context.Context) (game.Result, metrics.GameMetric, []metrics.MoveMetric, error) {
	start := time.Now()
	snapshot := e.Board()
	gameMetric := metrics.GameMetric{
		StartingPlayer: snapshot.ToMove().String(),
		StartTime:      start,
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("player %v is starting", snapshot.ToMove())

	result := game.Terminal(&snapshot)
	for step := 1; result == game.None && step <= MaxMoves; step++ {
		player := snapshot.ToMove()
		d, err := e.agents[player].FindMove(ctx, snapshot, player)
		if err != nil {
			return result, gameMetric, moveMetrics, fmt.Errorf("move %d by %v: %w", step, player, err)
		}
		if !d.Found {
			return result, gameMetric, moveMetrics, fmt.Errorf("move %d by %v on %v: %w", step, player, snapshot, ErrNoMove)
		}

		e.mu.Lock()
		err = e.board.Play(d.Move, player)
		snapshot = e.board
		e.mu.Unlock()
		if err != nil {
			return result, gameMetric, moveMetrics, fmt.Errorf("move %d by %v: %w", step, player, err)
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player.String(),
			Move:         int(d.Move),
			SearchMetric: d.Metric,
		})
		log.Debug().Int("step", step).Str("player", player.String()).
			Int("move", int(d.Move)).Bool("cached", d.Cached).Msg("move played")
		if e.observer != nil {
			e.observer(step, player, d.Move, snapshot)
		}
		result = game.Terminal(&snapshot)
	}

	end := time.Now()
	gameMetric.EndTime = end
	gameMetric.Duration = end.Sub(start)
	gameMetric.TotalMoves = len(moveMetrics)
	gameMetric.Result = result.String()
	if w := result.Winner(); w != game.Empty {
		gameMetric.Winner = w.String()
	}
	log.Info().Msgf("game over after %d moves: %v", len(moveMetrics), result)
	return result, gameMetric, moveMetrics, nil
}
