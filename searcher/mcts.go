package searcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"tictactoe/experiments/metrics"
	"tictactoe/fixed"
	"tictactoe/game"
	"tictactoe/random"
	"tictactoe/zobrist"
)

const (
	DefaultIterations = 100_000

	// MaxIterations keeps visit counts and accumulated scores inside the
	// fixed-point range.
	MaxIterations = 1 << 22

	DefaultMemoryFraction = 0.25

	// iterations run before cancellation is looked at, enough for the root
	// to be expanded and one child visited
	warmup = 2
)

type Option func(m *MCTS)

// Decision is the outcome of one search. Found is false when the position
// has no legal move or the root was never expanded.
type Decision struct {
	Move     game.Move
	Found    bool
	Score    fixed.Q // average outcome of Move for the player to move
	Visits   int
	Cached   bool
	// Policy holds the visit count of every root child. Empty for cached
	// and unsearched decisions.
	Policy   map[game.Move]int
	// StoreErr is set when the result could not be cached, for example
	// zobrist.ErrTableFull. The decision itself is still valid.
	StoreErr error
	Metric   metrics.SearchMetric
}

type MCTS struct {
	mu             sync.Mutex
	iterations     int
	duration       time.Duration
	seed           uint64
	rng            *rand.Rand
	cache          *zobrist.Cache
	metrics        metrics.Collector
	maxNodes       int
	memoryFraction float64
}

// WithIterations sets the iteration budget. Zero runs no iterations, so the
// search never finds a move.
func WithIterations(iterations int) Option {
	if iterations < 0 || iterations > MaxIterations {
		panic(fmt.Sprintf("iterations must be in [0, %d], got %d", MaxIterations, iterations))
	}
	return func(m *MCTS) {
		m.iterations = iterations
	}
}

// WithDuration stops a search after duration even if iterations remain.
func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
		m.rng = random.NewRolloutSource(seed)
	}
}

// WithCache shares results with every other search using the same cache.
func WithCache(cache *zobrist.Cache) Option {
	return func(m *MCTS) {
		m.cache = cache
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

// WithMaxNodes fixes the arena size, overriding the memory budget.
func WithMaxNodes(n int) Option {
	return func(m *MCTS) {
		if n > 0 {
			m.maxNodes = n
		}
	}
}

func WithMemoryFraction(f float64) Option {
	if f <= 0 || f > 1 {
		panic("memory fraction must be in (0, 1]")
	}
	return func(m *MCTS) {
		m.memoryFraction = f
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		iterations:     DefaultIterations,
		metrics:        metrics.NewDummyCollector(),
		memoryFraction: DefaultMemoryFraction,
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.seed = random.Seed()
		m.rng = random.NewRolloutSource(m.seed)
	}
	return m
}

func (m *MCTS) Seed() uint64 {
	return m.seed
}

func (m *MCTS) Cache() *zobrist.Cache {
	return m.cache
}

// nodeLimit is the arena size for one search: room for every iteration to
// expand a full node, unless memory says otherwise.
func (m *MCTS) nodeLimit() int {
	if m.maxNodes > 0 {
		return m.maxNodes
	}
	limit := 1 + game.NumCells*m.iterations
	byMemory := int(m.memoryFraction * float64(memory.TotalMemory()) / nodeSize)
	if byMemory > 0 && byMemory < limit {
		limit = byMemory
	}
	return limit
}

// DecideMove searches board with player to move and returns the move of the
// most visited root child. The tree is discarded afterwards; only the cache,
// if any, remembers the result. Calls on one MCTS are serialized.
//
// A context that is already done is an error. One that ends during the search
// stops it early and the best move found so far is returned.
func (m *MCTS) DecideMove(ctx context.Context, board game.Board, player game.Player) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}
	if player != game.X && player != game.O {
		return Decision{}, fmt.Errorf("player %v: %w", player, game.ErrIllegalMove)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.metrics.Start(m.iterations, m.duration)

	buf := make([]game.Move, 0, game.NumCells)
	if len(game.LegalMoves(&board, buf)) == 0 {
		m.metrics.SetStopReason(metrics.StopNoMoves)
		return Decision{Metric: m.metrics.Complete()}, nil
	}

	var key uint64
	if m.cache != nil {
		key = m.cache.Key(&board, player)
		if e, ok := m.cache.Lookup(key); ok && board.IsLegal(e.Move) {
			m.metrics.SetCacheHit(true)
			m.metrics.SetStopReason(metrics.StopCached)
			log.Debug().Str("board", board.String()).Int("move", int(e.Move)).Msg("transposition hit")
			return Decision{
				Move:   e.Move,
				Found:  true,
				Score:  e.Score,
				Cached: true,
				Metric: m.metrics.Complete(),
			}, nil
		}
	}

	if m.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.duration)
		defer cancel()
	}

	t := newTree(player.Opponent(), m.nodeLimit())
	reason := metrics.StopIterations
	for i := 0; i < m.iterations; i++ {
		if i >= warmup {
			if err := ctx.Err(); err != nil {
				reason = metrics.StopCancelled
				if errors.Is(err, context.DeadlineExceeded) {
					reason = metrics.StopDuration
				}
				break
			}
		}
		if err := m.iterate(t, &board, buf); err != nil {
			m.metrics.SetNodes(t.len())
			m.metrics.SetStopReason(metrics.StopArena)
			log.Warn().Err(err).Int("nodes", t.len()).Int("iteration", i).Msg("search aborted")
			return Decision{Metric: m.metrics.Complete()}, fmt.Errorf("search after %d iterations: %w", i, err)
		}
		m.metrics.AddEpisode()
	}
	m.metrics.SetNodes(t.len())
	m.metrics.SetStopReason(reason)

	best, ok := t.mostVisited(rootID)
	if !ok {
		return Decision{Metric: m.metrics.Complete()}, nil
	}
	d := Decision{
		Move:   t.nodes[best].move,
		Found:  true,
		Score:  t.average(best),
		Visits: int(t.nodes[best].visits),
		Policy: t.policy(rootID),
	}
	if m.cache != nil {
		if err := m.cache.Store(key, d.Score, d.Move); err != nil {
			d.StoreErr = err
			m.metrics.SetCacheStoreFailed(true)
			log.Warn().Err(err).Msg("failed to cache search result")
		}
	}
	d.Metric = m.metrics.Complete()

	log.Debug().Str("board", board.String()).
		Str("player", player.String()).
		Int("move", int(d.Move)).
		Str("score", d.Score.String()).
		Int("visits", d.Visits).
		Int("nodes", t.len()).
		Str("stop", reason).
		Msg("search complete")
	return d, nil
}

// iterate runs one selection, expansion, simulation and backpropagation pass
// on a private copy of root.
func (m *MCTS) iterate(t *tree, root *game.Board, buf []game.Move) error {
	b := *root
	id := rootID
	for {
		n := &t.nodes[id]
		if r := game.Terminal(&b); r != game.None {
			m.metrics.AddTerminal()
			t.backup(id, game.OutcomeValue(r, n.mover))
			return nil
		}
		if n.visits == 0 {
			t.backup(id, m.rollout(&b, n.mover, buf))
			return nil
		}
		if !n.expanded {
			if err := t.expand(id, &b, buf); err != nil {
				return err
			}
			m.metrics.AddExpansion()
		}
		id = t.selectChild(id)
		b[t.nodes[id].move] = t.nodes[id].mover
	}
}

// rollout plays uniformly random moves on b, starting with the opponent of
// mover, and scores the result from mover's point of view.
func (m *MCTS) rollout(b *game.Board, mover game.Player, buf []game.Move) fixed.Q {
	toMove := mover.Opponent()
	for {
		if r := game.Terminal(b); r != game.None {
			m.metrics.AddFullPlayout()
			return game.OutcomeValue(r, mover)
		}
		moves := game.EmptyCells(b, buf[:0])
		if len(moves) == 0 {
			return fixed.Half
		}
		b[moves[m.rng.Intn(len(moves))]] = toMove
		toMove = toMove.Opponent()
	}
}
