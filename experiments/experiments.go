package experiments

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"tictactoe/agent"
	"tictactoe/engine"
	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/searcher"
	"tictactoe/zobrist"
)

const (
	NumGames    = 30 // Per match up
	TimeBudget  = 10 * time.Millisecond
	Temperature = 1.0
)

type Config struct {
	Games          int
	Concurrency    int
	Seed           uint64
	MemoryFraction float64
	OutDir         string // no files are written when empty
}

// MatchUp pairs two agents. They alternate playing X.
type MatchUp struct {
	Agent1 metrics.AgentConfig
	Agent2 metrics.AgentConfig
}

type Result struct {
	Games     []metrics.GameRecord
	Moves     []metrics.MoveRecord
	Summaries []metrics.Summary
}

// Experiment builds the agents and match-ups of a named experiment.
type Experiment func() ([]metrics.AgentConfig, []MatchUp)

var Experiments = map[string]Experiment{
	"baseline":   BaselineExperiment,
	"iterations": IterationsExperiment,
	"cache":      CacheExperiment,
	"duration":   DurationExperiment,
	"sampling":   SamplingExperiment,
}

func Names() []string {
	names := lo.Keys(Experiments)
	sort.Strings(names)
	return names
}

// BaselineExperiment pits the search against uniformly random play.
func BaselineExperiment() ([]metrics.AgentConfig, []MatchUp) {
	random := metrics.AgentConfig{ID: 0, Kind: "random"}
	mcts := metrics.AgentConfig{ID: 1, Kind: "mcts", Iterations: searcher.DefaultIterations / 10}
	return []metrics.AgentConfig{random, mcts}, []MatchUp{{mcts, random}}
}

// IterationsExperiment measures strength against the iteration budget.
func IterationsExperiment() ([]metrics.AgentConfig, []MatchUp) {
	baseline := metrics.AgentConfig{ID: 0, Kind: "mcts", Iterations: 1000}
	configs := []metrics.AgentConfig{
		{ID: 1, Kind: "mcts", Iterations: 100},
		{ID: 2, Kind: "mcts", Iterations: 1000},
		{ID: 3, Kind: "mcts", Iterations: 10000},
		{ID: 4, Kind: "mcts", Iterations: 100000},
	}
	matchUps := lo.Map(configs, func(c metrics.AgentConfig, _ int) MatchUp {
		return MatchUp{baseline, c}
	})
	return append(configs, baseline), matchUps
}

// CacheExperiment compares an agent that shares the transposition cache with
// one that always searches.
func CacheExperiment() ([]metrics.AgentConfig, []MatchUp) {
	plain := metrics.AgentConfig{ID: 0, Kind: "mcts", Iterations: 10000}
	cached := metrics.AgentConfig{ID: 1, Kind: "mcts", Iterations: 10000, Cache: true}
	return []metrics.AgentConfig{plain, cached}, []MatchUp{{cached, plain}, {cached, cached}}
}

// DurationExperiment gives both sides the same wall-clock budget instead of
// an iteration count.
func DurationExperiment() ([]metrics.AgentConfig, []MatchUp) {
	timed := metrics.AgentConfig{ID: 0, Kind: "mcts", Iterations: searcher.MaxIterations, Duration: TimeBudget}
	fixed := metrics.AgentConfig{ID: 1, Kind: "mcts", Iterations: searcher.DefaultIterations}
	return []metrics.AgentConfig{timed, fixed}, []MatchUp{{timed, fixed}}
}

// SamplingExperiment checks what sampling from the visit counts costs.
func SamplingExperiment() ([]metrics.AgentConfig, []MatchUp) {
	greedy := metrics.AgentConfig{ID: 0, Kind: "mcts", Iterations: 5000}
	sampling := metrics.AgentConfig{ID: 1, Kind: "sampling", Iterations: 5000, Temperature: Temperature}
	return []metrics.AgentConfig{greedy, sampling}, []MatchUp{{sampling, greedy}}
}

// Run plays every match-up and, when cfg.OutDir is set, stores the records
// as CSV. Games of one match-up run concurrently and share one cache, which
// is cleared before the next match-up.
func Run(ctx context.Context, name string, cfg Config, configs []metrics.AgentConfig, matchUps []MatchUp) (Result, error) {
	if cfg.Games <= 0 {
		cfg.Games = NumGames
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}

	cache := zobrist.NewCache(cfg.Seed)
	defer cache.Close()

	var result Result
	log.Info().Msgf("starting %s experiment...", name)
	for mi, matchUp := range matchUps {
		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...",
			mi+1, len(matchUps), matchUp.Agent1, matchUp.Agent2)
		cache.Clear()

		games, moves, err := runMatchUp(ctx, cfg, mi, len(result.Games), matchUp, cache)
		if err != nil {
			return result, fmt.Errorf("matchup %d: %w", mi+1, err)
		}
		result.Games = append(result.Games, games...)
		result.Moves = append(result.Moves, moves...)
		summary := summarize(mi+1, matchUp, games, moves)
		result.Summaries = append(result.Summaries, summary)

		log.Info().Int("agent1-wins", summary.Agent1Wins).
			Int("agent2-wins", summary.Agent2Wins).
			Int("draws", summary.Draws).
			Float64("mean-moves", summary.MeanMoves).
			Float64("cache-hit-rate", summary.CacheHitRate).
			Msgf("completed matchup %d of %d", mi+1, len(matchUps))
	}
	log.Info().Msgf("completed %s experiment", name)

	if cfg.OutDir == "" {
		return result, nil
	}
	return result, store(cfg.OutDir, name, configs, result)
}

func runMatchUp(ctx context.Context, cfg Config, index, firstID int, matchUp MatchUp, cache *zobrist.Cache) ([]metrics.GameRecord, []metrics.MoveRecord, error) {
	games := make([]metrics.GameRecord, cfg.Games)
	moves := make([][]metrics.MoveRecord, cfg.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i := 0; i < cfg.Games; i++ {
		i := i
		g.Go(func() error {
			id := firstID + i + 1
			x, o := matchUp.Agent1, matchUp.Agent2
			if i%2 == 1 {
				x, o = o, x
			}
			seed := cfg.Seed + uint64(index)*1_000_003 + uint64(i)*2
			e := engine.NewLocal(
				newAgent(x, seed, cache, cfg.MemoryFraction),
				newAgent(o, seed+1, cache, cfg.MemoryFraction),
			)
			result, gameMetric, moveMetrics, err := e.Run(ctx)
			if err != nil {
				return fmt.Errorf("game %d: %w", id, err)
			}
			games[i] = metrics.GameRecord{ID: id, AgentX: x.ID, AgentO: o.ID, GameMetric: gameMetric}
			moves[i] = lo.Map(moveMetrics, func(mm metrics.MoveMetric, _ int) metrics.MoveRecord {
				return metrics.MoveRecord{Game: id, MoveMetric: mm}
			})
			log.Debug().Msgf("completed game %d with result: %v", id, result)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return games, lo.Flatten(moves), nil
}

func newAgent(config metrics.AgentConfig, seed uint64, cache *zobrist.Cache, memoryFraction float64) agent.Agent {
	if config.Kind == "random" {
		return agent.NewRandomAgent(seed)
	}

	options := []searcher.Option{searcher.WithSeed(seed), searcher.WithMetrics()}
	if config.Iterations > 0 {
		options = append(options, searcher.WithIterations(config.Iterations))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.Cache {
		options = append(options, searcher.WithCache(cache))
	}
	if memoryFraction > 0 {
		options = append(options, searcher.WithMemoryFraction(memoryFraction))
	}
	mcts := searcher.NewMCTS(options...)

	switch config.Kind {
	case "mcts":
		return agent.NewMCTSAgent(mcts)
	case "sampling":
		return agent.NewSamplingAgent(mcts, config.Temperature, seed)
	}
	panic(fmt.Sprintf("unknown agent kind %q", config.Kind))
}

// summarize counts results from Agent1's side; Agent1 plays X in even games.
func summarize(index int, matchUp MatchUp, games []metrics.GameRecord, moves []metrics.MoveRecord) metrics.Summary {
	s := metrics.Summary{
		MatchUp: index,
		Agent1:  matchUp.Agent1.ID,
		Agent2:  matchUp.Agent2.ID,
		Games:   len(games),
	}
	for i, g := range games {
		agent1 := game.X.String()
		if i%2 == 1 {
			agent1 = game.O.String()
		}
		switch g.Winner {
		case "":
			s.Draws++
		case agent1:
			s.Agent1Wins++
		default:
			s.Agent2Wins++
		}
	}

	lengths := lo.Map(games, func(g metrics.GameRecord, _ int) float64 { return float64(g.TotalMoves) })
	if len(lengths) > 0 {
		s.MeanMoves, s.StdMoves = stat.MeanStdDev(lengths, nil)
	}

	searched := lo.Filter(moves, func(m metrics.MoveRecord, _ int) bool { return m.Iterations > 0 })
	if len(searched) > 0 {
		episodes := lo.Map(searched, func(m metrics.MoveRecord, _ int) float64 { return float64(m.Episodes) })
		s.MeanEpisodes = stat.Mean(episodes, nil)
		hits := lo.CountBy(searched, func(m metrics.MoveRecord) bool { return m.CacheHit })
		s.CacheHitRate = float64(hits) / float64(len(searched))
	}
	return s
}

func store(root, name string, configs []metrics.AgentConfig, result Result) error {
	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")
	if err := writer.WriteGameRecords(result.Games); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteMoveRecords(result.Moves); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")
	if err := writer.WriteSummaries(result.Summaries); err != nil {
		return fmt.Errorf("failed to write summaries: %w", err)
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored summaries")
	return nil
}
