package config

import (
	"fmt"
	"time"

	"github.com/namsral/flag"
	"github.com/rs/zerolog"

	"tictactoe/searcher"
)

const (
	ModePlay       = "play"
	ModeExperiment = "experiment"
	ModeServe      = "serve"
)

type Config struct {
	Mode           string
	Iterations     int
	Duration       time.Duration
	Seed           uint64
	Cache          bool
	MemoryFraction float64

	Opponent  string
	RemoteURL string
	Color     bool

	Experiment  string
	Games       int
	Concurrency int
	OutDir      string

	Addr string

	LogLevel string
}

// Load reads flags from args. Every flag can also be set through a
// TICTACTOE_ prefixed environment variable or a file named by -config.
func (c *Config) Load(args []string) error {
	fs := flag.NewFlagSetWithEnvPrefix("tictactoe", "TICTACTOE", flag.ContinueOnError)
	fs.String(flag.DefaultConfigFlagname, "", "path to a config file")
	fs.StringVar(&c.Mode, "mode", ModePlay, "what to run: play, experiment or serve")
	fs.IntVar(&c.Iterations, "iterations", searcher.DefaultIterations, "search iterations per move")
	fs.DurationVar(&c.Duration, "duration", 0, "optional wall-clock limit per move")
	fs.Uint64Var(&c.Seed, "seed", 0, "random seed, 0 picks one from the clock")
	fs.BoolVar(&c.Cache, "cache", true, "share a transposition cache between searches")
	fs.Float64Var(&c.MemoryFraction, "memory-fraction", searcher.DefaultMemoryFraction, "fraction of system memory a search tree may use")
	fs.StringVar(&c.Opponent, "opponent", "random", "opponent in play mode: random, mcts or remote")
	fs.StringVar(&c.RemoteURL, "remote-url", "http://localhost:8080", "move server used by the remote opponent")
	fs.BoolVar(&c.Color, "color", true, "colour the board in play mode")
	fs.StringVar(&c.Experiment, "experiment", "baseline", "experiment to run")
	fs.IntVar(&c.Games, "games", 30, "games per match-up")
	fs.IntVar(&c.Concurrency, "concurrency", 4, "games played at once")
	fs.StringVar(&c.OutDir, "out-dir", "experiments/results", "directory for experiment CSV files")
	fs.StringVar(&c.Addr, "addr", ":8080", "listen address in serve mode")
	fs.StringVar(&c.LogLevel, "log-level", "info", "zerolog level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	switch c.Mode {
	case ModePlay, ModeExperiment, ModeServe:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	switch c.Opponent {
	case "random", "mcts", "remote":
	default:
		return fmt.Errorf("unknown opponent %q", c.Opponent)
	}
	if c.Iterations <= 0 || c.Iterations > searcher.MaxIterations {
		return fmt.Errorf("iterations must be in [1, %d], got %d", searcher.MaxIterations, c.Iterations)
	}
	if c.MemoryFraction <= 0 || c.MemoryFraction > 1 {
		return fmt.Errorf("memory fraction must be in (0, 1], got %v", c.MemoryFraction)
	}
	if c.Games <= 0 || c.Concurrency <= 0 {
		return fmt.Errorf("games and concurrency must be positive")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("bad log level: %w", err)
	}
	return nil
}

func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// SearchOptions translates the search settings into searcher options.
func (c *Config) SearchOptions() []searcher.Option {
	options := []searcher.Option{
		searcher.WithIterations(c.Iterations),
		searcher.WithMemoryFraction(c.MemoryFraction),
	}
	if c.Duration > 0 {
		options = append(options, searcher.WithDuration(c.Duration))
	}
	if c.Seed != 0 {
		options = append(options, searcher.WithSeed(c.Seed))
	}
	return options
}
