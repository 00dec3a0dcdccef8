package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tictactoe/agent"
	"tictactoe/communication/client"
	"tictactoe/communication/server"
	"tictactoe/config"
	"tictactoe/display"
	"tictactoe/engine"
	"tictactoe/experiments"
	"tictactoe/random"
	"tictactoe/searcher"
	"tictactoe/zobrist"
)

func main() {
	var cfg config.Config
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	zerolog.SetGlobalLevel(cfg.Level())
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Seed == 0 {
		cfg.Seed = random.Seed()
	}
	log.Info().Str("mode", cfg.Mode).Uint64("seed", cfg.Seed).Msg("starting")

	var err error
	switch cfg.Mode {
	case config.ModePlay:
		err = play(ctx, &cfg)
	case config.ModeExperiment:
		err = experiment(ctx, &cfg)
	case config.ModeServe:
		err = serve(ctx, &cfg)
	}
	if err != nil {
		log.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

func newCache(cfg *config.Config) *zobrist.Cache {
	if !cfg.Cache {
		return nil
	}
	return zobrist.NewCache(cfg.Seed, zobrist.WithMemoryFraction(cfg.MemoryFraction))
}

// play renders one game of the search, as X, against the configured opponent.
func play(ctx context.Context, cfg *config.Config) error {
	cache := newCache(cfg)
	options := cfg.SearchOptions()
	if cache != nil {
		defer cache.Close()
		options = append(options, searcher.WithCache(cache))
	}
	x := agent.NewMCTSAgent(searcher.NewMCTS(options...))

	var o agent.Agent
	switch cfg.Opponent {
	case "random":
		o = agent.NewRandomAgent(cfg.Seed + 1)
	case "mcts":
		o = agent.NewMCTSAgent(searcher.NewMCTS(append(options, searcher.WithSeed(cfg.Seed+1))...))
	case "remote":
		o = agent.NewRemoteAgent(client.New(cfg.RemoteURL, nil), 0)
	}

	r := display.New(os.Stdout, cfg.Color)
	result, gameMetric, _, err := engine.NewLocal(x, o, engine.WithObserver(r.Observe)).Run(ctx)
	if err != nil {
		return err
	}
	r.Result(result)
	log.Info().Dur("duration", gameMetric.Duration).Int("moves", gameMetric.TotalMoves).Msg("game finished")
	return nil
}

func experiment(ctx context.Context, cfg *config.Config) error {
	build, ok := experiments.Experiments[cfg.Experiment]
	if !ok {
		return fmt.Errorf("unknown experiment %q, have %v", cfg.Experiment, experiments.Names())
	}
	configs, matchUps := build()
	_, err := experiments.Run(ctx, cfg.Experiment, experiments.Config{
		Games:          cfg.Games,
		Concurrency:    cfg.Concurrency,
		Seed:           cfg.Seed,
		MemoryFraction: cfg.MemoryFraction,
		OutDir:         cfg.OutDir,
	}, configs, matchUps)
	return err
}

func serve(ctx context.Context, cfg *config.Config) error {
	cache := zobrist.NewCache(cfg.Seed, zobrist.WithMemoryFraction(cfg.MemoryFraction))
	defer cache.Close()
	return server.New(cache, cfg.SearchOptions()...).ListenAndServe(ctx, cfg.Addr)
}
