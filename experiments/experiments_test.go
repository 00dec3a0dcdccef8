package experiments

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"tictactoe/experiments/metrics"
)

func TestRun(t *testing.T) {
	random := metrics.AgentConfig{ID: 0, Kind: "random"}
	mcts := metrics.AgentConfig{ID: 1, Kind: "mcts", Iterations: 200, Cache: true}
	sampling := metrics.AgentConfig{ID: 2, Kind: "sampling", Iterations: 200, Temperature: 1}
	configs := []metrics.AgentConfig{random, mcts, sampling}
	matchUps := []MatchUp{{mcts, random}, {sampling, mcts}}

	dir := t.TempDir()
	cfg := Config{Games: 4, Concurrency: 2, Seed: 1, OutDir: dir}
	result, err := Run(context.Background(), "test", cfg, configs, matchUps)
	require.NoError(t, err)

	t.Run("records every game and move", func(t *testing.T) {
		require.Len(t, result.Games, 8)
		moves := 0
		for i, g := range result.Games {
			require.Equal(t, i+1, g.ID, "Game ids are sequential across match-ups")
			require.NotEmpty(t, g.Result)
			moves += g.TotalMoves
		}
		require.Len(t, result.Moves, moves)
	})

	t.Run("agents alternate sides", func(t *testing.T) {
		require.Equal(t, mcts.ID, result.Games[0].AgentX)
		require.Equal(t, random.ID, result.Games[1].AgentX)
	})

	t.Run("summaries add up", func(t *testing.T) {
		require.Len(t, result.Summaries, 2)
		for _, s := range result.Summaries {
			require.Equal(t, 4, s.Games)
			require.Equal(t, s.Games, s.Agent1Wins+s.Agent2Wins+s.Draws)
			require.Positive(t, s.MeanMoves)
		}
	})

	t.Run("writes csv files", func(t *testing.T) {
		runs, err := os.ReadDir(filepath.Join(dir, "test"))
		require.NoError(t, err)
		require.Len(t, runs, 1)
		base := filepath.Join(dir, "test", runs[0].Name())

		want := map[string]int{
			"agent_configs.csv": len(configs),
			"game_records.csv":  len(result.Games),
			"move_records.csv":  len(result.Moves),
			"summaries.csv":     len(result.Summaries),
		}
		for file, n := range want {
			f, err := os.Open(filepath.Join(base, file))
			require.NoError(t, err)
			rows, err := csv.NewReader(f).ReadAll()
			f.Close()
			require.NoError(t, err)
			require.Len(t, rows, n+1, "%s should have a header and one row per record", file)
		}
	})
}

func TestSummarize(t *testing.T) {
	matchUp := MatchUp{metrics.AgentConfig{ID: 5}, metrics.AgentConfig{ID: 6}}
	games := []metrics.GameRecord{
		{GameMetric: metrics.GameMetric{Winner: "X", TotalMoves: 5}}, // agent1 as X
		{GameMetric: metrics.GameMetric{Winner: "X", TotalMoves: 7}}, // agent2 as X
		{GameMetric: metrics.GameMetric{Winner: "", TotalMoves: 16}},
		{GameMetric: metrics.GameMetric{Winner: "O", TotalMoves: 8}}, // agent1 as O
	}
	moves := []metrics.MoveRecord{
		{MoveMetric: metrics.MoveMetric{SearchMetric: metrics.SearchMetric{Iterations: 10, Episodes: 10}}},
		{MoveMetric: metrics.MoveMetric{SearchMetric: metrics.SearchMetric{Iterations: 10, CacheHit: true}}},
		{MoveMetric: metrics.MoveMetric{}}, // random agent move
	}

	s := summarize(3, matchUp, games, moves)
	require.Equal(t, 3, s.MatchUp)
	require.Equal(t, 5, s.Agent1)
	require.Equal(t, 2, s.Agent1Wins)
	require.Equal(t, 1, s.Agent2Wins)
	require.Equal(t, 1, s.Draws)
	require.InDelta(t, 9.0, s.MeanMoves, 1e-9)
	require.InDelta(t, 0.5, s.CacheHitRate, 1e-9)
	require.InDelta(t, 5.0, s.MeanEpisodes, 1e-9)
}

func TestExperimentsAreWellFormed(t *testing.T) {
	require.Equal(t, []string{"baseline", "cache", "duration", "iterations", "sampling"}, Names())
	for name, experiment := range Experiments {
		configs, matchUps := experiment()
		ids := map[int]bool{}
		for _, c := range configs {
			ids[c.ID] = true
		}
		for _, m := range matchUps {
			require.True(t, ids[m.Agent1.ID], "%s: agent %d is listed", name, m.Agent1.ID)
			require.True(t, ids[m.Agent2.ID], "%s: agent %d is listed", name, m.Agent2.ID)
		}
	}
}
