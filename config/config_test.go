package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"tictactoe/searcher"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var c Config
		require.NoError(t, c.Load(nil))
		require.Equal(t, ModePlay, c.Mode)
		require.Equal(t, searcher.DefaultIterations, c.Iterations)
		require.True(t, c.Cache)
		require.Equal(t, zerolog.InfoLevel, c.Level())
		require.Len(t, c.SearchOptions(), 2)
	})

	t.Run("flags", func(t *testing.T) {
		var c Config
		err := c.Load([]string{"-mode", "serve", "-iterations", "500", "-duration", "50ms", "-seed", "7", "-cache=false", "-log-level", "debug"})
		require.NoError(t, err)
		require.Equal(t, ModeServe, c.Mode)
		require.Equal(t, 500, c.Iterations)
		require.Equal(t, 50*time.Millisecond, c.Duration)
		require.Equal(t, uint64(7), c.Seed)
		require.False(t, c.Cache)
		require.Equal(t, zerolog.DebugLevel, c.Level())
		require.Len(t, c.SearchOptions(), 4)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("TICTACTOE_GAMES", "3")
		var c Config
		require.NoError(t, c.Load(nil))
		require.Equal(t, 3, c.Games)
	})

	t.Run("invalid values", func(t *testing.T) {
		for _, args := range [][]string{
			{"-mode", "fly"},
			{"-opponent", "nobody"},
			{"-iterations", "0"},
			{"-memory-fraction", "2"},
			{"-games", "0"},
			{"-log-level", "loud"},
			{"-no-such-flag"},
		} {
			var c Config
			require.Error(t, c.Load(args), "Args %v", args)
		}
	})
}
