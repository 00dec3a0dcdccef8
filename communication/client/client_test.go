package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"tictactoe/communication/server"
	"tictactoe/game"
	"tictactoe/searcher"
	"tictactoe/zobrist"
)

func TestClient(t *testing.T) {
	ctx := context.Background()
	cache := zobrist.NewCache(1, zobrist.WithBuckets(101))
	ts := httptest.NewServer(server.New(cache, searcher.WithSeed(1), searcher.WithIterations(200)))
	defer ts.Close()
	c := New(ts.URL+"/", nil)

	t.Run("move round trip", func(t *testing.T) {
		b, err := game.ParseBoard("X... .... .... ....")
		require.NoError(t, err)
		resp, err := c.Move(ctx, b, game.O, 100)
		require.NoError(t, err)
		require.True(t, resp.Found)
		require.True(t, b.IsLegal(game.Move(resp.Move)))
	})

	t.Run("stats and clear", func(t *testing.T) {
		stats, err := c.Stats(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, stats.Entries)

		require.NoError(t, c.Clear(ctx))
		stats, err = c.Stats(ctx)
		require.NoError(t, err)
		require.Zero(t, stats.Entries)
	})

	t.Run("server errors carry the message", func(t *testing.T) {
		_, err := c.Move(ctx, game.Board{}, game.X, searcher.MaxIterations+1)
		require.ErrorContains(t, err, "iterations out of range")
	})

	t.Run("unreachable server", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		dead.Close()
		_, err := New(dead.URL, nil).Stats(ctx)
		require.Error(t, err)
	})
}
