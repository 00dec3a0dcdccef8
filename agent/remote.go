package agent

import (
	"context"
	"fmt"

	"tictactoe/communication/client"
	"tictactoe/fixed"
	"tictactoe/game"
	"tictactoe/searcher"
)

type remoteAgent struct {
	client     *client.Client
	iterations int
}

// NewRemoteAgent asks a move server for every move. Zero iterations leaves
// the budget to the server.
func NewRemoteAgent(c *client.Client, iterations int) Agent {
	return remoteAgent{client: c, iterations: iterations}
}

func (a remoteAgent) FindMove(ctx context.Context, board game.Board, player game.Player) (searcher.Decision, error) {
	resp, err := a.client.Move(ctx, board, player, a.iterations)
	if err != nil {
		return searcher.Decision{}, err
	}
	d := searcher.Decision{
		Move:   game.Move(resp.Move),
		Found:  resp.Found,
		Score:  fixed.Q(resp.Score),
		Visits: resp.Visits,
		Cached: resp.Cached,
	}
	if d.Found && !board.IsLegal(d.Move) {
		return searcher.Decision{}, fmt.Errorf("server chose cell %d on %v: %w", d.Move, board, game.ErrIllegalMove)
	}
	return d, nil
}
