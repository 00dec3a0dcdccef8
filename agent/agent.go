package agent

import (
	"context"

	"tictactoe/game"
	"tictactoe/searcher"
)

type Agent interface {
	// FindMove returns the move to play on board for player together with the
	// search statistics behind it.
	FindMove(ctx context.Context, board game.Board, player game.Player) (searcher.Decision, error)
}

type mctsAgent struct {
	mcts *searcher.MCTS
}

// NewMCTSAgent plays the most visited move of every search.
func NewMCTSAgent(mcts *searcher.MCTS) Agent {
	return mctsAgent{mcts: mcts}
}

func (a mctsAgent) FindMove(ctx context.Context, board game.Board, player game.Player) (searcher.Decision, error) {
	return a.mcts.DecideMove(ctx, board, player)
}
