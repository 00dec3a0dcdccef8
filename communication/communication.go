// Package communication holds the JSON messages exchanged between a move
// server and its clients.
package communication

import (
	"fmt"

	"tictactoe/game"
	"tictactoe/zobrist"
)

// MoveRequest asks for a move. Board uses the Board.String format; Player
// is "X" or "O" and defaults to the side to move.
type MoveRequest struct {
	Board      string `json:"board"`
	Player     string `json:"player,omitempty"`
	Iterations int    `json:"iterations,omitempty"`
}

type MoveResponse struct {
	Move   int     `json:"move"`
	Found  bool    `json:"found"`
	Score  int32   `json:"score"` // fixed point, 256 is a certain win
	Win    float64 `json:"win"`   // Score as a fraction, for display
	Visits int     `json:"visits"`
	Cached bool    `json:"cached"`
}

type StatsResponse struct {
	Entries int     `json:"entries"`
	Lookups uint64  `json:"lookups"`
	Hits    uint64  `json:"hits"`
	Created uint64  `json:"created"`
	HitRate float64 `json:"hit_rate"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewStatsResponse(s zobrist.Stats) StatsResponse {
	return StatsResponse{
		Entries: s.Entries,
		Lookups: s.Lookups,
		Hits:    s.Hits,
		Created: s.Created,
		HitRate: s.HitRate(),
	}
}

func ParsePlayer(s string) (game.Player, error) {
	switch s {
	case "X", "x":
		return game.X, nil
	case "O", "o":
		return game.O, nil
	}
	return game.Empty, fmt.Errorf("unknown player %q", s)
}
