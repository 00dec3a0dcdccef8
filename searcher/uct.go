package searcher

import "tictactoe/fixed"

// explorationC is sqrt(2).
var explorationC = fixed.Sqrt(fixed.FromInt(2))

// uctScore is score/visits + C*sqrt(ln(parentVisits)/visits). Unvisited
// children score fixed.Max so each is tried once before any is exploited.
func uctScore(parentVisits, visits int, score fixed.Q) fixed.Q {
	if visits == 0 {
		return fixed.Max
	}
	n := fixed.FromInt(visits)
	exploitation := fixed.Div(score, n)
	exploration := fixed.Mul(explorationC, fixed.Sqrt(fixed.Div(fixed.Log(parentVisits), n)))
	return exploitation + exploration
}
