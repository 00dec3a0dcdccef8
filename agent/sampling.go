package agent

import (
	"context"
	"math"
	"sort"
	"sync"

	"golang.org/x/exp/rand"

	"tictactoe/game"
	"tictactoe/random"
	"tictactoe/searcher"
)

type samplingAgent struct {
	mcts        *searcher.MCTS
	temperature float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSamplingAgent searches like the MCTS agent but then draws its move from
// the root visit counts raised to 1/temperature. It varies openings in
// self-play; a temperature near zero approaches the MCTS agent.
func NewSamplingAgent(mcts *searcher.MCTS, temperature float64, seed uint64) Agent {
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	return &samplingAgent{
		mcts:        mcts,
		temperature: temperature,
		rng:         random.NewRolloutSource(seed),
	}
}

func (a *samplingAgent) FindMove(ctx context.Context, board game.Board, player game.Player) (searcher.Decision, error) {
	d, err := a.mcts.DecideMove(ctx, board, player)
	if err != nil || len(d.Policy) == 0 {
		return d, err
	}
	a.mu.Lock()
	sampled := a.rng.Float64()
	a.mu.Unlock()
	d.Move = sample(adjustTemperature(d.Policy, a.temperature), sampled)
	d.Visits = d.Policy[d.Move]
	return d, nil
}

type weightedMove struct {
	move game.Move
	prob float64
}

// adjustTemperature turns visit counts into probabilities, ordered by move so
// that sampling is reproducible.
func adjustTemperature(policy map[game.Move]int, temperature float64) []weightedMove {
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make([]weightedMove, 0, len(policy))
	for move, visits := range policy {
		prob := math.Pow(float64(visits), exponent)
		sum += prob
		adjusted = append(adjusted, weightedMove{move: move, prob: prob})
	}
	sort.Slice(adjusted, func(i, j int) bool { return adjusted[i].move < adjusted[j].move })
	if sum == 0 {
		for i := range adjusted {
			adjusted[i].prob = 1 / float64(len(adjusted))
		}
		return adjusted
	}
	for i := range adjusted {
		adjusted[i].prob /= sum
	}
	return adjusted
}

func sample(policy []weightedMove, sampled float64) game.Move {
	cumulative := 0.0
	for _, wm := range policy {
		cumulative += wm.prob
		if sampled < cumulative {
			return wm.move
		}
	}
	return policy[len(policy)-1].move // Fallback in case of rounding errors
}
