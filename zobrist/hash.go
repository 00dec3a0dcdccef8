// Package zobrist fingerprints boards and caches search results per
// fingerprint.
package zobrist

import (
	"tictactoe/game"
	"tictactoe/random"
)

const bignum = 1<<63 - 2

// Keys holds one random value per cell and occupant. A board's fingerprint is
// the XOR of the values of its occupied cells.
type Keys struct {
	seed  uint64
	cells [game.NumCells][2]uint64
	// xored in when O is to move, so that the same stones with a different
	// side to move never share an entry.
	theirTurn uint64
}

// NewKeys draws every key from a generator seeded with seed. Keys built from
// the same seed are identical.
func NewKeys(seed uint64) *Keys {
	rng := random.NewKeySource(seed)
	k := &Keys{seed: seed}
	for i := range k.cells {
		for j := range k.cells[i] {
			k.cells[i][j] = rng.Uint64n(bignum) + 1
		}
	}
	k.theirTurn = rng.Uint64n(bignum) + 1
	return k
}

func (k *Keys) Seed() uint64 {
	return k.seed
}

func occupant(p game.Player) int {
	if p == game.O {
		return 1
	}
	return 0
}

func (k *Keys) Hash(b *game.Board) uint64 {
	var h uint64
	for i, c := range b {
		if c == game.Empty {
			continue
		}
		h ^= k.cells[i][occupant(c)]
	}
	return h
}

// Toggle adds or removes p's stone on m. Applying it twice restores h.
func (k *Keys) Toggle(h uint64, m game.Move, p game.Player) uint64 {
	return h ^ k.cells[m][occupant(p)]
}

// Key is the fingerprint of b with toMove to play.
func (k *Keys) Key(b *game.Board, toMove game.Player) uint64 {
	h := k.Hash(b)
	if toMove == game.O {
		h ^= k.theirTurn
	}
	return h
}
