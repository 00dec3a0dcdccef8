// Package random provides the two generators the engine draws from. Zobrist
// keys come from a seeded ChaCha stream so that collisions stay unlikely;
// rollouts use a small PCG generator because they call it once per ply.
package random

import (
	"encoding/binary"
	"sync"
	"time"

	"golang.org/x/exp/rand"
	"lukechampine.com/frand"
)

const (
	keyBufSize = 1024
	keyRounds  = 12
)

var (
	seedMu sync.Mutex
	seedFn = func() uint64 { return uint64(time.Now().UnixNano()) }
)

// SetSeedFn replaces the function used to pick seeds when none is configured.
// Tests use it to make whole runs reproducible.
func SetSeedFn(fn func() uint64) {
	seedMu.Lock()
	defer seedMu.Unlock()
	seedFn = fn
}

func Seed() uint64 {
	seedMu.Lock()
	defer seedMu.Unlock()
	return seedFn()
}

// NewKeySource returns a ChaCha12 generator whose stream depends only on seed.
func NewKeySource(seed uint64) *frand.RNG {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	// Spread the seed over the whole key so nearby seeds do not share a prefix.
	binary.LittleEndian.PutUint64(key[8:16], seed*0x9e3779b97f4a7c15)
	binary.LittleEndian.PutUint64(key[16:24], ^seed)
	binary.LittleEndian.PutUint64(key[24:], seed^0xbf58476d1ce4e5b9)
	return frand.NewCustom(key[:], keyBufSize, keyRounds)
}

func NewRolloutSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
