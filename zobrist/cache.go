package zobrist

import (
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"tictactoe/fixed"
	"tictactoe/game"
)

// Cache bundles the key table with a transposition table. One Cache is meant
// to be shared by every search in the process; it is safe for concurrent use.
type Cache struct {
	keys   *Keys
	table  *Table
	closed atomic.Bool
}

func NewCache(seed uint64, opts ...TableOption) *Cache {
	return &Cache{
		keys:  NewKeys(seed),
		table: NewTable(opts...),
	}
}

func (c *Cache) Keys() *Keys {
	return c.keys
}

func (c *Cache) Key(b *game.Board, toMove game.Player) uint64 {
	return c.keys.Key(b, toMove)
}

// Lookup misses once the cache is closed.
func (c *Cache) Lookup(key uint64) (Entry, bool) {
	if c.closed.Load() {
		return Entry{}, false
	}
	return c.table.Get(key)
}

func (c *Cache) Store(key uint64, score fixed.Q, move game.Move) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return c.table.Put(key, score, move)
}

// Clear empties the table. The keys are kept so fingerprints stay stable.
func (c *Cache) Clear() {
	log.Debug().Int("entries", c.table.Len()).Msg("clearing transposition table")
	c.table.Clear()
}

func (c *Cache) Len() int {
	return c.table.Len()
}

func (c *Cache) Stats() Stats {
	return c.table.Stats()
}

// Close releases the table. Closing twice returns ErrClosed.
func (c *Cache) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	c.table.release()
	return nil
}
