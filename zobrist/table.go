package zobrist

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"tictactoe/fixed"
	"tictactoe/game"
)

const (
	// DefaultBuckets is prime so that keys spread over every bucket.
	DefaultBuckets = 1_000_003

	// approximate heap footprint of one chained entry
	entrySize = 32
)

var (
	ErrTableFull = errors.New("transposition table full")
	ErrClosed    = errors.New("transposition table closed")
)

// Entry is a cached search result.
type Entry struct {
	Key   uint64
	Score fixed.Q
	Move  game.Move
}

type node struct {
	Entry
	next *node
}

type Stats struct {
	Entries int
	Lookups uint64
	Hits    uint64
	Created uint64
}

func (s Stats) HitRate() float64 {
	if s.Lookups == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Lookups)
}

// Table is a chained hash map from fingerprint to Entry. Put always inserts at
// the head of its bucket and never replaces an existing entry, so a key stored
// twice is held twice and Get returns the newest. Entries are only removed by
// Clear.
type Table struct {
	mu         sync.RWMutex
	buckets    []*node
	entries    int
	maxEntries int

	lookups atomic.Uint64
	hits    atomic.Uint64
	created atomic.Uint64
}

type TableOption func(*Table)

// WithBuckets sets the number of chains. Small values are useful to force
// collisions in tests.
func WithBuckets(n int) TableOption {
	if n <= 0 {
		panic("zobrist: bucket count must be positive")
	}
	return func(t *Table) {
		t.buckets = make([]*node, n)
	}
}

// WithMaxEntries bounds the number of entries; Put fails with ErrTableFull
// beyond it. Zero means unbounded.
func WithMaxEntries(n int) TableOption {
	return func(t *Table) {
		t.maxEntries = n
	}
}

// WithMemoryFraction bounds the table to a fraction of system memory.
func WithMemoryFraction(f float64) TableOption {
	if f <= 0 || f > 1 {
		panic("zobrist: memory fraction must be in (0, 1]")
	}
	return func(t *Table) {
		t.maxEntries = int(f * float64(memory.TotalMemory()) / entrySize)
	}
}

func NewTable(opts ...TableOption) *Table {
	t := &Table{}
	for _, opt := range opts {
		opt(t)
	}
	if t.buckets == nil {
		t.buckets = make([]*node, DefaultBuckets)
	}
	log.Debug().Int("buckets", len(t.buckets)).
		Int("max-entries", t.maxEntries).
		Uint64("total-system-memory-bytes", memory.TotalMemory()).
		Msg("transposition-table-created")
	return t
}

func (t *Table) index(key uint64) uint64 {
	return key % uint64(len(t.buckets))
}

// Get returns the first entry in key's chain that carries key.
func (t *Table) Get(key uint64) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	t.lookups.Add(1)
	if len(t.buckets) == 0 {
		return Entry{}, false
	}
	for n := t.buckets[t.index(key)]; n != nil; n = n.next {
		if n.Key == key {
			t.hits.Add(1)
			return n.Entry, true
		}
	}
	return Entry{}, false
}

func (t *Table) Put(key uint64, score fixed.Q, move game.Move) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.buckets == nil {
		return ErrClosed
	}
	if t.maxEntries > 0 && t.entries >= t.maxEntries {
		return ErrTableFull
	}
	idx := t.index(key)
	t.buckets[idx] = &node{
		Entry: Entry{Key: key, Score: score, Move: move},
		next:  t.buckets[idx],
	}
	t.entries++
	t.created.Add(1)
	return nil
}

// Clear drops every entry and resets the counters.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.buckets)
	t.entries = 0
	t.lookups.Store(0)
	t.hits.Store(0)
	t.created.Store(0)
}

// Len counts entries, duplicates included.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.entries
}

func (t *Table) Stats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Stats{
		Entries: t.entries,
		Lookups: t.lookups.Load(),
		Hits:    t.hits.Load(),
		Created: t.created.Load(),
	}
}

// release drops the buckets themselves. Later Puts fail with ErrClosed.
func (t *Table) release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buckets = nil
	t.entries = 0
}
