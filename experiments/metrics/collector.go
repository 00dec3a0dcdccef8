package metrics

import (
	"sync/atomic"
	"time"
)

// Reasons a search stopped.
const (
	StopIterations = "iterations"
	StopDuration   = "duration"
	StopCancelled  = "cancelled"
	StopCached     = "cached"
	StopNoMoves    = "no-moves"
	StopArena      = "arena-exhausted"
)

type SearchMetric struct {
	Iterations       int // budget
	Budget           time.Duration
	Duration         time.Duration
	Episodes         int
	FullPlayouts     int
	TerminalHits     int
	Expansions       int
	Nodes            int
	CacheHit         bool
	// CacheStoreFailed marks a search whose result the cache refused.
	CacheStoreFailed bool
	StopReason       string
}

type MoveMetric struct {
	Step   int
	Player string
	Move   int
	SearchMetric
}

type GameMetric struct {
	StartingPlayer string
	Winner         string // "" for a draw
	Result         string
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(iterations int, budget time.Duration)
	AddEpisode()
	AddFullPlayout()
	AddTerminal()
	AddExpansion()
	SetNodes(n int)
	SetCacheHit(value bool)
	SetCacheStoreFailed(value bool)
	SetStopReason(reason string)
	Complete() SearchMetric
}

type collector struct {
	iterations   int
	budget       time.Duration
	startTime    time.Time
	episodes     atomic.Int32
	fullPlayouts atomic.Int32
	terminalHits atomic.Int32
	expansions   atomic.Int32
	nodes        atomic.Int32
	cacheHit     atomic.Bool
	storeFailed  atomic.Bool
	stopReason   atomic.Value
}

func NewCollector() Collector {
	return &collector{}
}

// Start also resets the counters, so one collector can serve many searches.
func (m *collector) Start(iterations int, budget time.Duration) {
	m.startTime = time.Now()
	m.iterations = iterations
	m.budget = budget
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
	m.terminalHits.Store(0)
	m.expansions.Store(0)
	m.nodes.Store(0)
	m.cacheHit.Store(false)
	m.storeFailed.Store(false)
	m.stopReason.Store("")
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddTerminal() {
	m.terminalHits.Add(1)
}

func (m *collector) AddExpansion() {
	m.expansions.Add(1)
}

func (m *collector) SetNodes(n int) {
	m.nodes.Store(int32(n))
}

func (m *collector) SetCacheHit(value bool) {
	m.cacheHit.Store(value)
}

func (m *collector) SetCacheStoreFailed(value bool) {
	m.storeFailed.Store(value)
}

func (m *collector) SetStopReason(reason string) {
	m.stopReason.Store(reason)
}

func (m *collector) Complete() SearchMetric {
	reason, _ := m.stopReason.Load().(string)
	return SearchMetric{
		Iterations:       m.iterations,
		Budget:           m.budget,
		Duration:         time.Since(m.startTime),
		Episodes:         int(m.episodes.Load()),
		FullPlayouts:     int(m.fullPlayouts.Load()),
		TerminalHits:     int(m.terminalHits.Load()),
		Expansions:       int(m.expansions.Load()),
		Nodes:            int(m.nodes.Load()),
		CacheHit:         m.cacheHit.Load(),
		CacheStoreFailed: m.storeFailed.Load(),
		StopReason:       reason,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(iterations int, budget time.Duration) {}
func (m *dummyCollector) AddEpisode()                                {}
func (m *dummyCollector) AddFullPlayout()                            {}
func (m *dummyCollector) AddTerminal()                               {}
func (m *dummyCollector) AddExpansion()                              {}
func (m *dummyCollector) SetNodes(n int)                             {}
func (m *dummyCollector) SetCacheHit(value bool)                     {}
func (m *dummyCollector) SetCacheStoreFailed(value bool)             {}
func (m *dummyCollector) SetStopReason(reason string)                {}
func (m *dummyCollector) Complete() SearchMetric                     { return SearchMetric{} }
