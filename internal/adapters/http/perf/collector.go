package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 4096

// Kind distinguishes HTTP requests from document store operations.
type Kind uint8

const (
	KindRequest Kind = iota
	KindStoreOp
)

// Sample is one timing measurement.
type Sample struct {
	Kind       Kind
	Key        string // "GET /admin" or "bills.listWhere"
	Status     int    // HTTP status, 0 for store operations
	DurationMs float64
	At         time.Time
}

// Collector keeps the most recent samples in a fixed ring. Recording never
// blocks on aggregation; Snapshot does the work on read.
type Collector struct {
	mu      sync.Mutex
	ring    []Sample
	next    int
	written atomic.Int64
}

// NewCollector creates a collector holding at most size samples.
// PRE: size > 0 (non-positive sizes fall back to DefaultRingSize)
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{ring: make([]Sample, size)}
}

// Record stores a sample, overwriting the oldest one when the ring is full.
// A nil Collector discards the sample.
func (c *Collector) Record(s Sample) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.ring[c.next] = s
	c.next = (c.next + 1) % len(c.ring)
	c.mu.Unlock()
	c.written.Add(1)
}

// Written returns how many samples were ever recorded.
func (c *Collector) Written() int64 {
	return c.written.Load()
}

// KeyStat aggregates the samples sharing one key.
type KeyStat struct {
	Key     string  `json:"key"`
	Count   int     `json:"count"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	totalMs float64
}

// Snapshot is the aggregated view served on the admin perf endpoint.
type Snapshot struct {
	Written      int64     `json:"written"`
	RequestP50Ms float64   `json:"request_p50_ms"`
	RequestP95Ms float64   `json:"request_p95_ms"`
	RequestP99Ms float64   `json:"request_p99_ms"`
	Requests     []KeyStat `json:"requests"`
	StoreOps     []KeyStat `json:"store_ops"`
}

// Snapshot aggregates samples recorded at or after since, keeping the topN
// slowest keys (by average) of each kind.
// POST: Returned slices are sorted by AvgMs descending
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	samples := make([]Sample, len(c.ring))
	copy(samples, c.ring)
	c.mu.Unlock()

	byKind := map[Kind]map[string]*KeyStat{
		KindRequest: {},
		KindStoreOp: {},
	}
	var requestMs []float64

	for _, s := range samples {
		if s.At.IsZero() || s.At.Before(since) {
			continue
		}
		if s.Kind == KindRequest {
			requestMs = append(requestMs, s.DurationMs)
		}
		stats := byKind[s.Kind]
		st, ok := stats[s.Key]
		if !ok {
			st = &KeyStat{Key: s.Key}
			stats[s.Key] = st
		}
		st.Count++
		st.totalMs += s.DurationMs
		st.MaxMs = math.Max(st.MaxMs, s.DurationMs)
	}

	snap := Snapshot{
		Written:  c.Written(),
		Requests: slowest(byKind[KindRequest], topN),
		StoreOps: slowest(byKind[KindStoreOp], topN),
	}
	if len(requestMs) > 0 {
		sort.Float64s(requestMs)
		snap.RequestP50Ms = percentile(requestMs, 50)
		snap.RequestP95Ms = percentile(requestMs, 95)
		snap.RequestP99Ms = percentile(requestMs, 99)
	}
	return snap
}

// percentile interpolates the p-th percentile of an ascending slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := p / 100 * float64(len(sorted)-1)
	lo, hi := int(math.Floor(idx)), int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func slowest(stats map[string]*KeyStat, n int) []KeyStat {
	out := make([]KeyStat, 0, len(stats))
	for _, st := range stats {
		st.AvgMs = st.totalMs / float64(st.Count)
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgMs == out[j].AvgMs {
			return out[i].Key < out[j].Key
		}
		return out[i].AvgMs > out[j].AvgMs
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
