// Package metrics tracks request latencies and outcomes of the card data
// gateway.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Operation names a gateway call.
type Operation string

const (
	OpSearch     Operation = "search"
	OpCard       Operation = "card"
	OpNamed      Operation = "named"
	OpRulings    Operation = "rulings"
	OpBackground Operation = "background"
)

var operations = []Operation{OpSearch, OpCard, OpNamed, OpRulings, OpBackground}

// Outcome classifies a finished call.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNotFound
	OutcomeRateLimited
	OutcomeError
)

// GatewayMetrics counts gateway calls per operation and pool lookups.
type GatewayMetrics struct {
	latency map[Operation]*Histogram

	requests    atomic.Uint64
	errors      atomic.Uint64
	notFound    atomic.Uint64
	rateLimited atomic.Uint64
	poolHits    atomic.Uint64
	poolMisses  atomic.Uint64

	mu        sync.RWMutex
	startTime time.Time
}

// NewGatewayMetrics creates an empty collector.
func NewGatewayMetrics() *GatewayMetrics {
	m := &GatewayMetrics{
		latency:   make(map[Operation]*Histogram, len(operations)),
		startTime: time.Now(),
	}
	for _, op := range operations {
		m.latency[op] = NewHistogram(10000)
	}
	return m
}

// Observe records one finished call.
func (m *GatewayMetrics) Observe(op Operation, d time.Duration, outcome Outcome) {
	if h, ok := m.latency[op]; ok {
		h.Record(d)
	}
	m.requests.Add(1)
	switch outcome {
	case OutcomeNotFound:
		m.notFound.Add(1)
	case OutcomeRateLimited:
		m.rateLimited.Add(1)
		m.errors.Add(1)
	case OutcomeError:
		m.errors.Add(1)
	}
}

// PoolHit records a card lookup served from the local pool.
func (m *GatewayMetrics) PoolHit() { m.poolHits.Add(1) }

// PoolMiss records a card lookup that needed the gateway.
func (m *GatewayMetrics) PoolMiss() { m.poolMisses.Add(1) }

// Stats is a snapshot of the collector.
type Stats struct {
	Latency        map[Operation]LatencyStats `json:"latency"`
	Requests       uint64                     `json:"requests"`
	Errors         uint64                     `json:"errors"`
	NotFound       uint64                     `json:"not_found"`
	RateLimited    uint64                     `json:"rate_limited"`
	PoolHits       uint64                     `json:"pool_hits"`
	PoolMisses     uint64                     `json:"pool_misses"`
	PoolHitRate    float64                    `json:"pool_hit_rate"`    // percentage
	APISuccessRate float64                    `json:"api_success_rate"` // percentage
	Uptime         string                     `json:"uptime"`
}

// GetStats returns a snapshot of the current statistics.
func (m *GatewayMetrics) GetStats() *Stats {
	m.mu.RLock()
	start := m.startTime
	m.mu.RUnlock()

	s := &Stats{
		Latency:     make(map[Operation]LatencyStats, len(m.latency)),
		Requests:    m.requests.Load(),
		Errors:      m.errors.Load(),
		NotFound:    m.notFound.Load(),
		RateLimited: m.rateLimited.Load(),
		PoolHits:    m.poolHits.Load(),
		PoolMisses:  m.poolMisses.Load(),
		Uptime:      time.Since(start).Round(time.Second).String(),
	}
	for op, h := range m.latency {
		s.Latency[op] = h.Snapshot()
	}
	if lookups := s.PoolHits + s.PoolMisses; lookups > 0 {
		s.PoolHitRate = float64(s.PoolHits) / float64(lookups) * 100
	}
	if s.Requests > 0 {
		s.APISuccessRate = float64(s.Requests-s.Errors) / float64(s.Requests) * 100
	}
	return s
}

// Reset clears all metrics.
func (m *GatewayMetrics) Reset() {
	for _, h := range m.latency {
		h.Reset()
	}
	m.requests.Store(0)
	m.errors.Store(0)
	m.notFound.Store(0)
	m.rateLimited.Store(0)
	m.poolHits.Store(0)
	m.poolMisses.Store(0)

	m.mu.Lock()
	m.startTime = time.Now()
	m.mu.Unlock()
}
