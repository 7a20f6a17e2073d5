package server

import (
	"sync/atomic"
	"time"

	"github.com/Brownie44l1/http-server/internal/response"
)

// Metrics holds server runtime metrics
type Metrics struct {
	ConnectionsTotal  atomic.Int64
	ActiveConnections atomic.Int64
	RequestsTotal     atomic.Int64
	Status2xx         atomic.Int64
	Status4xx         atomic.Int64
	Status5xx         atomic.Int64

	// FailuresTotal counts connections dropped without a response, not
	// including peers that closed before sending anything.
	FailuresTotal atomic.Int64

	TotalLatencyNs atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) ConnectionOpened() {
	m.ConnectionsTotal.Add(1)
	m.ActiveConnections.Add(1)
}

func (m *Metrics) ConnectionClosed() {
	m.ActiveConnections.Add(-1)
}

// RecordRequest records a response that was written in full. duration runs
// from routing to the end of the write.
func (m *Metrics) RecordRequest(status response.StatusCode, duration time.Duration) {
	m.RequestsTotal.Add(1)
	m.TotalLatencyNs.Add(duration.Nanoseconds())

	switch {
	case status >= 200 && status < 300:
		m.Status2xx.Add(1)
	case status >= 400 && status < 500:
		m.Status4xx.Add(1)
	case status >= 500:
		m.Status5xx.Add(1)
	}
}

func (m *Metrics) RecordFailure(kind ErrorKind) {
	if kind == KindConnectionClosed {
		return
	}
	m.FailuresTotal.Add(1)
}

// AverageLatency returns average request latency
func (m *Metrics) AverageLatency() time.Duration {
	totalReqs := m.RequestsTotal.Load()
	if totalReqs == 0 {
		return 0
	}
	return time.Duration(m.TotalLatencyNs.Load() / totalReqs)
}

// MetricsSnapshot is a point-in-time copy of Metrics
type MetricsSnapshot struct {
	ConnectionsTotal  int64
	ActiveConnections int64
	RequestsTotal     int64
	Status2xx         int64
	Status4xx         int64
	Status5xx         int64
	FailuresTotal     int64
	AverageLatency    time.Duration
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		ConnectionsTotal:  m.ConnectionsTotal.Load(),
		ActiveConnections: m.ActiveConnections.Load(),
		RequestsTotal:     m.RequestsTotal.Load(),
		Status2xx:         m.Status2xx.Load(),
		Status4xx:         m.Status4xx.Load(),
		Status5xx:         m.Status5xx.Load(),
		FailuresTotal:     m.FailuresTotal.Load(),
		AverageLatency:    m.AverageLatency(),
	}
}
