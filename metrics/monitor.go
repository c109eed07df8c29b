package metrics

import (
	"encoding/json"
	"sort"
	"sync"
	"time"
)

// ProviderStats aggregates one provider's share of a Summary window.
type ProviderStats struct {
	Requests     int     `json:"requests"`
	SuccessRate  float64 `json:"success_rate"`
	AvgLatencyMS float64 `json:"avg_latency_ms"`
	TotalTokens  int     `json:"total_tokens"`
}

// HourBucket is one hour-truncated slot of the request time series.
type HourBucket struct {
	Hour         time.Time `json:"hour"`
	Requests     int       `json:"requests"`
	Failures     int       `json:"failures"`
	AvgLatencyMS float64   `json:"avg_latency_ms"`
}

// Summary is a windowed aggregate over recorded events.
type Summary struct {
	WindowHours   int                      `json:"window_hours"`
	TotalRequests int                      `json:"total_requests"`
	SuccessRate   float64                  `json:"success_rate"`
	AvgLatencyMS  float64                  `json:"avg_latency_ms"`
	TotalTokens   int                      `json:"total_tokens"`
	AvgConfidence float64                  `json:"avg_confidence"`
	PerProvider   map[string]ProviderStats `json:"per_provider"`
	PerError      map[string]int           `json:"per_error"`
	Hourly        []HourBucket             `json:"hourly"`
}

// ProviderComparison aggregates a provider's recent behavior for side by
// side comparison.
type ProviderComparison struct {
	TotalOps      int     `json:"total_ops"`
	SuccessRate   float64 `json:"success_rate"`
	AvgLatencyMS  float64 `json:"avg_latency_ms"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// ErrorCount is one error cause with its occurrence count.
type ErrorCount struct {
	Error string `json:"error"`
	Count int    `json:"count"`
}

// Report is the JSON export consumed by external dashboards.
type Report struct {
	GeneratedAt time.Time                     `json:"generated_at"`
	Summary     Summary                       `json:"summary"`
	Comparison  map[string]ProviderComparison `json:"comparison"`
	TopErrors   []ErrorCount                  `json:"top_errors"`
}

// Monitor is a capacity-bounded, concurrency-safe event log with derived
// aggregates.
type Monitor struct {
	mu       sync.RWMutex
	events   []Event
	start    int
	count    int
	capacity int

	compareWindow int
	now           func() time.Time
}

// NewMonitor creates a monitor with the configured ring buffer capacity.
func NewMonitor(cfg Config) *Monitor {
	cfg.ApplyDefaults()
	return &Monitor{
		events:        make([]Event, cfg.Capacity),
		capacity:      cfg.Capacity,
		compareWindow: DefaultCompareWindow,
		now:           time.Now,
	}
}

// Record appends an event, evicting the oldest on overflow. The event's ID
// and timestamp are filled when zero.
func (m *Monitor) Record(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.normalize(m.now())
	if m.count < m.capacity {
		m.events[(m.start+m.count)%m.capacity] = e
		m.count++
		return
	}
	m.events[m.start] = e
	m.start = (m.start + 1) % m.capacity
}

// Len returns the number of retained events.
func (m *Monitor) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.count
}

// snapshot copies the retained events in FIFO order. Aggregations work on
// the copy so they never hold the lock.
func (m *Monitor) snapshot() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Event, m.count)
	for i := 0; i < m.count; i++ {
		out[i] = m.events[(m.start+i)%m.capacity]
	}
	return out
}

// Summary aggregates all events recorded within the last windowHours.
func (m *Monitor) Summary(windowHours int) Summary {
	cutoff := m.now().Add(-time.Duration(windowHours) * time.Hour)
	events := m.snapshot()

	s := Summary{
		WindowHours: windowHours,
		PerProvider: make(map[string]ProviderStats),
		PerError:    make(map[string]int),
	}

	type acc struct {
		requests  int
		successes int
		latency   time.Duration
		tokens    int
	}
	providers := make(map[string]*acc)
	hours := make(map[time.Time]*acc)

	var (
		successes       int
		totalLatency    time.Duration
		confidenceSum   float64
		confidenceCount int
	)

	for _, e := range events {
		if e.Timestamp.Before(cutoff) {
			continue
		}
		s.TotalRequests++
		totalLatency += e.Latency
		if e.Success {
			successes++
		} else if e.Error != "" {
			s.PerError[e.Error]++
		}
		if e.Usage != nil {
			s.TotalTokens += e.Usage.Total
		}
		if e.Confidence > 0 {
			confidenceSum += e.Confidence
			confidenceCount++
		}

		p := providers[e.Provider]
		if p == nil {
			p = &acc{}
			providers[e.Provider] = p
		}
		p.requests++
		p.latency += e.Latency
		if e.Success {
			p.successes++
		}
		if e.Usage != nil {
			p.tokens += e.Usage.Total
		}

		hour := e.Timestamp.Truncate(time.Hour)
		h := hours[hour]
		if h == nil {
			h = &acc{}
			hours[hour] = h
		}
		h.requests++
		h.latency += e.Latency
		if e.Success {
			h.successes++
		}
	}

	if s.TotalRequests > 0 {
		s.SuccessRate = float64(successes) / float64(s.TotalRequests)
		s.AvgLatencyMS = float64(totalLatency.Milliseconds()) / float64(s.TotalRequests)
	}
	if confidenceCount > 0 {
		s.AvgConfidence = confidenceSum / float64(confidenceCount)
	}

	for name, p := range providers {
		stats := ProviderStats{
			Requests:    p.requests,
			TotalTokens: p.tokens,
		}
		if p.requests > 0 {
			stats.SuccessRate = float64(p.successes) / float64(p.requests)
			stats.AvgLatencyMS = float64(p.latency.Milliseconds()) / float64(p.requests)
		}
		s.PerProvider[name] = stats
	}

	for hour, h := range hours {
		bucket := HourBucket{
			Hour:     hour,
			Requests: h.requests,
			Failures: h.requests - h.successes,
		}
		if h.requests > 0 {
			bucket.AvgLatencyMS = float64(h.latency.Milliseconds()) / float64(h.requests)
		}
		s.Hourly = append(s.Hourly, bucket)
	}
	sort.Slice(s.Hourly, func(i, j int) bool {
		return s.Hourly[i].Hour.Before(s.Hourly[j].Hour)
	})

	return s
}

// CompareProviders aggregates each provider's most recent events, bounded
// per provider, so comparisons reflect current behavior rather than the full
// retention window.
func (m *Monitor) CompareProviders() map[string]ProviderComparison {
	events := m.snapshot()

	type acc struct {
		ops             int
		successes       int
		latency         time.Duration
		confidenceSum   float64
		confidenceCount int
	}
	providers := make(map[string]*acc)

	// Newest first; stop counting a provider once its window is full.
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		p := providers[e.Provider]
		if p == nil {
			p = &acc{}
			providers[e.Provider] = p
		}
		if p.ops >= m.compareWindow {
			continue
		}
		p.ops++
		p.latency += e.Latency
		if e.Success {
			p.successes++
		}
		if e.Confidence > 0 {
			p.confidenceSum += e.Confidence
			p.confidenceCount++
		}
	}

	out := make(map[string]ProviderComparison, len(providers))
	for name, p := range providers {
		c := ProviderComparison{TotalOps: p.ops}
		if p.ops > 0 {
			c.SuccessRate = float64(p.successes) / float64(p.ops)
			c.AvgLatencyMS = float64(p.latency.Milliseconds()) / float64(p.ops)
		}
		if p.confidenceCount > 0 {
			c.AvgConfidence = p.confidenceSum / float64(p.confidenceCount)
		}
		out[name] = c
	}
	return out
}

// TopErrors returns the most frequent error causes in the window, most
// frequent first, capped at limit.
func (m *Monitor) TopErrors(windowHours, limit int) []ErrorCount {
	s := m.Summary(windowHours)

	out := make([]ErrorCount, 0, len(s.PerError))
	for msg, count := range s.PerError {
		out = append(out, ErrorCount{Error: msg, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Error < out[j].Error
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// PurgeOlderThan drops events older than the given number of days and
// returns how many were removed.
func (m *Monitor) PurgeOlderThan(days int) int {
	cutoff := m.now().Add(-time.Duration(days) * 24 * time.Hour)

	m.mu.Lock()
	defer m.mu.Unlock()

	kept := make([]Event, 0, m.count)
	for i := 0; i < m.count; i++ {
		e := m.events[(m.start+i)%m.capacity]
		if !e.Timestamp.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	removed := m.count - len(kept)

	m.events = make([]Event, m.capacity)
	copy(m.events, kept)
	m.start = 0
	m.count = len(kept)
	return removed
}

// Export builds the dashboard report for the window.
func (m *Monitor) Export(windowHours int) Report {
	return Report{
		GeneratedAt: m.now(),
		Summary:     m.Summary(windowHours),
		Comparison:  m.CompareProviders(),
		TopErrors:   m.TopErrors(windowHours, 10),
	}
}

// ExportJSON marshals the dashboard report.
func (m *Monitor) ExportJSON(windowHours int) ([]byte, error) {
	return json.Marshal(m.Export(windowHours))
}
