package metrics

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"
)

var testClock = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestMonitor(capacity int) *Monitor {
	m := NewMonitor(Config{Capacity: capacity})
	m.now = func() time.Time { return testClock }
	return m
}

func TestRecord_FillsIDAndTimestamp(t *testing.T) {
	m := newTestMonitor(10)
	m.Record(Event{Provider: "ollama", Success: true})

	events := m.snapshot()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID == "" {
		t.Error("expected a generated ID")
	}
	if !events[0].Timestamp.Equal(testClock) {
		t.Errorf("expected timestamp %v, got %v", testClock, events[0].Timestamp)
	}
}

func TestRecord_EvictsOldestAtCapacity(t *testing.T) {
	const capacity = 5
	m := newTestMonitor(capacity)

	for i := 0; i < capacity+1; i++ {
		m.Record(Event{ID: fmt.Sprintf("e%d", i), Provider: "p", Success: true})
	}

	if m.Len() != capacity {
		t.Fatalf("expected %d events retained, got %d", capacity, m.Len())
	}
	events := m.snapshot()
	if events[0].ID != "e1" {
		t.Errorf("expected oldest event evicted, first retained is %s", events[0].ID)
	}
	if events[len(events)-1].ID != "e5" {
		t.Errorf("expected newest event retained, last is %s", events[len(events)-1].ID)
	}
}

func TestSummary_WindowExcludesOldEvents(t *testing.T) {
	m := newTestMonitor(100)
	m.Record(Event{Provider: "p", Success: true, Timestamp: testClock.Add(-30 * time.Minute)})
	m.Record(Event{Provider: "p", Success: true, Timestamp: testClock.Add(-2 * time.Hour)})

	s := m.Summary(1)
	if s.TotalRequests != 1 {
		t.Errorf("expected 1 request inside a 1h window, got %d", s.TotalRequests)
	}

	s = m.Summary(24)
	if s.TotalRequests != 2 {
		t.Errorf("expected 2 requests inside a 24h window, got %d", s.TotalRequests)
	}
}

func TestSummary_Aggregates(t *testing.T) {
	m := newTestMonitor(100)
	m.Record(Event{
		Provider: "ollama", Success: true, Latency: 100 * time.Millisecond,
		Usage: &TokenUsage{Total: 40}, Confidence: 0.8,
	})
	m.Record(Event{
		Provider: "ollama", Success: true, Latency: 300 * time.Millisecond,
		Usage: &TokenUsage{Total: 60}, Confidence: 0.6,
	})
	m.Record(Event{
		Provider: "openai", Success: false, Latency: 200 * time.Millisecond,
		Error: "TIMEOUT",
	})

	s := m.Summary(1)
	if s.TotalRequests != 3 {
		t.Fatalf("expected 3 requests, got %d", s.TotalRequests)
	}
	if want := 2.0 / 3.0; s.SuccessRate < want-0.001 || s.SuccessRate > want+0.001 {
		t.Errorf("expected success rate %.3f, got %.3f", want, s.SuccessRate)
	}
	if s.AvgLatencyMS != 200 {
		t.Errorf("expected avg latency 200ms, got %.1f", s.AvgLatencyMS)
	}
	if s.TotalTokens != 100 {
		t.Errorf("expected 100 tokens, got %d", s.TotalTokens)
	}
	if want := 0.7; s.AvgConfidence < want-0.001 || s.AvgConfidence > want+0.001 {
		t.Errorf("expected avg confidence 0.7, got %.3f", s.AvgConfidence)
	}
	if s.PerError["TIMEOUT"] != 1 {
		t.Errorf("expected 1 TIMEOUT, got %d", s.PerError["TIMEOUT"])
	}

	ollama := s.PerProvider["ollama"]
	if ollama.Requests != 2 || ollama.SuccessRate != 1.0 || ollama.TotalTokens != 100 {
		t.Errorf("unexpected ollama stats: %+v", ollama)
	}
	openai := s.PerProvider["openai"]
	if openai.Requests != 1 || openai.SuccessRate != 0 {
		t.Errorf("unexpected openai stats: %+v", openai)
	}
}

func TestSummary_HourlyBucketsSorted(t *testing.T) {
	m := newTestMonitor(100)
	m.Record(Event{Provider: "p", Success: false, Timestamp: testClock.Add(-10 * time.Minute)})
	m.Record(Event{Provider: "p", Success: true, Timestamp: testClock.Add(-90 * time.Minute)})
	m.Record(Event{Provider: "p", Success: true, Timestamp: testClock.Add(-70 * time.Minute)})

	s := m.Summary(2)
	if len(s.Hourly) != 2 {
		t.Fatalf("expected 2 hourly buckets, got %d", len(s.Hourly))
	}
	if !s.Hourly[0].Hour.Before(s.Hourly[1].Hour) {
		t.Error("expected buckets sorted by hour ascending")
	}
	if s.Hourly[0].Requests != 2 || s.Hourly[0].Failures != 0 {
		t.Errorf("unexpected first bucket: %+v", s.Hourly[0])
	}
	if s.Hourly[1].Requests != 1 || s.Hourly[1].Failures != 1 {
		t.Errorf("unexpected second bucket: %+v", s.Hourly[1])
	}
}

func TestCompareProviders_BoundedWindow(t *testing.T) {
	m := newTestMonitor(1000)
	m.compareWindow = 10

	// Old slow failures followed by recent fast successes. Only the recent
	// window should count.
	for i := 0; i < 20; i++ {
		m.Record(Event{Provider: "ollama", Success: false, Latency: time.Second})
	}
	for i := 0; i < 10; i++ {
		m.Record(Event{Provider: "ollama", Success: true, Latency: 50 * time.Millisecond, Confidence: 0.9})
	}

	c := m.CompareProviders()["ollama"]
	if c.TotalOps != 10 {
		t.Fatalf("expected window of 10 ops, got %d", c.TotalOps)
	}
	if c.SuccessRate != 1.0 {
		t.Errorf("expected success rate 1.0 in recent window, got %.2f", c.SuccessRate)
	}
	if c.AvgLatencyMS != 50 {
		t.Errorf("expected 50ms avg latency, got %.1f", c.AvgLatencyMS)
	}
	if c.AvgConfidence < 0.899 || c.AvgConfidence > 0.901 {
		t.Errorf("expected 0.9 avg confidence, got %.3f", c.AvgConfidence)
	}
}

func TestTopErrors(t *testing.T) {
	m := newTestMonitor(100)
	for i := 0; i < 3; i++ {
		m.Record(Event{Provider: "p", Success: false, Error: "TIMEOUT"})
	}
	for i := 0; i < 5; i++ {
		m.Record(Event{Provider: "p", Success: false, Error: "RATE_LIMITED"})
	}
	m.Record(Event{Provider: "p", Success: false, Error: "CONNECTION_FAILED"})

	top := m.TopErrors(1, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(top))
	}
	if top[0].Error != "RATE_LIMITED" || top[0].Count != 5 {
		t.Errorf("unexpected top error: %+v", top[0])
	}
	if top[1].Error != "TIMEOUT" || top[1].Count != 3 {
		t.Errorf("unexpected second error: %+v", top[1])
	}
}

func TestPurgeOlderThan(t *testing.T) {
	m := newTestMonitor(100)
	m.Record(Event{ID: "old", Provider: "p", Timestamp: testClock.Add(-10 * 24 * time.Hour)})
	m.Record(Event{ID: "recent", Provider: "p", Timestamp: testClock.Add(-time.Hour)})

	removed := m.PurgeOlderThan(7)
	if removed != 1 {
		t.Fatalf("expected 1 event removed, got %d", removed)
	}
	events := m.snapshot()
	if len(events) != 1 || events[0].ID != "recent" {
		t.Errorf("expected only the recent event retained, got %+v", events)
	}

	// Buffer keeps working after the rebuild.
	m.Record(Event{ID: "after", Provider: "p"})
	if m.Len() != 2 {
		t.Errorf("expected 2 events after purge and record, got %d", m.Len())
	}
}

func TestExportJSON(t *testing.T) {
	m := newTestMonitor(100)
	m.Record(Event{Provider: "ollama", Success: true, Latency: 100 * time.Millisecond})
	m.Record(Event{Provider: "ollama", Success: false, Error: "TIMEOUT"})

	raw, err := m.ExportJSON(24)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var report Report
	if err := json.Unmarshal(raw, &report); err != nil {
		t.Fatalf("expected valid JSON, got %v", err)
	}
	if report.Summary.TotalRequests != 2 {
		t.Errorf("expected 2 requests in report, got %d", report.Summary.TotalRequests)
	}
	if len(report.TopErrors) != 1 || report.TopErrors[0].Error != "TIMEOUT" {
		t.Errorf("unexpected top errors: %+v", report.TopErrors)
	}
	if report.Comparison["ollama"].TotalOps != 2 {
		t.Errorf("expected comparison over 2 ops, got %+v", report.Comparison["ollama"])
	}
}

func TestMonitor_ConcurrentRecord(t *testing.T) {
	m := newTestMonitor(50)
	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				m.Record(Event{Provider: "p", Success: true})
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}

	if m.Len() != 50 {
		t.Errorf("expected buffer capped at capacity, got %d", m.Len())
	}
}
