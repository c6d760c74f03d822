package observability

import (
	"testing"
	"time"
)

func TestLatencyWindowSnapshot(t *testing.T) {
	w := newLatencyWindow(8)
	w.Observe("completion_ok", 500)
	w.Observe("completion_ok", 700)
	w.Observe("completion_ok", 900)
	w.Observe("", 100)
	w.Observe("completion_ok", -1)

	snap := w.Snapshot()
	if snap.WindowSize != 8 {
		t.Fatalf("WindowSize = %d, want 8", snap.WindowSize)
	}
	if len(snap.Series) != 1 {
		t.Fatalf("len(Series) = %d, want 1", len(snap.Series))
	}
	s := snap.Series[0]
	if s.Series != "completion_ok" {
		t.Fatalf("Series = %q, want %q", s.Series, "completion_ok")
	}
	if s.Samples != 3 {
		t.Fatalf("Samples = %d, want 3", s.Samples)
	}
	if s.LastMS != 900 || s.MaxMS != 900 {
		t.Fatalf("LastMS/MaxMS = %.2f/%.2f, want 900/900", s.LastMS, s.MaxMS)
	}
	if s.P50MS != 700 {
		t.Fatalf("P50MS = %.2f, want 700", s.P50MS)
	}
	if s.P95MS <= 700 || s.P95MS > 900 {
		t.Fatalf("P95MS = %.2f, want (700,900]", s.P95MS)
	}
}

func TestLatencyWindowWrapsAround(t *testing.T) {
	w := newLatencyWindow(2)
	w.Observe("x", 1)
	w.Observe("x", 2)
	w.Observe("x", 30)

	s := w.Snapshot().Series[0]
	if s.Samples != 2 {
		t.Fatalf("Samples = %d, want 2", s.Samples)
	}
	if s.AvgMS != 16 {
		t.Fatalf("AvgMS = %.2f, want 16", s.AvgMS)
	}
}

func TestMetricsObserveCompletion(t *testing.T) {
	m := NewMetrics("test_obs_" + time.Now().Format("150405") + "_" + time.Now().Format("000000000"))
	m.ObserveCompletion("", 120*time.Millisecond)
	m.ObserveCompletion("http_status", 80*time.Millisecond)

	snap := m.SnapshotLatency()
	names := map[string]int{}
	for _, s := range snap.Series {
		names[s.Series] = s.Samples
	}
	if names["completion_ok"] != 1 || names["completion_http_status"] != 1 || names["completion_total"] != 2 {
		t.Fatalf("unexpected series: %+v", names)
	}

	var nilMetrics *Metrics
	nilMetrics.ObserveCompletion("", time.Millisecond)
	if got := nilMetrics.SnapshotLatency(); len(got.Series) != 0 {
		t.Fatalf("nil metrics snapshot = %+v, want empty", got)
	}
}
