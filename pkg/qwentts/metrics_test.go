package qwentts

import (
	"net/http"
	"testing"
	"time"
)

// TestHeaderFloat distinguishes an absent header from a literal zero and
// tolerates junk values.
func TestHeaderFloat(t *testing.T) {
	h := http.Header{}
	h.Set("X-Audio-Duration", "3.25")
	h.Set("X-RTF", "0")
	h.Set("X-Generation-Time", "not-a-number")

	if v := headerFloat(h, "X-Audio-Duration"); v == nil || *v != 3.25 {
		t.Errorf("X-Audio-Duration = %v, want 3.25", v)
	}
	if v := headerFloat(h, "X-RTF"); v == nil || *v != 0 {
		t.Errorf("X-RTF = %v, want pointer to 0 for a literal zero", v)
	}
	if v := headerFloat(h, "X-Generation-Time"); v != nil {
		t.Errorf("unparsable header = %v, want nil", v)
	}
	if v := headerFloat(h, "X-Missing"); v != nil {
		t.Errorf("absent header = %v, want nil", v)
	}
}

// TestExtractMetrics leaves every server-side figure nil when no headers came
// back, while the client-side wall clock is always set.
func TestExtractMetrics(t *testing.T) {
	m := extractMetrics(http.Header{}, 1500*time.Millisecond, false)
	if m.GenerationTime != 1.5 {
		t.Errorf("GenerationTime = %v, want 1.5", m.GenerationTime)
	}
	if m.ServerGenerationTime != nil || m.AudioDuration != nil || m.RTF != nil {
		t.Errorf("metrics = %+v, want all server figures nil", m)
	}
	if m.CacheStatus != "" {
		t.Errorf("CacheStatus = %q, want empty", m.CacheStatus)
	}
}

// TestExtractMetrics_CacheGate only reads X-Cache-Status when the endpoint
// participates in the prompt cache.
func TestExtractMetrics_CacheGate(t *testing.T) {
	h := http.Header{}
	h.Set("X-Cache-Status", "miss")

	if m := extractMetrics(h, time.Second, true); m.CacheStatus != CacheMiss {
		t.Errorf("CacheStatus = %q, want MISS", m.CacheStatus)
	}
	if m := extractMetrics(h, time.Second, false); m.CacheStatus != "" {
		t.Errorf("CacheStatus = %q, want empty when gated off", m.CacheStatus)
	}

	// Unknown values are dropped rather than passed through.
	h.Set("X-Cache-Status", "maybe")
	if m := extractMetrics(h, time.Second, true); m.CacheStatus != "" {
		t.Errorf("CacheStatus = %q, want empty for unknown value", m.CacheStatus)
	}
}
