package qwentts

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Response headers carrying server-side performance measurements. Lookup is
// case-insensitive via http.Header canonicalisation.
const (
	headerAudioDuration  = "X-Audio-Duration"
	headerRTF            = "X-RTF"
	headerGenerationTime = "X-Generation-Time"
	headerCacheStatus    = "X-Cache-Status"
)

// CacheStatus reports whether the server's voice prompt cache served the
// reference audio for a clone or prompt-generation call.
type CacheStatus string

const (
	CacheHit  CacheStatus = "HIT"
	CacheMiss CacheStatus = "MISS"
)

// Metrics are the performance figures derived from a single generation call.
// GenerationTime is measured client-side around the request; everything else
// comes from response headers and is nil (not zero) when the server did not
// send the header — callers must render a placeholder rather than 0.
type Metrics struct {
	// GenerationTime is the request round-trip in seconds, wall clock.
	GenerationTime float64

	// ServerGenerationTime is the server's own generation timing, when
	// reported.
	ServerGenerationTime *float64

	// AudioDuration is the length of the generated audio in seconds.
	AudioDuration *float64

	// RTF is the server-reported real-time factor (generation time divided
	// by audio duration). It is trusted as-is, never recomputed locally.
	RTF *float64

	// CacheStatus is set only on clone and generate-with-prompt responses.
	CacheStatus CacheStatus
}

// extractMetrics reads the performance headers off a response. withCache
// controls whether X-Cache-Status is consulted; only the clone and
// generate-with-prompt endpoints emit it.
func extractMetrics(h http.Header, elapsed time.Duration, withCache bool) Metrics {
	m := Metrics{
		GenerationTime:       elapsed.Seconds(),
		ServerGenerationTime: headerFloat(h, headerGenerationTime),
		AudioDuration:        headerFloat(h, headerAudioDuration),
		RTF:                  headerFloat(h, headerRTF),
	}
	if withCache {
		switch strings.ToUpper(h.Get(headerCacheStatus)) {
		case "HIT":
			m.CacheStatus = CacheHit
		case "MISS":
			m.CacheStatus = CacheMiss
		}
	}
	return m
}

// headerFloat parses a header value as float64, returning nil when the
// header is absent or unparsable. A missing header and a literal "0" are
// deliberately distinct.
func headerFloat(h http.Header, name string) *float64 {
	v := h.Get(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return nil
	}
	return &f
}
