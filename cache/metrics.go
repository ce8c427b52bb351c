package cache

import "time"

// MissState names why a request missed the cache (spec.md §4.5 "Metrics").
type MissState string

const (
	UncachableRequest  MissState = "uncachable_request"
	UncachableResponse MissState = "uncachable_response"
	Cached             MissState = "cached"
)

// Recorder receives cache hit/miss observations. A nil Recorder on
// Middleware disables metrics entirely (spec.md §4.5 calls metrics
// "optional").
type Recorder interface {
	Miss(client string, state MissState, method, path string, status int)
	Hit(client, method, path string, status int, latency time.Duration)
}

// noopRecorder discards every observation.
type noopRecorder struct{}

func (noopRecorder) Miss(string, MissState, string, string, int)    {}
func (noopRecorder) Hit(string, string, string, int, time.Duration) {}
