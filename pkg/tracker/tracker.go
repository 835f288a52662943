package tracker

import (
	"sync"
	"sync/atomic"
)

// Tracker counts outcomes per channel (chat dispatch, speech synthesis).
// Served verbatim through the stats endpoint.
type Tracker struct {
	mu    sync.RWMutex
	stats map[string]*ChannelStats
}

// ChannelStats holds counters for one channel.
// Fields are accessed atomically.
type ChannelStats struct {
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
	Success  int64 `json:"success"`
	Failures int64 `json:"failures"`
}

// New creates a new Tracker.
func New() *Tracker {
	return &Tracker{
		stats: make(map[string]*ChannelStats),
	}
}

// getStats returns the stats object for a channel, creating it if needed.
func (t *Tracker) getStats(channel string) *ChannelStats {
	t.mu.RLock()
	s, ok := t.stats[channel]
	t.mu.RUnlock()
	if ok {
		return s
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// Double check
	if s, ok = t.stats[channel]; ok {
		return s
	}
	s = &ChannelStats{}
	t.stats[channel] = s
	return s
}

// TrackHit counts a query the channel could answer.
func (t *Tracker) TrackHit(channel string) {
	atomic.AddInt64(&t.getStats(channel).Hits, 1)
}

// TrackMiss counts a query that fell through to the fallback.
func (t *Tracker) TrackMiss(channel string) {
	atomic.AddInt64(&t.getStats(channel).Misses, 1)
}

func (t *Tracker) TrackSuccess(channel string) {
	atomic.AddInt64(&t.getStats(channel).Success, 1)
}

func (t *Tracker) TrackFailure(channel string) {
	atomic.AddInt64(&t.getStats(channel).Failures, 1)
}

// Snapshot returns a copy of the current stats.
func (t *Tracker) Snapshot() map[string]ChannelStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[string]ChannelStats)
	for k, v := range t.stats {
		result[k] = ChannelStats{
			Hits:     atomic.LoadInt64(&v.Hits),
			Misses:   atomic.LoadInt64(&v.Misses),
			Success:  atomic.LoadInt64(&v.Success),
			Failures: atomic.LoadInt64(&v.Failures),
		}
	}
	return result
}
