package api

import (
	"net/http"

	"atlasgo/pkg/tracker"
)

// StatsHandler exposes runtime counters for the diagnostics panel.
type StatsHandler struct {
	tracker *tracker.Tracker
	hub     *SessionHub
}

func NewStatsHandler(t *tracker.Tracker, hub *SessionHub) *StatsHandler {
	return &StatsHandler{tracker: t, hub: hub}
}

// ChannelStatsDTO mirrors one tracker channel plus a derived hit rate.
type ChannelStatsDTO struct {
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
	Success  int64 `json:"success"`
	Failures int64 `json:"failures"`
	HitRate  int64 `json:"hit_rate"`
}

// StatsResponse is the stats API payload.
type StatsResponse struct {
	ActiveSessions int                        `json:"active_sessions"`
	Channels       map[string]ChannelStatsDTO `json:"channels"`
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snapshot := h.tracker.Snapshot()

	resp := StatsResponse{
		ActiveSessions: h.hub.Len(),
		Channels:       make(map[string]ChannelStatsDTO, len(snapshot)),
	}
	for channel, stats := range snapshot {
		total := stats.Hits + stats.Misses
		hitRate := int64(0)
		if total > 0 {
			hitRate = (stats.Hits * 100) / total
		}
		resp.Channels[channel] = ChannelStatsDTO{
			Hits:     stats.Hits,
			Misses:   stats.Misses,
			Success:  stats.Success,
			Failures: stats.Failures,
			HitRate:  hitRate,
		}
	}

	writeJSON(w, resp)
}
