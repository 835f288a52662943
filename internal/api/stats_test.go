package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsHandler(t *testing.T) {
	env := newTestEnv(t)

	env.tracker.TrackHit("chat")
	env.tracker.TrackHit("chat")
	env.tracker.TrackMiss("chat")
	env.tracker.TrackSuccess("speech")

	// Touch one session so the count is non-zero.
	getJSON(t, env.state.HandleState, "/api/state", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()
	env.stats.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp StatsResponse
	decodeBody(t, w, &resp)

	assert.Equal(t, 1, resp.ActiveSessions)
	chat := resp.Channels["chat"]
	assert.Equal(t, int64(2), chat.Hits)
	assert.Equal(t, int64(1), chat.Misses)
	assert.Equal(t, int64(66), chat.HitRate)
	assert.Equal(t, int64(1), resp.Channels["speech"].Success)
}
