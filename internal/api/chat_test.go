package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlasgo/pkg/camera"
)

func TestHandleChatPlaceReply(t *testing.T) {
	env := newTestEnv(t)

	var resp ChatResponse
	w := postJSON(t, env.chat.HandleChat, "/api/chat", ChatRequest{Text: "فين نهر النيل؟"}, &resp)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "nile", resp.Reply.FlyToPlaceID)
	assert.NotNil(t, resp.Reply.Question)
	assert.Contains(t, resp.State.Session.HighlightIDs, "nile")
	assert.Equal(t, camera.KindFlyTo, resp.State.Camera.Kind)
	assert.Equal(t, 6, resp.State.Session.XP)

	// The spoken text is the flattened answer, not the chat bubble.
	require.Len(t, env.recorder.Spoken(), 1)
	assert.Equal(t, resp.Reply.SpeakText, env.recorder.Spoken()[0])

	stats := env.tracker.Snapshot()["chat"]
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(0), stats.Misses)
}

func TestHandleChatFallbackTracksMiss(t *testing.T) {
	env := newTestEnv(t)

	var resp ChatResponse
	w := postJSON(t, env.chat.HandleChat, "/api/chat", ChatRequest{Text: "كلام ملوش علاقة بالخريطه خالص"}, &resp)
	require.Equal(t, http.StatusOK, w.Code)

	assert.True(t, resp.Reply.Fallback())
	stats := env.tracker.Snapshot()["chat"]
	assert.Equal(t, int64(0), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestHandleChatRejectsEmptyText(t *testing.T) {
	env := newTestEnv(t)

	w := postJSON(t, env.chat.HandleChat, "/api/chat", ChatRequest{}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty text, got %d", w.Code)
	}
}

func TestHandleChatSpeechDisabled(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Speech.Enabled = false

	var resp ChatResponse
	w := postJSON(t, env.chat.HandleChat, "/api/chat", ChatRequest{Text: "فين نهر النيل؟"}, &resp)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.recorder.Spoken())
}

func TestHandleSpeechStop(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/speech/stop", nil)
	w := httptest.NewRecorder()
	env.chat.HandleSpeechStop(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, env.recorder.Canceled())
}
