package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigGet(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	w := httptest.NewRecorder()
	env.config.HandleConfig(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ConfigResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "water", resp.DefaultLesson)
	assert.Equal(t, "edge-tts", resp.SpeechEngine)
	assert.Equal(t, "ar-EG", resp.SpeechLanguage)
	assert.InDelta(t, 1.02, resp.SpeechRate, 0.001)
}

func TestConfigUpdate(t *testing.T) {
	env := newTestEnv(t)

	body := `{"speech_enabled": false, "speech_volume": 0.5}`
	req := httptest.NewRequest(http.MethodPost, "/api/config", strings.NewReader(body))
	w := httptest.NewRecorder()
	env.config.HandleConfig(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ConfigResponse
	decodeBody(t, w, &resp)
	assert.False(t, resp.SpeechEnabled)
	assert.InDelta(t, 0.5, resp.SpeechVolume, 0.001)

	// The live config used by the chat handler sees the update.
	assert.False(t, env.cfg.Speech.Enabled)
	assert.InDelta(t, 0.5, env.cfg.Speech.Volume, 0.001)
}

func TestConfigRejectsBadJSON(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/config", bytes.NewReader([]byte("{")))
	w := httptest.NewRecorder()
	env.config.HandleConfig(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfigOptions(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/config", nil)
	w := httptest.NewRecorder()
	env.config.HandleConfig(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
