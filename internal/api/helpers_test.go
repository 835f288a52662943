package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"atlasgo/pkg/config"
	"atlasgo/pkg/content"
	"atlasgo/pkg/speech"
	"atlasgo/pkg/tracker"
	"atlasgo/pkg/tutor"
)

// testEnv wires the handlers against the embedded content library, a
// speech recorder, and a fresh tracker.
type testEnv struct {
	lib       *content.Library
	hub       *SessionHub
	tracker   *tracker.Tracker
	recorder  *speech.Recorder
	cfg       *config.Config
	lessons   *LessonsHandler
	chat      *ChatHandler
	state     *StateHandler
	challenge *ChallengeHandler
	stats     *StatsHandler
	config    *ConfigHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	lib, err := content.Load("")
	if err != nil {
		t.Fatalf("content.Load: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Speech.Enabled = true
	engine := tutor.NewEngine(lib)
	hub := NewSessionHub(cfg.Session.DefaultLesson, time.Duration(cfg.Session.TTL))
	tr := tracker.New()
	rec := &speech.Recorder{}

	return &testEnv{
		lib:       lib,
		hub:       hub,
		tracker:   tr,
		recorder:  rec,
		cfg:       cfg,
		lessons:   NewLessonsHandler(lib, engine),
		chat:      NewChatHandler(engine, hub, lib, rec, &cfg.Speech, tr),
		state:     NewStateHandler(hub, lib),
		challenge: NewChallengeHandler(engine, hub, lib),
		stats:     NewStatsHandler(tr, hub),
		config:    NewConfigHandler(cfg, ""),
	}
}

// postJSON runs a JSON POST through the given handler and decodes the
// response into out when it is non-nil.
func postJSON(t *testing.T, handler http.HandlerFunc, path string, body, out any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)

	if out != nil && w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func getJSON(t *testing.T, handler http.HandlerFunc, path string, out any) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	handler(w, req)

	if out != nil && w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return w
}
