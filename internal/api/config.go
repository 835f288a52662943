package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"atlasgo/pkg/config"
)

// ConfigHandler handles configuration API requests. Updates are applied to
// the live config and persisted back to the config file.
type ConfigHandler struct {
	mu   sync.Mutex
	cfg  *config.Config
	path string
}

// NewConfigHandler creates a ConfigHandler. path may be empty, in which
// case updates are applied in memory only.
func NewConfigHandler(cfg *config.Config, path string) *ConfigHandler {
	return &ConfigHandler{cfg: cfg, path: path}
}

// ConfigResponse represents the config API response.
type ConfigResponse struct {
	DefaultLesson  string  `json:"default_lesson"`
	ContentDir     string  `json:"content_dir"`
	SpeechEnabled  bool    `json:"speech_enabled"`
	SpeechEngine   string  `json:"speech_engine"`
	SpeechLanguage string  `json:"speech_language"`
	SpeechRate     float64 `json:"speech_rate"`
	SpeechPitch    float64 `json:"speech_pitch"`
	SpeechVolume   float64 `json:"speech_volume"`
}

// ConfigRequest represents the config API request for updates. Pointers
// distinguish an explicit false or zero from a missing field.
type ConfigRequest struct {
	DefaultLesson *string  `json:"default_lesson,omitempty"`
	SpeechEnabled *bool    `json:"speech_enabled,omitempty"`
	SpeechRate    *float64 `json:"speech_rate,omitempty"`
	SpeechPitch   *float64 `json:"speech_pitch,omitempty"`
	SpeechVolume  *float64 `json:"speech_volume,omitempty"`
}

// HandleConfig is a unified handler for all config-related methods,
// facilitating CORS/OPTIONS.
func (h *ConfigHandler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPut, http.MethodPost:
		h.handleSet(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ConfigHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	resp := h.responseLocked()
	h.mu.Unlock()
	writeJSON(w, resp)
}

func (h *ConfigHandler) handleSet(w http.ResponseWriter, r *http.Request) {
	var req ConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if req.DefaultLesson != nil {
		h.cfg.Session.DefaultLesson = *req.DefaultLesson
	}
	if req.SpeechEnabled != nil {
		h.cfg.Speech.Enabled = *req.SpeechEnabled
	}
	if req.SpeechRate != nil {
		h.cfg.Speech.Rate = *req.SpeechRate
	}
	if req.SpeechPitch != nil {
		h.cfg.Speech.Pitch = *req.SpeechPitch
	}
	if req.SpeechVolume != nil {
		h.cfg.Speech.Volume = *req.SpeechVolume
	}

	if h.path != "" {
		if err := config.Save(h.path, h.cfg); err != nil {
			slog.Error("Failed to save config", "path", h.path, "error", err)
		}
	}

	writeJSON(w, h.responseLocked())
}

func (h *ConfigHandler) responseLocked() ConfigResponse {
	return ConfigResponse{
		DefaultLesson:  h.cfg.Session.DefaultLesson,
		ContentDir:     h.cfg.Content.Dir,
		SpeechEnabled:  h.cfg.Speech.Enabled,
		SpeechEngine:   h.cfg.Speech.Engine,
		SpeechLanguage: h.cfg.Speech.Language,
		SpeechRate:     h.cfg.Speech.Rate,
		SpeechPitch:    h.cfg.Speech.Pitch,
		SpeechVolume:   h.cfg.Speech.Volume,
	}
}
