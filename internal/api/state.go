package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"atlasgo/pkg/content"
)

// StateHandler serves and mutates the per-session view state.
type StateHandler struct {
	hub *SessionHub
	lib *content.Library
}

func NewStateHandler(hub *SessionHub, lib *content.Library) *StateHandler {
	return &StateHandler{hub: hub, lib: lib}
}

// HandleState returns the current snapshot and camera command.
func (h *StateHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	st := h.hub.Resolve(r)
	st.mu.Lock()
	snap := st.mgr.Snapshot()
	st.mu.Unlock()
	writeJSON(w, stateResponse(snap, h.lib))
}

// PlaceSelectRequest is a marker tap. An empty place id closes the active
// selection.
type PlaceSelectRequest struct {
	PlaceID string `json:"placeId"`
}

// HandlePlaceSelect records a marker tap or selection close.
func (h *StateHandler) HandlePlaceSelect(w http.ResponseWriter, r *http.Request) {
	var req PlaceSelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	st := h.hub.Resolve(r)
	st.mu.Lock()
	defer st.mu.Unlock()

	if req.PlaceID == "" {
		st.mgr.ClosePlace()
		writeJSON(w, stateResponse(st.mgr.Snapshot(), h.lib))
		return
	}

	lesson := h.lib.Lesson(st.mgr.LessonID())
	if lesson == nil {
		http.Error(w, "session lesson missing", http.StatusInternalServerError)
		return
	}
	if lesson.Place(req.PlaceID) == nil {
		http.Error(w, "unknown place", http.StatusNotFound)
		return
	}

	st.mgr.SelectPlace(lesson, req.PlaceID)
	writeJSON(w, stateResponse(st.mgr.Snapshot(), h.lib))
}

// LessonSwitchRequest selects the session's lesson.
type LessonSwitchRequest struct {
	LessonID string `json:"lessonId"`
}

// HandleLessonSwitch switches the session to another lesson, resetting the
// transient view state and dropping any pending challenge.
func (h *StateHandler) HandleLessonSwitch(w http.ResponseWriter, r *http.Request) {
	var req LessonSwitchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if h.lib.Lesson(req.LessonID) == nil {
		http.Error(w, "unknown lesson", http.StatusNotFound)
		return
	}

	st := h.hub.Resolve(r)
	st.mu.Lock()
	defer st.mu.Unlock()

	st.mgr.SetLesson(req.LessonID)
	st.challenge = nil
	slog.Info("Lesson switched", "lesson", req.LessonID)
	writeJSON(w, stateResponse(st.mgr.Snapshot(), h.lib))
}

// HandleReset restarts the session on its current lesson.
func (h *StateHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	st := h.hub.Resolve(r)
	st.mu.Lock()
	defer st.mu.Unlock()

	st.mgr.Reset()
	st.challenge = nil
	writeJSON(w, stateResponse(st.mgr.Snapshot(), h.lib))
}
