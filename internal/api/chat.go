package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"atlasgo/pkg/camera"
	"atlasgo/pkg/config"
	"atlasgo/pkg/content"
	"atlasgo/pkg/session"
	"atlasgo/pkg/speech"
	"atlasgo/pkg/tracker"
	"atlasgo/pkg/tutor"
)

// chatChannel is the tracker channel counting chat match quality.
const chatChannel = "chat"

// StateResponse is the view state plus the camera command derived from it.
// Returned by every endpoint that mutates the session so the frontend can
// re-render declaratively.
type StateResponse struct {
	Session session.Snapshot `json:"session"`
	Camera  camera.Command   `json:"camera"`
}

// ChatHandler runs utterances through the tutor and speaks the replies.
type ChatHandler struct {
	engine    *tutor.Engine
	hub       *SessionHub
	lib       *content.Library
	speaker   speech.Speaker
	speechCfg *config.SpeechConfig
	tracker   *tracker.Tracker
}

func NewChatHandler(engine *tutor.Engine, hub *SessionHub, lib *content.Library, speaker speech.Speaker, speechCfg *config.SpeechConfig, tr *tracker.Tracker) *ChatHandler {
	return &ChatHandler{
		engine:    engine,
		hub:       hub,
		lib:       lib,
		speaker:   speaker,
		speechCfg: speechCfg,
		tracker:   tr,
	}
}

// ChatRequest is one utterance from the chat box.
type ChatRequest struct {
	Text string `json:"text"`
}

// ChatResponse pairs the tutor's reply with the updated view state.
type ChatResponse struct {
	Reply tutor.Reply   `json:"reply"`
	State StateResponse `json:"state"`
}

// HandleChat dispatches one utterance for the request's session.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "empty text", http.StatusBadRequest)
		return
	}

	st := h.hub.Resolve(r)
	st.mu.Lock()
	defer st.mu.Unlock()

	lesson := h.lib.Lesson(st.mgr.LessonID())
	if lesson == nil {
		http.Error(w, "session lesson missing", http.StatusInternalServerError)
		return
	}

	var reply tutor.Reply
	if st.challenge != nil {
		q := st.challenge
		var correct bool
		reply, correct = h.engine.ChallengeVerdict(st.mgr, lesson, q, req.Text)
		if correct {
			st.challenge = nil
		}
		slog.Debug("Challenge answer", "lesson", lesson.ID, "question", q.ID, "correct", correct)
	} else {
		reply = h.engine.Respond(st.mgr, lesson, req.Text)
		if reply.Fallback() {
			h.tracker.TrackMiss(chatChannel)
		} else {
			h.tracker.TrackHit(chatChannel)
		}
	}

	if reply.SpeakText != "" && h.speechCfg.Enabled {
		h.speaker.Speak(r.Context(), reply.SpeakText, speech.Options{
			Lang:   h.speechCfg.Language,
			Rate:   h.speechCfg.Rate,
			Pitch:  h.speechCfg.Pitch,
			Volume: h.speechCfg.Volume,
		})
	}

	writeJSON(w, ChatResponse{
		Reply: reply,
		State: stateResponse(st.mgr.Snapshot(), h.lib),
	})
}

// HandleSpeechStop cancels the current utterance.
func (h *ChatHandler) HandleSpeechStop(w http.ResponseWriter, r *http.Request) {
	h.speaker.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

func stateResponse(snap session.Snapshot, lib *content.Library) StateResponse {
	resp := StateResponse{Session: snap}
	if lesson := lib.Lesson(snap.LessonID); lesson != nil {
		resp.Camera = camera.Plan(snap, lesson)
	} else {
		resp.Camera = camera.Command{Kind: camera.KindNone}
	}
	return resp
}
