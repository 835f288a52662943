package api

import (
	"encoding/json"
	"net/http"

	"atlasgo/pkg/content"
	"atlasgo/pkg/tutor"
)

// ChallengeHandler runs the "challenge me" quiz flow. Starting a challenge
// arms the session; the answer arrives either through /api/challenge/answer
// or as the next chat utterance.
type ChallengeHandler struct {
	engine *tutor.Engine
	hub    *SessionHub
	lib    *content.Library
}

func NewChallengeHandler(engine *tutor.Engine, hub *SessionHub, lib *content.Library) *ChallengeHandler {
	return &ChallengeHandler{engine: engine, hub: hub, lib: lib}
}

// ChallengeStartResponse carries the posed question. Only the prompt and
// difficulty are exposed; answer text stays server-side until solved.
type ChallengeStartResponse struct {
	QuestionID string `json:"questionId"`
	Prompt     string `json:"prompt"`
	Difficulty int    `json:"difficulty"`
}

// HandleStart picks a random question from the session's lesson bank.
func (h *ChallengeHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	st := h.hub.Resolve(r)
	st.mu.Lock()
	defer st.mu.Unlock()

	q := h.engine.StartChallenge(st.mgr.LessonID())
	if q == nil {
		http.Error(w, "lesson has no question bank", http.StatusNotFound)
		return
	}
	st.challenge = q
	writeJSON(w, ChallengeStartResponse{
		QuestionID: q.ID,
		Prompt:     q.Prompt,
		Difficulty: q.Difficulty,
	})
}

// ChallengeAnswerRequest is the child's attempt at the armed question.
type ChallengeAnswerRequest struct {
	Text string `json:"text"`
}

// ChallengeAnswerResponse reports the verdict plus the follow-up reply and
// updated view state.
type ChallengeAnswerResponse struct {
	Correct bool          `json:"correct"`
	Reply   tutor.Reply   `json:"reply"`
	State   StateResponse `json:"state"`
}

// HandleAnswer grades the attempt. A wrong answer keeps the challenge
// armed for another try.
func (h *ChallengeHandler) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	var req ChallengeAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	st := h.hub.Resolve(r)
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.challenge == nil {
		http.Error(w, "no active challenge", http.StatusConflict)
		return
	}
	lesson := h.lib.Lesson(st.mgr.LessonID())
	if lesson == nil {
		http.Error(w, "session lesson missing", http.StatusInternalServerError)
		return
	}

	reply, correct := h.engine.ChallengeVerdict(st.mgr, lesson, st.challenge, req.Text)
	if correct {
		st.challenge = nil
	}
	writeJSON(w, ChallengeAnswerResponse{
		Correct: correct,
		Reply:   reply,
		State:   stateResponse(st.mgr.Snapshot(), h.lib),
	})
}
