package api

import (
	"net/http"
	"sync"
	"time"

	"atlasgo/pkg/apisession"
	"atlasgo/pkg/model"
	"atlasgo/pkg/session"
)

// sessionHeader carries the client-generated session UUID. A missing header
// maps every request onto one shared session, which is the normal case for
// the single-screen classroom setup.
const sessionHeader = "X-Session-ID"

// sessionState is the per-client state held in the TTL store: the view
// state manager plus the challenge question awaiting an answer, if any.
type sessionState struct {
	mu        sync.Mutex
	mgr       *session.Manager
	challenge *model.QuizQuestion
}

// SessionHub resolves HTTP requests to their session state.
type SessionHub struct {
	store *apisession.Store[sessionState]
}

// NewSessionHub creates a hub whose sessions start on the given lesson and
// are evicted after ttl of inactivity. Evicted sessions have their pending
// timers cancelled.
func NewSessionHub(defaultLesson string, ttl time.Duration) *SessionHub {
	store := apisession.New(ttl, func() *sessionState {
		return &sessionState{mgr: session.NewManager(defaultLesson)}
	})
	store.OnEvict(func(st *sessionState) {
		st.mgr.Close()
	})
	return &SessionHub{store: store}
}

// Resolve returns the state for the request's session, creating it on
// first sight.
func (h *SessionHub) Resolve(r *http.Request) *sessionState {
	id := r.Header.Get(sessionHeader)
	if id == "" {
		id = "local"
	}
	return h.store.Get(id)
}

// Len reports the number of live sessions.
func (h *SessionHub) Len() int {
	return h.store.Len()
}
