package speech

import (
	"context"
	"sync"
)

// Noop is a Speaker that stays silent. Used when the voice channel is
// disabled or misconfigured.
type Noop struct{}

func (Noop) Speak(context.Context, string, Options) {}
func (Noop) Cancel()                                {}

// Recorder is a Speaker for tests: it remembers what it was asked to say.
type Recorder struct {
	mu       sync.Mutex
	spoken   []string
	canceled int
}

func (r *Recorder) Speak(_ context.Context, text string, _ Options) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spoken = append(r.spoken, text)
}

func (r *Recorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.canceled++
}

// Spoken returns the utterances seen so far.
func (r *Recorder) Spoken() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.spoken...)
}

// Canceled returns how many times Cancel was called.
func (r *Recorder) Canceled() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canceled
}
