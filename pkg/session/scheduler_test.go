package session

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedulerFires(t *testing.T) {
	s := newScheduler()
	done := make(chan struct{})

	s.Schedule("k", 10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduled task never fired")
	}
	if s.PendingCount() != 0 {
		t.Errorf("fired task should leave the pending map, count=%d", s.PendingCount())
	}
}

func TestSchedulerSameKeyReplaces(t *testing.T) {
	s := newScheduler()
	var first, second atomic.Bool

	s.Schedule("k", 30*time.Millisecond, func() { first.Store(true) })
	s.Schedule("k", 10*time.Millisecond, func() { second.Store(true) })

	if s.PendingCount() != 1 {
		t.Fatalf("same key must replace, count=%d", s.PendingCount())
	}

	time.Sleep(80 * time.Millisecond)
	if first.Load() {
		t.Error("replaced task must never fire")
	}
	if !second.Load() {
		t.Error("replacement task should have fired")
	}
}

func TestSchedulerDistinctKeys(t *testing.T) {
	s := newScheduler()
	fired := make(chan string, 2)

	s.Schedule("highlight-expiry", 10*time.Millisecond, func() { fired <- "highlight" })
	s.Schedule("draw-expiry", 10*time.Millisecond, func() { fired <- "draw" })

	if s.PendingCount() != 2 {
		t.Fatalf("distinct keys must coexist, count=%d", s.PendingCount())
	}

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case k := <-fired:
			seen[k] = true
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for tasks")
		}
	}
	if !seen["highlight"] || !seen["draw"] {
		t.Errorf("both tasks should fire, got %v", seen)
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := newScheduler()
	var fired atomic.Bool

	s.Schedule("k", 15*time.Millisecond, func() { fired.Store(true) })
	s.Cancel("k")

	time.Sleep(50 * time.Millisecond)
	if fired.Load() {
		t.Error("canceled task must not fire")
	}
	if s.PendingCount() != 0 {
		t.Errorf("cancel should clear pending, count=%d", s.PendingCount())
	}
}

func TestSchedulerCancelAll(t *testing.T) {
	s := newScheduler()
	var n atomic.Int32

	s.Schedule("a", 15*time.Millisecond, func() { n.Add(1) })
	s.Schedule("b", 15*time.Millisecond, func() { n.Add(1) })
	s.CancelAll()

	time.Sleep(50 * time.Millisecond)
	if n.Load() != 0 {
		t.Errorf("no task should fire after CancelAll, fired=%d", n.Load())
	}
}
