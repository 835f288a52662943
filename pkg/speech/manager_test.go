package speech

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlasgo/pkg/tracker"
)

type fakeSynth struct {
	voices []Voice
	err    error
	block  chan struct{}

	mu    sync.Mutex
	calls []string
}

func (f *fakeSynth) Synthesize(ctx context.Context, text, voice, outputPath string, _ Options) (string, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	if err := os.WriteFile(outputPath+".mp3", []byte("clip"), 0o644); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()
	return "mp3", nil
}

func (f *fakeSynth) Voices(context.Context) ([]Voice, error) {
	if f.voices == nil {
		return []Voice{{ID: "ar-EG-SalmaNeural", Language: "ar-EG"}}, nil
	}
	return f.voices, nil
}

type fakePlayer struct {
	mu     sync.Mutex
	paths  []string
	stops  int
	played chan string
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{played: make(chan string, 4)}
}

func (p *fakePlayer) Play(path string, onComplete func()) error {
	p.mu.Lock()
	p.paths = append(p.paths, path)
	p.mu.Unlock()
	p.played <- path
	if onComplete != nil {
		onComplete()
	}
	return nil
}

func (p *fakePlayer) Stop() {
	p.mu.Lock()
	p.stops++
	p.mu.Unlock()
}

func (p *fakePlayer) Shutdown()         {}
func (p *fakePlayer) IsPlaying() bool   { return false }
func (p *fakePlayer) SetVolume(float64) {}
func (p *fakePlayer) Volume() float64   { return 1 }

func waitForClip(t *testing.T, p *fakePlayer) string {
	t.Helper()
	select {
	case path := <-p.played:
		return path
	case <-time.After(2 * time.Second):
		t.Fatal("no clip played")
		return ""
	}
}

func TestManagerSpeakPlaysClip(t *testing.T) {
	synth := &fakeSynth{}
	player := newFakePlayer()
	tr := tracker.New()
	m := NewManager(synth, player, tr)
	m.clipDir = t.TempDir()

	m.Speak(context.Background(), "أهلا بيك", DefaultOptions())

	path := waitForClip(t, player)
	assert.True(t, strings.HasSuffix(path, ".mp3"))
	assert.Eventually(t, func() bool {
		return tr.Snapshot()[statsChannel].Success == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestManagerSwallowsSynthesisErrors(t *testing.T) {
	synth := &fakeSynth{err: errors.New("handshake refused")}
	player := newFakePlayer()
	tr := tracker.New()
	m := NewManager(synth, player, tr)
	m.clipDir = t.TempDir()

	// Must not panic or surface the error.
	m.Speak(context.Background(), "اختبار", DefaultOptions())

	require.Eventually(t, func() bool {
		return tr.Snapshot()[statsChannel].Failures == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Empty(t, player.paths)
}

func TestManagerCancelReplacesInFlight(t *testing.T) {
	synth := &fakeSynth{block: make(chan struct{})}
	player := newFakePlayer()
	m := NewManager(synth, player, tracker.New())
	m.clipDir = t.TempDir()

	m.Speak(context.Background(), "أول جملة", DefaultOptions())
	m.Cancel()
	close(synth.block)

	// The canceled utterance never reaches the player.
	select {
	case path := <-player.played:
		t.Fatalf("canceled clip played: %s", path)
	case <-time.After(200 * time.Millisecond):
	}

	player.mu.Lock()
	stops := player.stops
	player.mu.Unlock()
	assert.GreaterOrEqual(t, stops, 1)
}

func TestStartPlaybackDropsReplacedUtterance(t *testing.T) {
	player := newFakePlayer()
	m := NewManager(&fakeSynth{}, player, tracker.New())
	m.clipDir = t.TempDir()

	// A replacement bumps the generation after this utterance's context
	// check could already have passed; the play hand-off must still drop
	// the stale clip.
	m.mu.Lock()
	m.gen = 2
	m.mu.Unlock()

	err := m.startPlayback(context.Background(), 1, "stale.mp3", 1)
	assert.Equal(t, errStaleUtterance, err)
	assert.Empty(t, player.paths)

	require.NoError(t, m.startPlayback(context.Background(), 2, "fresh.mp3", 1))
	assert.Equal(t, []string{"fresh.mp3"}, player.paths)
}

func TestManagerSpeakIgnoresEmptyText(t *testing.T) {
	synth := &fakeSynth{}
	player := newFakePlayer()
	m := NewManager(synth, player, nil)

	m.Speak(context.Background(), "   ", DefaultOptions())

	select {
	case <-player.played:
		t.Fatal("empty text should not synthesize")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPickVoice(t *testing.T) {
	voices := []Voice{
		{ID: "en", Language: "en-US"},
		{ID: "ar-sa", Language: "ar-SA"},
		{ID: "ar-eg", Language: "ar-EG"},
	}

	v, ok := PickVoice(voices, "ar-EG")
	require.True(t, ok)
	assert.Equal(t, "ar-eg", v.ID)

	v, ok = PickVoice(voices[:2], "ar-EG")
	require.True(t, ok)
	assert.Equal(t, "ar-sa", v.ID, "same primary language wins over the first entry")

	v, ok = PickVoice(voices[:1], "ar-EG")
	require.True(t, ok)
	assert.Equal(t, "en", v.ID, "anything beats silence")

	_, ok = PickVoice(nil, "ar-EG")
	assert.False(t, ok)
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Speak(context.Background(), "مرحبا", DefaultOptions())
	r.Cancel()

	assert.Equal(t, []string{"مرحبا"}, r.Spoken())
	assert.Equal(t, 1, r.Canceled())
}
