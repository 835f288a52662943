package speech

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"atlasgo/pkg/audio"
	"atlasgo/pkg/tracker"
)

const statsChannel = "speech"

var (
	errNoVoices       = errors.New("synthesizer reported no voices")
	errStaleUtterance = errors.New("utterance replaced before playback")
)

// Manager is the default Speaker: it serializes utterances through one
// synthesizer and one playback device.
type Manager struct {
	synth   Synthesizer
	player  audio.Service
	tracker *tracker.Tracker

	mu      sync.Mutex
	cancel  context.CancelFunc
	gen     uint64
	voiceID string
	clipDir string

	// playMu serializes the final hand-off to the player so a replaced
	// utterance can never start its clip after the replacement's.
	playMu sync.Mutex
}

// NewManager wires a synthesizer to a playback service. The tracker may
// be nil.
func NewManager(synth Synthesizer, player audio.Service, tr *tracker.Tracker) *Manager {
	return &Manager{
		synth:   synth,
		player:  player,
		tracker: tr,
		clipDir: os.TempDir(),
	}
}

// Speak replaces any in-flight utterance with the given text. Synthesis
// and playback run in the background; the call returns immediately.
func (m *Manager) Speak(ctx context.Context, text string, opts Options) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
	}
	// The utterance must outlive the HTTP request that triggered it.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.cancel = cancel
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	m.player.Stop()
	go m.run(runCtx, gen, text, opts)
}

// Cancel stops the in-flight utterance, if any.
func (m *Manager) Cancel() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.gen++
	m.mu.Unlock()
	m.player.Stop()
}

func (m *Manager) run(ctx context.Context, gen uint64, text string, opts Options) {
	voice, err := m.pickVoice(ctx, opts.Lang)
	if err != nil {
		slog.Warn("Speech: no voice available", "lang", opts.Lang, "error", err)
		m.trackFailure()
		return
	}

	path := filepath.Join(m.clipDir, "atlas-clip-"+uuid.New().String())
	format, err := m.synth.Synthesize(ctx, text, voice, path, opts)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("Speech: synthesis failed", "voice", voice, "error", err)
			m.trackFailure()
		}
		return
	}
	if format != "" && !strings.HasSuffix(path, "."+format) {
		path += "." + format
	}

	if err := m.startPlayback(ctx, gen, path, opts.Volume); err != nil {
		if err != errStaleUtterance {
			slog.Warn("Speech: playback failed", "path", path, "error", err)
			m.trackFailure()
		}
		os.Remove(path)
		return
	}
	m.trackSuccess()
}

// startPlayback hands the clip to the player unless this utterance has
// been replaced. The staleness check and the Play call share a critical
// section: a replacement bumps the generation before it can enter, so a
// stale clip either sees the bump and drops, or plays first and is then
// stopped by the replacement's own playback.
func (m *Manager) startPlayback(ctx context.Context, gen uint64, path string, volume float64) error {
	m.playMu.Lock()
	defer m.playMu.Unlock()

	m.mu.Lock()
	stale := ctx.Err() != nil || gen != m.gen
	m.mu.Unlock()
	if stale {
		return errStaleUtterance
	}

	if volume > 0 {
		m.player.SetVolume(volume)
	}
	return m.player.Play(path, nil)
}

// pickVoice resolves and caches the voice id for the configured language.
func (m *Manager) pickVoice(ctx context.Context, lang string) (string, error) {
	m.mu.Lock()
	cached := m.voiceID
	m.mu.Unlock()
	if cached != "" {
		return cached, nil
	}

	voices, err := m.synth.Voices(ctx)
	if err != nil {
		return "", err
	}
	voice, ok := PickVoice(voices, lang)
	if !ok {
		return "", errNoVoices
	}
	slog.Info("Speech: voice selected", "id", voice.ID, "language", voice.Language)

	m.mu.Lock()
	m.voiceID = voice.ID
	m.mu.Unlock()
	return voice.ID, nil
}

func (m *Manager) trackSuccess() {
	if m.tracker != nil {
		m.tracker.TrackSuccess(statsChannel)
	}
}

func (m *Manager) trackFailure() {
	if m.tracker != nil {
		m.tracker.TrackFailure(statsChannel)
	}
}
