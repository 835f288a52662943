// Package session owns the per-client navigation/view state of an active
// lesson: selected place, highlights, draw overlays, layer flags,
// discovered places and XP. All mutation goes through Apply so the
// transition rules live in one place and are testable without a map.
package session

import (
	"sync"
	"time"

	"atlasgo/pkg/model"
)

// Expiry delays for the ephemeral view state. A new highlight or draw
// action cancels the previous pending clear before scheduling its own.
const (
	HighlightExpiry = 5200 * time.Millisecond
	DrawExpiry      = 9 * time.Second

	keyHighlightExpiry = "highlight-expiry"
	keyDrawExpiry      = "draw-expiry"
)

// XP rewards.
const (
	xpTapPlace  = 8 // direct marker tap
	xpChatPlace = 6 // place reached through matched free text
	xpDrawBonus = 5 // an action that drew overlays
	xpPerLevel  = 2 // multiplied by question difficulty
)

// Trigger says what caused an action to be applied.
type Trigger int

const (
	// TriggerTap is a direct marker/button tap carrying a place id.
	TriggerTap Trigger = iota
	// TriggerChat is a matched free-text utterance.
	TriggerChat
)

// ApplyOptions qualifies an Apply call.
type ApplyOptions struct {
	Trigger Trigger
	// Difficulty of the quiz question that drove the action, 0 if none.
	Difficulty int
}

// Manager guards one session's view state. Safe for concurrent use.
type Manager struct {
	mu         sync.Mutex
	lessonID   string
	active     string
	highlights []string
	draw       []model.DrawAction
	layers     model.Layers
	discovered map[string]bool
	badges     []string
	badgeSeen  map[string]bool
	xp         int
	focusToken uint64
	sched      *scheduler

	// Generations guard against a fired-but-not-yet-run expiry applying a
	// stale clear after newer state was set under the same key.
	highlightGen uint64
	drawGen      uint64
}

// NewManager creates a session bound to the given lesson.
func NewManager(lessonID string) *Manager {
	return &Manager{
		lessonID:   lessonID,
		layers:     model.DefaultLayers(),
		discovered: make(map[string]bool),
		badgeSeen:  make(map[string]bool),
		sched:      newScheduler(),
	}
}

// LessonID returns the lesson this session is exploring.
func (m *Manager) LessonID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lessonID
}

// SetLesson switches the session to another lesson, resetting all state.
// A no-op if the lesson is already active.
func (m *Manager) SetLesson(lessonID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lessonID == lessonID {
		return
	}
	m.resetLocked(lessonID)
}

// Reset clears the session back to a fresh state for the current lesson.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked(m.lessonID)
}

func (m *Manager) resetLocked(lessonID string) {
	m.sched.CancelAll()
	m.lessonID = lessonID
	m.active = ""
	m.highlights = nil
	m.draw = nil
	m.layers = model.DefaultLayers()
	m.discovered = make(map[string]bool)
	m.badges = nil
	m.badgeSeen = make(map[string]bool)
	m.xp = 0
	m.focusToken = 0
	m.highlightGen++
	m.drawGen++
}

// SelectPlace applies a raw place-id selection (marker tap).
func (m *Manager) SelectPlace(lesson *model.Lesson, placeID string) {
	m.Apply(lesson, &model.AnswerAction{FlyToPlaceID: placeID}, ApplyOptions{Trigger: TriggerTap})
}

// ClosePlace drops the active selection without touching anything else.
func (m *Manager) ClosePlace() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = ""
}

// AwardBadge records a badge once; repeats are ignored.
func (m *Manager) AwardBadge(badge string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if badge == "" || m.badgeSeen[badge] {
		return
	}
	m.badgeSeen[badge] = true
	m.badges = append(m.badges, badge)
}

// Apply interprets an answer action against the lesson and mutates the
// view state per the transition rules. Place ids that don't exist in the
// lesson are skipped silently; the caller still surfaces its textual
// answer.
func (m *Manager) Apply(lesson *model.Lesson, action *model.AnswerAction, opts ApplyOptions) {
	if action == nil {
		action = &model.AnswerAction{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Resolve the navigation target: explicit fly-to, else the first
	// highlight. Unknown ids degrade to "no target".
	target := action.FlyToPlaceID
	if target != "" && lesson.Place(target) == nil {
		target = ""
	}
	if target == "" {
		for _, id := range action.HighlightPlaceIDs {
			if lesson.Place(id) != nil {
				target = id
				break
			}
		}
	}

	// Layers: explicit patch merges shallowly; otherwise a targeted place
	// forces labels on.
	if action.SetLayers != nil {
		action.SetLayers.Apply(&m.layers)
	} else if target != "" {
		m.layers.ShowLabels = true
	}

	if target != "" {
		m.active = target
		m.discovered[target] = true
		if opts.Trigger == TriggerTap {
			m.xp += xpTapPlace
		} else {
			m.xp += xpChatPlace
		}
		// Bump even when the target id is unchanged so the camera
		// re-frames on repeat selections.
		m.focusToken++
	}

	// Highlights: explicit list is verbatim and persistent; a bare target
	// highlights itself with an auto-clear.
	m.sched.Cancel(keyHighlightExpiry)
	m.highlightGen++
	if len(action.HighlightPlaceIDs) > 0 {
		valid := make([]string, 0, len(action.HighlightPlaceIDs))
		for _, id := range action.HighlightPlaceIDs {
			if lesson.Place(id) != nil {
				valid = append(valid, id)
			}
		}
		m.highlights = valid
	} else if target != "" {
		m.highlights = []string{target}
		gen := m.highlightGen
		m.sched.Schedule(keyHighlightExpiry, HighlightExpiry, func() {
			m.mu.Lock()
			if m.highlightGen == gen {
				m.highlights = nil
			}
			m.mu.Unlock()
		})
	} else {
		m.highlights = nil
	}

	// Draw overlays replace wholesale and expire together.
	m.sched.Cancel(keyDrawExpiry)
	m.drawGen++
	if len(action.Draw) > 0 {
		m.draw = append([]model.DrawAction(nil), action.Draw...)
		m.xp += xpDrawBonus
		gen := m.drawGen
		m.sched.Schedule(keyDrawExpiry, DrawExpiry, func() {
			m.mu.Lock()
			if m.drawGen == gen {
				m.draw = nil
			}
			m.mu.Unlock()
		})
	}

	if opts.Difficulty > 0 {
		m.xp += opts.Difficulty * xpPerLevel
	}
}

// Close cancels all pending timers. The manager must not be used after.
func (m *Manager) Close() {
	m.sched.CancelAll()
}

// Snapshot is an immutable copy of the view state for rendering.
type Snapshot struct {
	LessonID      string             `json:"lessonId"`
	ActivePlaceID string             `json:"activePlaceId,omitempty"`
	HighlightIDs  []string           `json:"highlightIds,omitempty"`
	Draw          []model.DrawAction `json:"draw,omitempty"`
	Layers        model.Layers       `json:"layers"`
	Discovered    []string           `json:"discovered,omitempty"`
	Badges        []string           `json:"badges,omitempty"`
	XP            int                `json:"xp"`
	FocusToken    uint64             `json:"focusToken"`
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		LessonID:      m.lessonID,
		ActivePlaceID: m.active,
		Layers:        m.layers,
		XP:            m.xp,
		FocusToken:    m.focusToken,
	}
	snap.HighlightIDs = append(snap.HighlightIDs, m.highlights...)
	snap.Draw = append(snap.Draw, m.draw...)
	snap.Badges = append(snap.Badges, m.badges...)
	for id := range m.discovered {
		snap.Discovered = append(snap.Discovered, id)
	}
	return snap
}

// PendingExpiries reports how many auto-clear timers are outstanding.
func (m *Manager) PendingExpiries() int {
	return m.sched.PendingCount()
}
