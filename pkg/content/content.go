// Package content loads and validates the authored lesson library: the
// built-in lessons ship embedded in the binary, and a content directory
// from config can override them. Everything is read-only after Load.
package content

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"atlasgo/pkg/model"
)

//go:embed data/lessons/*.yaml data/questions.yaml
var builtinFS embed.FS

// Library is the validated, immutable content store.
type Library struct {
	lessons []model.Lesson
	byID    map[string]*model.Lesson
	bank    map[string][]model.QuizQuestion
}

// Load builds the library from the embedded content. If dir is non-empty,
// lesson and question files are read from that directory instead
// (dir/lessons/*.yaml and dir/questions.yaml).
func Load(dir string) (*Library, error) {
	var (
		lessonDocs [][]byte
		questions  []byte
		err        error
	)
	if dir != "" {
		lessonDocs, questions, err = readDir(dir)
	} else {
		lessonDocs, questions, err = readEmbedded()
	}
	if err != nil {
		return nil, err
	}

	lib := &Library{
		byID: make(map[string]*model.Lesson),
		bank: make(map[string][]model.QuizQuestion),
	}

	seen := make(map[string]bool)
	for _, doc := range lessonDocs {
		var lesson model.Lesson
		if err := yaml.Unmarshal(doc, &lesson); err != nil {
			return nil, fmt.Errorf("failed to parse lesson: %w", err)
		}
		if err := validateLesson(&lesson); err != nil {
			return nil, err
		}
		if seen[lesson.ID] {
			return nil, fmt.Errorf("duplicate lesson id %q", lesson.ID)
		}
		seen[lesson.ID] = true
		lib.lessons = append(lib.lessons, lesson)
	}
	// Stable order regardless of file enumeration.
	sort.Slice(lib.lessons, func(i, j int) bool { return lib.lessons[i].ID < lib.lessons[j].ID })
	for i := range lib.lessons {
		lib.byID[lib.lessons[i].ID] = &lib.lessons[i]
	}
	if len(lib.lessons) == 0 {
		return nil, fmt.Errorf("no lessons found")
	}

	var bank []model.QuizQuestion
	if err := yaml.Unmarshal(questions, &bank); err != nil {
		return nil, fmt.Errorf("failed to parse question bank: %w", err)
	}
	if err := lib.validateBank(bank); err != nil {
		return nil, err
	}
	for _, q := range bank {
		lib.bank[q.LessonID] = append(lib.bank[q.LessonID], q)
	}

	return lib, nil
}

func readEmbedded() ([][]byte, []byte, error) {
	var docs [][]byte
	entries, err := fs.ReadDir(builtinFS, "data/lessons")
	if err != nil {
		return nil, nil, fmt.Errorf("embedded lessons missing: %w", err)
	}
	for _, e := range entries {
		data, err := builtinFS.ReadFile("data/lessons/" + e.Name())
		if err != nil {
			return nil, nil, err
		}
		docs = append(docs, data)
	}
	questions, err := builtinFS.ReadFile("data/questions.yaml")
	if err != nil {
		return nil, nil, fmt.Errorf("embedded question bank missing: %w", err)
	}
	return docs, questions, nil
}

func readDir(dir string) ([][]byte, []byte, error) {
	pattern := filepath.Join(dir, "lessons", "*.yaml")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, nil, err
	}
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("no lesson files match %s", pattern)
	}
	sort.Strings(paths)

	var docs [][]byte
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		docs = append(docs, data)
	}

	questions, err := os.ReadFile(filepath.Join(dir, "questions.yaml"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read question bank: %w", err)
	}
	return docs, questions, nil
}

func validateLesson(l *model.Lesson) error {
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("lesson with empty id (title %q)", l.Title)
	}
	if strings.TrimSpace(l.Title) == "" {
		return fmt.Errorf("lesson %q has no title", l.ID)
	}

	seen := make(map[string]bool, len(l.Places))
	for i := range l.Places {
		p := &l.Places[i]
		if p.ID == "" {
			return fmt.Errorf("lesson %q: place %d has no id", l.ID, i)
		}
		if seen[p.ID] {
			return fmt.Errorf("lesson %q: duplicate place id %q", l.ID, p.ID)
		}
		seen[p.ID] = true
		if !p.Category.Valid() {
			return fmt.Errorf("lesson %q: place %q has unknown category %q", l.ID, p.ID, p.Category)
		}
		if !p.ValidCoordinates() {
			return fmt.Errorf("lesson %q: place %q has invalid coordinates (%f, %f)", l.ID, p.ID, p.Lat, p.Lng)
		}
	}
	return nil
}

// validateBank rejects questions pointing at unknown lessons and warns on
// action place ids that don't resolve; those degrade to no-ops at dispatch
// time, so they are tolerated but worth surfacing to content authors.
func (lib *Library) validateBank(bank []model.QuizQuestion) error {
	seen := make(map[string]bool, len(bank))
	for i := range bank {
		q := &bank[i]
		if q.ID == "" {
			return fmt.Errorf("question %d has no id", i)
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true

		lesson, ok := lib.byID[q.LessonID]
		if !ok {
			return fmt.Errorf("question %q references unknown lesson %q", q.ID, q.LessonID)
		}
		if q.Difficulty < 1 || q.Difficulty > 3 {
			return fmt.Errorf("question %q has difficulty %d, want 1..3", q.ID, q.Difficulty)
		}
		if strings.TrimSpace(q.Prompt) == "" {
			return fmt.Errorf("question %q has no prompt", q.ID)
		}

		if q.Action == nil {
			continue
		}
		for _, id := range actionPlaceIDs(q.Action) {
			if lesson.Place(id) == nil {
				slog.Warn("Content: question action references unknown place",
					"question", q.ID, "lesson", q.LessonID, "place", id)
			}
		}
	}
	return nil
}

func actionPlaceIDs(a *model.AnswerAction) []string {
	var ids []string
	if a.FlyToPlaceID != "" {
		ids = append(ids, a.FlyToPlaceID)
	}
	ids = append(ids, a.HighlightPlaceIDs...)
	for _, d := range a.Draw {
		if d.Kind == model.DrawFocusPlaces {
			ids = append(ids, d.PlaceIDs...)
		}
	}
	return ids
}

// Lessons returns all lessons in stable id order.
func (lib *Library) Lessons() []model.Lesson {
	return lib.lessons
}

// Lesson returns the lesson with the given id, or nil.
func (lib *Library) Lesson(id string) *model.Lesson {
	return lib.byID[id]
}

// Bank returns the question bank filtered to the given lesson.
func (lib *Library) Bank(lessonID string) []model.QuizQuestion {
	return lib.bank[lessonID]
}

// Place resolves a place within a lesson, or nil.
func (lib *Library) Place(lessonID, placeID string) *model.Place {
	lesson := lib.byID[lessonID]
	if lesson == nil {
		return nil
	}
	return lesson.Place(placeID)
}
