package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"atlasgo/pkg/content"
	"atlasgo/pkg/model"
	"atlasgo/pkg/tutor"
)

// LessonsHandler serves the lesson catalogue.
type LessonsHandler struct {
	lib    *content.Library
	engine *tutor.Engine
}

func NewLessonsHandler(lib *content.Library, engine *tutor.Engine) *LessonsHandler {
	return &LessonsHandler{lib: lib, engine: engine}
}

// LessonSummary is the list-view projection of a lesson.
type LessonSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	AgeHint string `json:"age_hint,omitempty"`
	Places  int    `json:"places"`
}

// LessonDetail is the full lesson plus the chat suggestion chips.
type LessonDetail struct {
	model.Lesson
	QuickPrompts []string `json:"quickPrompts"`
}

// HandleList returns all lessons in authored order.
func (h *LessonsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	lessons := h.lib.Lessons()
	summaries := make([]LessonSummary, 0, len(lessons))
	for i := range lessons {
		summaries = append(summaries, LessonSummary{
			ID:      lessons[i].ID,
			Title:   lessons[i].Title,
			AgeHint: lessons[i].AgeHint,
			Places:  len(lessons[i].Places),
		})
	}
	writeJSON(w, summaries)
}

// HandleGet returns one lesson with its quick prompts.
func (h *LessonsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	lesson := h.lib.Lesson(id)
	if lesson == nil {
		http.Error(w, "unknown lesson", http.StatusNotFound)
		return
	}
	writeJSON(w, LessonDetail{
		Lesson:       *lesson,
		QuickPrompts: h.engine.QuickPrompts(id),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
