// Package tutor is the scripted chat brain of the dashboard. It turns a
// child's free-text utterance into a reply plus map side effects, trying
// sources in a fixed order: place names, canned keyword rules, the question
// bank, concept-card fragments, and finally a help message.
package tutor

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"atlasgo/pkg/arabic"
	"atlasgo/pkg/content"
	"atlasgo/pkg/match"
	"atlasgo/pkg/model"
	"atlasgo/pkg/session"
)

// Typing-delay hints in milliseconds, sent with each reply so the frontend
// can fake a short "thinking" pause before rendering.
const (
	typingCannedMS    = 240
	typingAnswerMS    = 220
	typingFallbackMS  = 200
	typingChallengeMS = 180
)

// Badge names awarded through chat.
const (
	BadgeExplorer = "مستكشف الخرائط"
	BadgeLearner  = "سأل واتعلم"
)

const fallbackText = "مش فاهم قصدك بالكامل. جرب تكتب اسم معلم (مثال: بنبان / قناة السويس / نهر النيل) أو اسأل عن (الأهداف / المشكلات / الاستخدامات / الأرقام والنسب)."

// Reply is what the tutor hands back for one utterance. The map side
// effects have already been applied to the session by the time the caller
// sees it; the reply only carries what the frontend should render and say.
type Reply struct {
	Text            string              `json:"text"`
	Question        *model.QuizQuestion `json:"question,omitempty"`
	FlyToPlaceID    string              `json:"flyToPlaceId,omitempty"`
	NextSuggestions []string            `json:"nextSuggestions,omitempty"`
	TypingMS        int                 `json:"typingMs"`
	Badge           string              `json:"badge,omitempty"`
	// SpeakText is the full answer flattened for the voice channel.
	SpeakText string `json:"speakText,omitempty"`
}

// Fallback reports whether the reply is the generic did-not-understand
// answer. Used by callers that count match quality.
func (r Reply) Fallback() bool {
	return r.Text == fallbackText
}

// Engine dispatches utterances against the loaded content library.
// Stateless apart from the library; safe for concurrent use.
type Engine struct {
	lib *content.Library
}

func NewEngine(lib *content.Library) *Engine {
	return &Engine{lib: lib}
}

// Respond handles one utterance for the given session and lesson.
func (e *Engine) Respond(sess *session.Manager, lesson *model.Lesson, text string) Reply {
	nq := arabic.Normalize(text)

	if place := match.ResolvePlace(lesson, text); place != nil {
		slog.Debug("Tutor: resolved place", "lesson", lesson.ID, "place", place.ID)
		q := adHocPlaceQuestion(lesson.ID, text, place)
		sess.Apply(lesson, q.Action, session.ApplyOptions{Trigger: session.TriggerChat})
		sess.AwardBadge(BadgeExplorer)
		return Reply{
			Text:            fmt.Sprintf("تمام! دي %s. تحب 3 معلومات سريعة ولا تشوف صورة/فيديو؟", place.Title),
			Question:        q,
			FlyToPlaceID:    place.ID,
			NextSuggestions: q.Answer.NextSuggestions,
			TypingMS:        typingAnswerMS,
			Badge:           BadgeExplorer,
			SpeakText:       flattenAnswer(q),
		}
	}

	if rule := cannedReply(lesson.ID, nq); rule != nil {
		if rule.flyTo != "" {
			sess.Apply(lesson, &model.AnswerAction{FlyToPlaceID: rule.flyTo}, session.ApplyOptions{Trigger: session.TriggerChat})
		}
		sess.AwardBadge(BadgeLearner)
		return Reply{
			Text:         rule.text,
			FlyToPlaceID: rule.flyTo,
			TypingMS:     typingCannedMS,
			Badge:        BadgeLearner,
			SpeakText:    rule.text,
		}
	}

	if q := match.PickBestQuestion(e.lib.Bank(lesson.ID), text); q != nil {
		return e.AnswerReply(sess, lesson, q)
	}

	if hits := match.ConceptHits(lesson, text, 2); len(hits) > 0 {
		sess.AwardBadge(BadgeLearner)
		reply := "أقرب معلومة من الدرس: " + strings.Join(hits, " | ")
		return Reply{
			Text:      reply,
			TypingMS:  typingCannedMS,
			Badge:     BadgeLearner,
			SpeakText: reply,
		}
	}

	return Reply{Text: fallbackText, TypingMS: typingFallbackMS}
}

// AnswerReply applies a bank question's action to the session and builds
// the full answer reply. Also used when a challenge is answered correctly.
func (e *Engine) AnswerReply(sess *session.Manager, lesson *model.Lesson, q *model.QuizQuestion) Reply {
	sess.Apply(lesson, q.Action, session.ApplyOptions{
		Trigger:    session.TriggerChat,
		Difficulty: q.Difficulty,
	})
	flyTo := ""
	if q.Action != nil {
		flyTo = q.Action.FlyToPlaceID
	}
	return Reply{
		Text:            q.Answer.Title + "\n" + strings.Join(q.Answer.Paragraphs, "\n"),
		Question:        q,
		FlyToPlaceID:    flyTo,
		NextSuggestions: q.Answer.NextSuggestions,
		TypingMS:        typingAnswerMS,
		SpeakText:       flattenAnswer(q),
	}
}

// StartChallenge picks a random question from the lesson's bank, or nil
// when the lesson has none.
func (e *Engine) StartChallenge(lessonID string) *model.QuizQuestion {
	bank := e.lib.Bank(lessonID)
	if len(bank) == 0 {
		return nil
	}
	q := bank[rand.Intn(len(bank))]
	return &q
}

// CheckAnswer accepts the user's text when any expected keyword appears in
// it, or any of the first four long tokens of the answer title does.
func (e *Engine) CheckAnswer(q *model.QuizQuestion, text string) bool {
	nt := arabic.Normalize(text)
	if nt == "" {
		return false
	}
	for _, kw := range q.ExpectedKeywords {
		nk := arabic.Normalize(kw)
		if nk != "" && strings.Contains(nt, nk) {
			return true
		}
	}
	for _, tok := range arabic.Tokens(q.Answer.Title, 3, 4) {
		if strings.Contains(nt, tok) {
			return true
		}
	}
	return false
}

// ChallengeVerdict wraps the reply for an answered challenge.
func (e *Engine) ChallengeVerdict(sess *session.Manager, lesson *model.Lesson, q *model.QuizQuestion, text string) (Reply, bool) {
	if !e.CheckAnswer(q, text) {
		return Reply{
			Text:     "قريبة... جرب تاني أو قول كلمة مفتاحية زي اسم المعلم.",
			TypingMS: typingChallengeMS,
		}, false
	}
	reply := e.AnswerReply(sess, lesson, q)
	reply.Text = "برافو! إجابتك صح. ده الشرح التفصيلي:\n" + reply.Text
	reply.TypingMS = typingChallengeMS
	return reply, true
}

// QuickPrompts returns the suggestion chips shown under the chat box.
func (e *Engine) QuickPrompts(lessonID string) []string {
	switch lessonID {
	case "projects":
		return []string{
			"يعني إيه تنمية مستدامة؟",
			"فين قناة السويس؟",
			"وريني بنبان",
			"العاصمة الإدارية",
			"الدلتا الجديدة",
			"عايز أرقام ونسب",
			"وريني فيديو",
		}
	case "minerals":
		return []string{
			"إيه هي الموارد المعدنية؟",
			"إيه مصادر الطاقة المتجددة؟",
			"فين بنبان؟",
			"فين الزعفرانة؟",
			"عايز أرقام ونسب",
			"وريني فيديو",
		}
	default:
		return []string{
			"فين نهر النيل؟",
			"الفرق بين العذبة والمالحة؟",
			"إيه مشكلات المياه؟",
			"فين بحيرة ناصر؟",
			"عايز أرقام ونسب",
			"وريني فيديو",
		}
	}
}

// adHocPlaceQuestion fabricates an answer for a place the child named
// directly, from the place's own summary and details.
func adHocPlaceQuestion(lessonID, prompt string, place *model.Place) *model.QuizQuestion {
	paragraphs := []string{place.Summary}
	if len(place.Details) > 0 {
		details := place.Details
		if len(details) > 4 {
			details = details[:4]
		}
		paragraphs = append(paragraphs, details...)
	} else {
		paragraphs = append(paragraphs, "لو عايز تفاصيل أكتر: افتح كارت المعلم وهتلاقي شرح وصورة أو فيديو لو متاح.")
	}
	paragraphs = append(paragraphs, "تحب أسألك سؤال سريع عن المكان ده؟")

	return &model.QuizQuestion{
		ID:         "adhoc",
		LessonID:   lessonID,
		Difficulty: 1,
		Prompt:     prompt,
		Answer: model.Answer{
			Title:      place.Title,
			Paragraphs: paragraphs,
			QuickFacts: []model.QuickFact{
				{K: "الفئة", V: string(place.Category)},
				{K: "الإحداثيات", V: fmt.Sprintf("%.3f, %.3f", place.Lat, place.Lng)},
			},
			NextSuggestions: []string{
				"ليه المكان ده مهم؟",
				"اديني 3 حقائق سريعة",
				"وريني فيديو أو صورة",
			},
		},
		Action: &model.AnswerAction{
			FlyToPlaceID:      place.ID,
			HighlightPlaceIDs: []string{place.ID},
			SetLayers:         &model.LayerPatch{ShowLabels: boolPtr(true)},
		},
	}
}

func boolPtr(b bool) *bool { return &b }

// flattenAnswer joins an answer into one stretch of text for the voice
// channel, quick facts included.
func flattenAnswer(q *model.QuizQuestion) string {
	parts := []string{q.Answer.Title}
	parts = append(parts, q.Answer.Paragraphs...)
	if len(q.Answer.QuickFacts) > 0 {
		parts = append(parts, "حقائق سريعة:")
		for _, f := range q.Answer.QuickFacts {
			parts = append(parts, f.K+": "+f.V)
		}
	}
	return strings.Join(parts, " ")
}
