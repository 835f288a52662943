package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlasgo/pkg/model"
)

// correctAnswerFor builds a text guaranteed to pass the keyword check:
// every expected keyword plus the answer title.
func correctAnswerFor(q *model.QuizQuestion) string {
	parts := append([]string{}, q.ExpectedKeywords...)
	parts = append(parts, q.Answer.Title)
	return strings.Join(parts, " ")
}

func bankQuestion(t *testing.T, env *testEnv, lessonID, questionID string) *model.QuizQuestion {
	t.Helper()
	for _, q := range env.lib.Bank(lessonID) {
		if q.ID == questionID {
			return &q
		}
	}
	t.Fatalf("question %s not in %s bank", questionID, lessonID)
	return nil
}

func TestChallengeRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	var start ChallengeStartResponse
	w := postJSON(t, env.challenge.HandleStart, "/api/challenge/start", struct{}{}, &start)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, start.QuestionID)
	require.NotEmpty(t, start.Prompt)

	q := bankQuestion(t, env, "water", start.QuestionID)

	// A wrong answer keeps the challenge armed.
	var answer ChallengeAnswerResponse
	w = postJSON(t, env.challenge.HandleAnswer, "/api/challenge/answer", ChallengeAnswerRequest{Text: "with the stars"}, &answer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, answer.Correct)
	assert.Contains(t, answer.Reply.Text, "جرب تاني")

	w = postJSON(t, env.challenge.HandleAnswer, "/api/challenge/answer", ChallengeAnswerRequest{Text: correctAnswerFor(q)}, &answer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, answer.Correct)
	assert.Contains(t, answer.Reply.Text, "برافو")
	assert.Greater(t, answer.State.Session.XP, 0)

	// The challenge is disarmed after a correct answer.
	w = postJSON(t, env.challenge.HandleAnswer, "/api/challenge/answer", ChallengeAnswerRequest{Text: "anything"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestChallengeAnsweredThroughChat(t *testing.T) {
	env := newTestEnv(t)

	var start ChallengeStartResponse
	w := postJSON(t, env.challenge.HandleStart, "/api/challenge/start", struct{}{}, &start)
	require.Equal(t, http.StatusOK, w.Code)

	q := bankQuestion(t, env, "water", start.QuestionID)

	var chat ChatResponse
	w = postJSON(t, env.chat.HandleChat, "/api/chat", ChatRequest{Text: correctAnswerFor(q)}, &chat)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, chat.Reply.Text, "برافو")
	assert.NotNil(t, chat.Reply.Question)
}

func TestLessonSwitchDropsChallenge(t *testing.T) {
	env := newTestEnv(t)

	var start ChallengeStartResponse
	w := postJSON(t, env.challenge.HandleStart, "/api/challenge/start", struct{}{}, &start)
	require.Equal(t, http.StatusOK, w.Code)

	postJSON(t, env.state.HandleLessonSwitch, "/api/session/lesson", LessonSwitchRequest{LessonID: "projects"}, nil)

	w = postJSON(t, env.challenge.HandleAnswer, "/api/challenge/answer", ChallengeAnswerRequest{Text: "anything"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
