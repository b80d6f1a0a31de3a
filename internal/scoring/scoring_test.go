package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/developia-II/interview-practice-backend/internal/models"
)

func metric(t *testing.T, f models.FeedbackResult, id string) models.Metric {
	t.Helper()
	for _, m := range f.Metrics {
		if m.ID == id {
			return m
		}
	}
	t.Fatalf("metric %q not found", id)
	return models.Metric{}
}

func TestKeyword_FullAndMissed(t *testing.T) {
	questions := []models.Question{
		{Text: "Q1", Keywords: []string{"alpha", "beta"}, IdealAnswer: "I1"},
		{Text: "Q2", Keywords: []string{"gamma", "delta", "epsilon", "zeta"}, IdealAnswer: "I2"},
	}
	f := Keyword(questions, []string{"ALPHA and Beta are both here", "short"})

	require.Len(t, f.QuestionFeedback, 2)
	assert.Equal(t, 100, f.QuestionFeedback[0].Score)
	assert.Equal(t, "Excellent! You covered all key concepts.", f.QuestionFeedback[0].Feedback)
	assert.Equal(t, "I1", f.QuestionFeedback[0].IdealAnswer)
	assert.Equal(t, 10, f.QuestionFeedback[1].Score)
	assert.Equal(t, "You might have missed the core concepts. Try to include terms like: gamma, delta, epsilon.", f.QuestionFeedback[1].Feedback)

	assert.Equal(t, 55, f.Score)
	assert.Equal(t, 55, metric(t, f, "clarity").Value)
	assert.Equal(t, "Review key concepts.", metric(t, f, "clarity").Feedback)
	assert.Equal(t, 65, metric(t, f, "pace").Value)
	assert.Equal(t, 100, metric(t, f, "confidence").Value)
	assert.Equal(t, "Answered all questions.", metric(t, f, "confidence").Feedback)
	assert.Equal(t, 60, metric(t, f, "content").Value)
	assert.True(t, strings.HasPrefix(f.Summary, "Good effort."))
}

func TestKeyword_PartialUsesUnroundedAverage(t *testing.T) {
	questions := []models.Question{
		{Text: "Q1", Keywords: []string{"a1", "b1", "c1", "d1"}},
		{Text: "Q2", Keywords: []string{"x"}},
	}
	f := Keyword(questions, []string{"I think a1 is the thing", "nothing relevant at all"})

	assert.Equal(t, 63, f.QuestionFeedback[0].Score)
	assert.Equal(t, "You hit on some points (a1), but missed others.", f.QuestionFeedback[0].Feedback)
	assert.Equal(t, 30, f.QuestionFeedback[1].Score)
	// (62.5 + 30) / 2
	assert.Equal(t, 46, f.Score)
}

func TestKeyword_GoodJobAndLengthBonus(t *testing.T) {
	questions := []models.Question{
		{Text: "Q1", Keywords: []string{"immutable", "mutable", "passed", "component", "parent", "manage"}},
	}
	answer := "Props are immutable and passed from the parent component" + strings.Repeat(" word", 30)
	f := Keyword(questions, []string{answer})

	assert.Equal(t, "Good job. You mentioned immutable, mutable, passed, component, parent.", f.QuestionFeedback[0].Feedback)
	// 50 + 5/6*50 + 10
	assert.Equal(t, 100, f.QuestionFeedback[0].Score)
	assert.Equal(t, "Solid performance! You demonstrated good knowledge of the core concepts.", f.Summary)
	assert.Equal(t, "Strong technical understanding.", metric(t, f, "clarity").Feedback)
}

func TestKeyword_ExtraAnswersAndEmpty(t *testing.T) {
	questions := []models.Question{{Text: "Q1", Keywords: []string{"alpha"}}}
	f := Keyword(questions, []string{"alpha is the answer", "extra"})

	require.Len(t, f.QuestionFeedback, 1)
	assert.Equal(t, 50, f.Score)
	assert.Equal(t, 100, metric(t, f, "confidence").Value)
	assert.Equal(t, "Missed some questions.", metric(t, f, "confidence").Feedback)

	empty := Keyword(questions, nil)
	assert.Equal(t, 0, empty.Score)
	assert.NotNil(t, empty.QuestionFeedback)
	assert.Empty(t, empty.QuestionFeedback)
	assert.Equal(t, 0, metric(t, empty, "confidence").Value)
}

func TestHasKeywords(t *testing.T) {
	assert.False(t, HasKeywords(nil))
	assert.True(t, HasKeywords([]models.Question{{Keywords: []string{"a"}}}))
	assert.False(t, HasKeywords([]models.Question{{Keywords: []string{"a"}}, {}}))
}

func TestLength(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("word ", 25))
	f := Length([]models.QA{
		{Question: models.Question{Text: "Q1", IdealAnswer: "I1"}, Answer: "short"},
		{Question: models.Question{Text: "Q2"}, Answer: long},
	}, 5)

	require.Len(t, f.QuestionFeedback, 2)
	assert.Equal(t, 20, f.QuestionFeedback[0].Score)
	assert.Equal(t, "Try to elaborate more in your answers.", f.QuestionFeedback[0].Feedback)
	assert.Equal(t, "I1", f.QuestionFeedback[0].IdealAnswer)
	assert.Equal(t, 75, f.QuestionFeedback[1].Score)
	assert.Equal(t, "Good detail in your answer.", f.QuestionFeedback[1].Feedback)
	assert.Equal(t, genericIdealAnswer, f.QuestionFeedback[1].IdealAnswer)

	assert.Equal(t, 48, f.Score)
	assert.Equal(t, 40, metric(t, f, "completeness").Value)
	assert.Equal(t, "You answered 2 question(s).", metric(t, f, "completeness").Feedback)
	assert.Equal(t, 48, metric(t, f, "technical").Value)
	assert.True(t, strings.HasPrefix(f.Summary, "Keep practicing!"))
}

func TestLength_EmptyAndHighScore(t *testing.T) {
	empty := Length(nil, 0)
	assert.Equal(t, 0, empty.Score)
	assert.Equal(t, 0, metric(t, empty, "completeness").Value)

	long := strings.TrimSpace(strings.Repeat("word ", 80))
	f := Length([]models.QA{{Question: models.Question{Text: "Q"}, Answer: long}}, 1)
	assert.Equal(t, 100, f.Score)
	assert.True(t, strings.HasPrefix(f.Summary, "Good effort!"))
}

func TestShortAnswerThresholdsCountCharacters(t *testing.T) {
	qs := []models.Question{{Text: "Q", Keywords: []string{"alpha"}}}
	tests := []struct {
		name   string
		answer string
		want   int
	}{
		{"short cyrillic", "Да, верно", 10},
		{"short cjk", "好的我知道了", 10},
		{"padded short answer", "   Да, верно   ", 10},
		{"long cyrillic without keywords", "Да, это совершенно верно", 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Keyword(qs, []string{tt.answer})
			require.Len(t, f.QuestionFeedback, 1)
			assert.Equal(t, tt.want, f.QuestionFeedback[0].Score)
			assert.Equal(t, tt.want, f.Score)
		})
	}
}

func TestLength_CountsCharacters(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   int
	}{
		{"short cjk", "好的我知道了", 20},
		{"short cyrillic", "Да, верно", 20},
		{"ten cjk characters", "我认为闭包可以访问外", 51},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Length([]models.QA{{Question: models.Question{Text: "Q"}, Answer: tt.answer}}, 1)
			require.Len(t, f.QuestionFeedback, 1)
			assert.Equal(t, tt.want, f.QuestionFeedback[0].Score)
		})
	}
}
