// Package scoring turns interview answers into a FeedbackResult without a
// generative model.
package scoring

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/developia-II/interview-practice-backend/internal/models"
)

// Keyword grades answers[i] against questions[i] by keyword overlap. Answers
// beyond the question list count toward the average but are not graded.
func Keyword(questions []models.Question, answers []string) models.FeedbackResult {
	n := min(len(answers), len(questions))
	total := 0.0
	perQuestion := make([]models.QuestionFeedback, 0, n)

	for i := 0; i < n; i++ {
		q := questions[i]
		answer := answers[i]
		found := matchedKeywords(q.Keywords, answer)

		ratio := 0.0
		if len(q.Keywords) > 0 {
			ratio = float64(len(found)) / float64(len(q.Keywords))
		}

		var score float64
		switch {
		case charCount(answer) < 10:
			score = 10
		case ratio == 0:
			score = 30
		default:
			score = 50 + ratio*50
		}
		if len(strings.Fields(answer)) > 30 {
			score = math.Min(100, score+10)
		}
		total += score

		perQuestion = append(perQuestion, models.QuestionFeedback{
			Question:    q.Text,
			UserAnswer:  answer,
			Score:       int(math.Round(score)),
			Feedback:    keywordFeedback(ratio, found, q.Keywords),
			IdealAnswer: q.IdealAnswer,
		})
	}

	overall := 0
	if len(answers) > 0 {
		overall = int(math.Round(total / float64(len(answers))))
	}

	coverage := models.Metric{ID: "clarity", Label: "Concept Coverage", Value: overall, Feedback: "Review key concepts."}
	if overall > 70 {
		coverage.Feedback = "Strong technical understanding."
	}
	completeness := models.Metric{ID: "confidence", Label: "Completeness", Feedback: "Missed some questions."}
	if len(questions) > 0 {
		completeness.Value = int(math.Round(float64(len(answers)) / float64(len(questions)) * 100))
	}
	if len(answers) == len(questions) {
		completeness.Feedback = "Answered all questions."
	}

	summary := "Good effort. Focus on including specific technical keywords in your explanations to boost your score."
	if overall > 70 {
		summary = "Solid performance! You demonstrated good knowledge of the core concepts."
	}

	result := models.FeedbackResult{
		Score: overall,
		Metrics: []models.Metric{
			coverage,
			{ID: "pace", Label: "Communication", Value: min(100, overall+10), Feedback: "Clear delivery."},
			completeness,
			{ID: "content", Label: "Relevance", Value: min(100, overall+5), Feedback: "Stayed on topic."},
		},
		Summary:          summary,
		QuestionFeedback: perQuestion,
	}
	result.Clamp()
	return result
}

// HasKeywords reports whether every question carries at least one keyword.
func HasKeywords(questions []models.Question) bool {
	if len(questions) == 0 {
		return false
	}
	for _, q := range questions {
		if len(q.Keywords) == 0 {
			return false
		}
	}
	return true
}

func matchedKeywords(keywords []string, answer string) []string {
	lower := strings.ToLower(answer)
	found := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			found = append(found, k)
		}
	}
	return found
}

func keywordFeedback(ratio float64, found, keywords []string) string {
	switch {
	case ratio == 1:
		return "Excellent! You covered all key concepts."
	case ratio > 0.5:
		return fmt.Sprintf("Good job. You mentioned %s.", strings.Join(found, ", "))
	case len(found) > 0:
		return fmt.Sprintf("You hit on some points (%s), but missed others.", strings.Join(found, ", "))
	default:
		hint := keywords[:min(3, len(keywords))]
		return "You might have missed the core concepts. Try to include terms like: " + strings.Join(hint, ", ") + "."
	}
}

// charCount is the number of characters in s after trimming.
func charCount(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
