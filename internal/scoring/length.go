package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/developia-II/interview-practice-backend/internal/models"
)

const genericIdealAnswer = "A strong answer covers the core concept with a specific example."

// Length grades a transcript by answer length alone. expected is the number
// of questions the interview planned to ask.
func Length(transcript []models.QA, expected int) models.FeedbackResult {
	perQuestion := make([]models.QuestionFeedback, 0, len(transcript))
	sum := 0
	for _, qa := range transcript {
		words := len(strings.Fields(qa.Answer))
		score := 20
		if charCount(qa.Answer) >= 10 {
			score = min(100, 50+words)
		}
		feedback := "Try to elaborate more in your answers."
		if words > 20 {
			feedback = "Good detail in your answer."
		}
		ideal := qa.Question.IdealAnswer
		if ideal == "" {
			ideal = genericIdealAnswer
		}
		sum += score
		perQuestion = append(perQuestion, models.QuestionFeedback{
			Question:    qa.Question.Text,
			UserAnswer:  qa.Answer,
			Score:       score,
			Feedback:    feedback,
			IdealAnswer: ideal,
		})
	}

	avg := 0
	if len(perQuestion) > 0 {
		avg = int(math.Round(float64(sum) / float64(len(perQuestion))))
	}
	if expected <= 0 {
		expected = max(len(transcript), 1)
	}

	summary := "Keep practicing! AI-powered detailed feedback is temporarily unavailable due to API limits."
	if avg > 60 {
		summary = "Good effort! AI-powered detailed feedback is temporarily unavailable due to API limits."
	}

	result := models.FeedbackResult{
		Score: avg,
		Metrics: []models.Metric{
			{ID: "clarity", Label: "Clarity", Value: avg, Feedback: "Based on answer length and detail."},
			{ID: "technical", Label: "Technical Accuracy", Value: avg, Feedback: "AI evaluation unavailable, basic scoring applied."},
			{
				ID:       "completeness",
				Label:    "Completeness",
				Value:    int(math.Round(float64(len(transcript)) / float64(expected) * 100)),
				Feedback: fmt.Sprintf("You answered %d question(s).", len(transcript)),
			},
		},
		Summary:          summary,
		QuestionFeedback: perQuestion,
	}
	result.Clamp()
	return result
}
