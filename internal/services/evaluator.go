package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/developia-II/interview-practice-backend/internal/config"
	"github.com/developia-II/interview-practice-backend/internal/llm"
	"github.com/developia-II/interview-practice-backend/internal/models"
	"github.com/developia-II/interview-practice-backend/internal/observability"
	"github.com/developia-II/interview-practice-backend/internal/scoring"
)

// Scoring paths reported by Evaluate.
const (
	ModeLLM     = "llm"
	ModeKeyword = "keyword"
	ModeLength  = "length"
)

const evaluateSystemPrompt = "You are an expert interviewer grading a mock interview. You reply with JSON only."

// Evaluator turns a finished transcript into a FeedbackResult.
type Evaluator struct {
	llm     *llm.Client
	mode    string
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewEvaluator(client *llm.Client, mode string, metrics *observability.Metrics, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{llm: client, mode: mode, metrics: metrics, logger: logger}
}

// Evaluate grades answers against qs and reports which scoring path produced
// the result.
func (e *Evaluator) Evaluate(ctx context.Context, topic string, qs []models.Question, answers []string) (models.FeedbackResult, string) {
	if e.mode == config.ScoringKeyword || len(answers) == 0 {
		return scoring.Keyword(qs, answers), ModeKeyword
	}

	transcript := pair(qs, answers)
	result, err := e.evaluateLLM(ctx, topic, transcript)
	if err == nil {
		return result, ModeLLM
	}

	e.logger.Warn("llm evaluation unavailable, using heuristic scoring",
		slog.String("topic", topic),
		slog.String("provider", e.llm.Provider()),
		slog.Any("error", err),
	)
	e.metrics.ObserveFallback("evaluate")
	if scoring.HasKeywords(qs) {
		return scoring.Keyword(qs, answers), ModeKeyword
	}
	return scoring.Length(transcript, len(qs)), ModeLength
}

func (e *Evaluator) evaluateLLM(ctx context.Context, topic string, transcript []models.QA) (models.FeedbackResult, error) {
	prompt, err := evaluatePrompt(topic, transcript)
	if err != nil {
		return models.FeedbackResult{}, err
	}
	var result models.FeedbackResult
	if err := e.llm.GenerateJSON(ctx, "evaluate", evaluateSystemPrompt, prompt, &result); err != nil {
		return models.FeedbackResult{}, err
	}
	if len(result.Metrics) == 0 && len(result.QuestionFeedback) == 0 {
		return models.FeedbackResult{}, fmt.Errorf("model returned an empty evaluation")
	}
	sanitize(&result, transcript)
	return result, nil
}

func evaluatePrompt(topic string, transcript []models.QA) (string, error) {
	type entry struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	entries := make([]entry, 0, len(transcript))
	for _, qa := range transcript {
		entries = append(entries, entry{Question: qa.Question.Text, Answer: qa.Answer})
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshal transcript: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are evaluating a candidate on the topic: %q.\n", topic)
	b.WriteString("Here is the transcript of the interview:\n")
	b.Write(data)
	b.WriteString(`

Evaluate the candidate's performance.
Return the response ONLY as a valid JSON object. Do not include any markdown formatting.
The JSON object must match this structure:
{
  "score": number (0-100),
  "metrics": [
    { "id": "clarity", "label": "Clarity", "value": number (0-100), "feedback": "string" },
    { "id": "technical", "label": "Technical Accuracy", "value": number (0-100), "feedback": "string" },
    { "id": "completeness", "label": "Completeness", "value": number (0-100), "feedback": "string" }
  ],
  "summary": "string (overall summary of performance)",
  "questionFeedback": [
    {
      "question": "string (the original question)",
      "userAnswer": "string (the user's answer)",
      "score": number (0-100),
      "feedback": "string (specific feedback on this answer)",
      "idealAnswer": "string (what they should have said)"
    }
  ]
}`)
	return b.String(), nil
}

// sanitize clamps scores and fills fields the model left blank from the
// transcript it was given.
func sanitize(f *models.FeedbackResult, transcript []models.QA) {
	f.Clamp()
	for i := range f.QuestionFeedback {
		if i >= len(transcript) {
			break
		}
		qf := &f.QuestionFeedback[i]
		if qf.Question == "" {
			qf.Question = transcript[i].Question.Text
		}
		if qf.UserAnswer == "" {
			qf.UserAnswer = transcript[i].Answer
		}
		if qf.IdealAnswer == "" {
			qf.IdealAnswer = transcript[i].Question.IdealAnswer
		}
	}
}

func pair(qs []models.Question, answers []string) []models.QA {
	n := min(len(qs), len(answers))
	out := make([]models.QA, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.QA{Question: qs[i], Answer: answers[i]})
	}
	return out
}
