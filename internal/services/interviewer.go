package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/developia-II/interview-practice-backend/internal/llm"
	"github.com/developia-II/interview-practice-backend/internal/models"
	"github.com/developia-II/interview-practice-backend/internal/observability"
	"github.com/developia-II/interview-practice-backend/internal/questions"
)

const (
	greeting       = "Hello! Let's start the interview. "
	resumeGreeting = "Hello! I've reviewed your resume. Let's start by discussing your recent experience. "
	closingLine    = "Thank you for your responses. The interview is now complete. Please click 'Finish Interview' to see your feedback."
	elaborateLine  = "Could you elaborate a bit more on that? "
	followUpLine   = "Interesting point. "

	// Answers shorter than this get an elaboration nudge.
	shortAnswerLen = 20
	maxResumeChars = 6000
)

const questionsSystemPrompt = "You are an expert technical interviewer. You reply with JSON only."

// QuestionCache keeps generated question sets between interviews.
type QuestionCache interface {
	Get(ctx context.Context, key string) ([]models.Question, bool)
	Set(ctx context.Context, key string, qs []models.Question, ttl time.Duration)
}

// Interviewer decides which questions an interview asks and what the
// interviewer says between them.
type Interviewer struct {
	bank     *questions.Bank
	llm      *llm.Client
	cache    QuestionCache
	cacheTTL time.Duration
	scripted bool
	metrics  *observability.Metrics
	logger   *slog.Logger
}

type InterviewerOptions struct {
	Bank     *questions.Bank
	LLM      *llm.Client
	Cache    QuestionCache
	CacheTTL time.Duration
	// Scripted asks the scripted bank instead of the generative model.
	Scripted bool
	Metrics  *observability.Metrics
	Logger   *slog.Logger
}

func NewInterviewer(opts InterviewerOptions) *Interviewer {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Interviewer{
		bank:     opts.Bank,
		llm:      opts.LLM,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		scripted: opts.Scripted,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
	}
}

// Questions returns the questions for a new interview. It never fails: any
// generation problem falls back to the built-in bank.
func (iv *Interviewer) Questions(ctx context.Context, topic, difficulty string, count int, resume string) []models.Question {
	if iv.scripted {
		qs := iv.bank.Scripted(topic)
		if count > 0 && count < len(qs) {
			qs = qs[:count]
		}
		return qs
	}

	key := fmt.Sprintf("interview:questions:%s:%s:%d", topic, difficulty, count)
	cacheable := iv.cache != nil && resume == ""
	if cacheable {
		if qs, ok := iv.cache.Get(ctx, key); ok && len(qs) > 0 {
			return qs
		}
	}

	qs, err := iv.generate(ctx, topic, difficulty, count, resume)
	if err != nil {
		iv.logger.Warn("question generation unavailable, using fallback questions",
			slog.String("topic", topic),
			slog.String("provider", iv.llm.Provider()),
			slog.Any("error", err),
		)
		iv.metrics.ObserveFallback("questions")
		return iv.bank.Fallback(topic, count)
	}
	if cacheable {
		iv.cache.Set(ctx, key, qs, iv.cacheTTL)
	}
	return qs
}

func (iv *Interviewer) generate(ctx context.Context, topic, difficulty string, count int, resume string) ([]models.Question, error) {
	var raw []models.Question
	if err := iv.llm.GenerateJSON(ctx, "questions", questionsSystemPrompt, iv.questionsPrompt(topic, difficulty, count, resume), &raw); err != nil {
		return nil, err
	}
	qs := make([]models.Question, 0, len(raw))
	for _, q := range raw {
		q.Text = strings.TrimSpace(q.Text)
		if q.Text == "" {
			continue
		}
		kws := q.Keywords[:0]
		for _, k := range q.Keywords {
			if k = strings.TrimSpace(k); k != "" {
				kws = append(kws, k)
			}
		}
		q.Keywords = kws
		qs = append(qs, q)
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("model returned no usable questions")
	}
	if count > 0 && len(qs) > count {
		qs = qs[:count]
	}
	return qs, nil
}

func (iv *Interviewer) questionsPrompt(topic, difficulty string, count int, resume string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d interview questions for the topic: %q.\n", count, iv.bank.TopicLabel(topic))
	fmt.Fprintf(&b, "The candidate is applying for a %s level role; match the difficulty to that level.\n", difficulty)
	if resume != "" {
		if utf8.RuneCountInString(resume) > maxResumeChars {
			resume = string([]rune(resume)[:maxResumeChars])
		}
		b.WriteString("Base the questions on the candidate's resume below.\n<resume>\n")
		b.WriteString(resume)
		b.WriteString("\n</resume>\n")
	}
	b.WriteString("Return the response ONLY as a valid JSON array of objects. Do not include any markdown formatting or code blocks.\n")
	b.WriteString("Each object must have:\n")
	b.WriteString(`- "text": The question string.` + "\n")
	b.WriteString(`- "keywords": An array of important keywords to look for in the answer.` + "\n")
	b.WriteString(`- "idealAnswer": A concise summary of what a perfect answer looks like.`)
	return b.String()
}

// Greeting opens the interview with the first question.
func (iv *Interviewer) Greeting(topic string, qs []models.Question) string {
	first := ""
	if len(qs) > 0 {
		first = qs[0].Text
	}
	if topic == questions.ResumeTopic {
		return resumeGreeting + first
	}
	return greeting + first
}

// Reply reacts to answer and asks next, or closes the interview when next
// is nil.
func (iv *Interviewer) Reply(answer string, next *models.Question) string {
	if next == nil {
		return closingLine
	}
	if utf8.RuneCountInString(strings.TrimSpace(answer)) < shortAnswerLen {
		return elaborateLine + next.Text
	}
	return followUpLine + next.Text
}
