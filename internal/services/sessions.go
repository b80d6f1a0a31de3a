package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/developia-II/interview-practice-backend/internal/models"
	"github.com/developia-II/interview-practice-backend/internal/observability"
	"github.com/developia-II/interview-practice-backend/internal/questions"
)

const defaultQuestionCount = 5

// InterviewWriter persists completed interviews.
type InterviewWriter interface {
	Create(ctx context.Context, iv *models.Interview) error
}

// Resume is an uploaded resume after type checks. Documents other than
// plain text carry their raw bytes until text is extracted.
type Resume struct {
	Name        string
	Text        string
	ContentType string
	data        []byte
}

// Sessions runs live interviews from the first question to the saved
// feedback.
type Sessions struct {
	store       SessionStore
	interviewer *Interviewer
	evaluator   *Evaluator
	interviews  InterviewWriter
	extractor   TextExtractor
	metrics     *observability.Metrics
	logger      *slog.Logger
	now         func() time.Time
}

func NewSessions(store SessionStore, interviewer *Interviewer, evaluator *Evaluator, interviews InterviewWriter, metrics *observability.Metrics, logger *slog.Logger) *Sessions {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sessions{
		store:       store,
		interviewer: interviewer,
		evaluator:   evaluator,
		interviews:  interviews,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// WithExtractor enables text extraction for PDF and Word resumes.
func (s *Sessions) WithExtractor(e TextExtractor) *Sessions {
	s.extractor = e
	return s
}

// resumeText returns the resume's text, extracting it from documents when
// an extractor is configured. Extraction failures leave the text empty.
func (s *Sessions) resumeText(ctx context.Context, r *Resume) string {
	if r.Text != "" || len(r.data) == 0 || s.extractor == nil {
		return r.Text
	}
	text, err := s.extractor.Extract(ctx, r.ContentType, r.data)
	if err != nil {
		s.logger.Warn("resume text extraction failed",
			slog.String("resume", r.Name),
			slog.String("content_type", r.ContentType),
			slog.Any("error", err),
		)
		return ""
	}
	return strings.TrimSpace(text)
}

// Start creates a session and asks the first question.
func (s *Sessions) Start(ctx context.Context, userID string, req models.StartSessionRequest, resume *Resume) (*models.Session, error) {
	topic := questions.NormalizeTopic(req.Topic)
	if topic == "" {
		topic = questions.DefaultTopic
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = questions.DefaultDifficulty
	}
	count := req.Count
	if count <= 0 {
		count = defaultQuestionCount
	}

	var resumeText string
	now := s.now().UTC()
	sess := &models.Session{
		ID:         uuid.NewString(),
		UserID:     userID,
		Topic:      topic,
		Difficulty: difficulty,
		StartedAt:  now,
		UpdatedAt:  now,
	}
	if resume != nil {
		sess.ResumeName = resume.Name
		resumeText = s.resumeText(ctx, resume)
		sess.ResumeText = resumeText
	}

	sess.Questions = s.interviewer.Questions(ctx, topic, difficulty, count, resumeText)
	sess.Messages = []models.Turn{{Role: models.RoleAI, Text: s.interviewer.Greeting(topic, sess.Questions)}}

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.logger.Info("interview session started",
		slog.String("session_id", sess.ID),
		slog.String("user_id", userID),
		slog.String("topic", topic),
		slog.Int("questions", len(sess.Questions)),
	)
	return sess, nil
}

// Get loads a session owned by userID.
func (s *Sessions) Get(ctx context.Context, userID, id string) (*models.Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// Sessions of other users are reported as missing.
	if sess.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Answer records an answer to the current question and returns the
// interviewer's reply.
func (s *Sessions) Answer(ctx context.Context, userID, id, answer string) (*models.Session, string, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, "", ErrEmptyAnswer
	}
	unlock, err := s.store.Lock(ctx, id)
	if err != nil {
		return nil, "", err
	}
	defer unlock()

	sess, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}
	if sess.Completed {
		return nil, "", ErrSessionCompleted
	}

	sess.Messages = append(sess.Messages, models.Turn{Role: models.RoleUser, Text: answer})
	sess.Index++

	var next *models.Question
	if sess.Index < len(sess.Questions) {
		next = &sess.Questions[sess.Index]
	} else {
		sess.Completed = true
	}
	reply := s.interviewer.Reply(answer, next)
	sess.Messages = append(sess.Messages, models.Turn{Role: models.RoleAI, Text: reply})
	sess.UpdatedAt = s.now().UTC()

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, "", err
	}
	return sess, reply, nil
}

// Finish scores the answers given so far, drops the live session and saves
// the interview. Interviews may be finished early. The session is removed
// before the interview is written so a session yields at most one record.
func (s *Sessions) Finish(ctx context.Context, userID, id string) (*models.Interview, error) {
	unlock, err := s.store.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sess, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	feedback, mode := s.evaluator.Evaluate(ctx, sess.Topic, sess.Questions, sess.Answers())
	feedback.Clamp()

	now := s.now().UTC()
	iv := &models.Interview{
		UserID:     userID,
		Topic:      sess.Topic,
		Difficulty: sess.Difficulty,
		Score:      feedback.Score,
		Feedback:   feedback,
		Date:       now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return nil, err
	}
	if err := s.interviews.Create(ctx, iv); err != nil {
		// Put the session back so the user can retry.
		if rerr := s.store.Save(ctx, sess); rerr != nil {
			s.logger.Warn("failed to restore session", slog.String("session_id", id), slog.Any("error", rerr))
		}
		return nil, fmt.Errorf("save interview: %w", err)
	}

	s.metrics.ObserveInterview(sess.Topic, mode, feedback.Score)
	s.logger.Info("interview finished",
		slog.String("session_id", id),
		slog.String("interview_id", iv.ID.Hex()),
		slog.String("mode", mode),
		slog.Int("score", feedback.Score),
	)
	return iv, nil
}

// LastPrompt is the line the interviewer most recently said.
func (s *Sessions) LastPrompt(ctx context.Context, userID, id string) (string, error) {
	sess, err := s.Get(ctx, userID, id)
	if err != nil {
		return "", err
	}
	return sess.LastPrompt(), nil
}
