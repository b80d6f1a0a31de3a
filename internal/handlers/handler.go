package handlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/developia-II/interview-practice-backend/internal/config"
	"github.com/developia-II/interview-practice-backend/internal/models"
	"github.com/developia-II/interview-practice-backend/internal/questions"
	"github.com/developia-II/interview-practice-backend/internal/services"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, q string, page, limit int) ([]models.User, int64, error)
}

type InterviewStore interface {
	Create(ctx context.Context, iv *models.Interview) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Interview, error)
	ListByUser(ctx context.Context, userID string) ([]models.Interview, error)
	Find(ctx context.Context, f models.InterviewFilter, page, limit int) ([]models.Interview, int64, error)
	Recent(ctx context.Context, n int64) ([]models.InterviewSummary, error)
	CountByTopic(ctx context.Context) ([]models.TopicCount, error)
	ScoreStats(ctx context.Context, userID string) (int64, float64, error)
}

type ReportLister interface {
	List(ctx context.Context, limit int64) ([]models.UsageReport, error)
}

type SessionService interface {
	Start(ctx context.Context, userID string, req models.StartSessionRequest, resume *services.Resume) (*models.Session, error)
	Get(ctx context.Context, userID, id string) (*models.Session, error)
	Answer(ctx context.Context, userID, id, answer string) (*models.Session, string, error)
	Finish(ctx context.Context, userID, id string) (*models.Interview, error)
	LastPrompt(ctx context.Context, userID, id string) (string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, string, error)
}

// Deps are the collaborators a Handler needs.
type Deps struct {
	Config     config.Config
	Users      UserStore
	Interviews InterviewStore
	Reports    ReportLister
	Sessions   SessionService
	Voice      Synthesizer
	Bank       *questions.Bank
	Logger     *slog.Logger
}

type Handler struct {
	cfg        config.Config
	users      UserStore
	interviews InterviewStore
	reports    ReportLister
	sessions   SessionService
	voice      Synthesizer
	bank       *questions.Bank
	logger     *slog.Logger
	now        func() time.Time
}

func New(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Handler{
		cfg:        d.Config,
		users:      d.Users,
		interviews: d.Interviews,
		reports:    d.Reports,
		sessions:   d.Sessions,
		voice:      d.Voice,
		bank:       d.Bank,
		logger:     d.Logger,
		now:        time.Now,
	}
}

// log returns the handler logger tagged with the request id.
func (h *Handler) log(c *fiber.Ctx) *slog.Logger {
	if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
		return h.logger.With(slog.String("request_id", rid))
	}
	return h.logger
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error"
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		msg = e.Message
	}
	return c.Status(code).JSON(fiber.Map{
		"error": msg,
	})
}

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Topics lists the interview topics and difficulty levels.
func (h *Handler) Topics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"topics":       h.bank.Topics,
		"difficulties": h.bank.Difficulties,
	})
}
