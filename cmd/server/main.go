package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/developia-II/interview-practice-backend/internal/config"
	"github.com/developia-II/interview-practice-backend/internal/database"
	"github.com/developia-II/interview-practice-backend/internal/handlers"
	"github.com/developia-II/interview-practice-backend/internal/llm"
	"github.com/developia-II/interview-practice-backend/internal/observability"
	"github.com/developia-II/interview-practice-backend/internal/questions"
	"github.com/developia-II/interview-practice-backend/internal/scheduler"
	"github.com/developia-II/interview-practice-backend/internal/services"
)

const (
	shutdownTimeout = 10 * time.Second
	reportTimeout   = 2 * time.Minute
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := observability.SetupLogger(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	client, db, err := database.Connect(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Disconnect(client); err != nil {
			logger.Warn("mongo disconnect failed", slog.Any("error", err))
		}
	}()
	if err := database.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	metrics := observability.NewMetrics()

	bank, err := questions.Load(cfg.QuestionBankPath)
	if err != nil {
		return err
	}

	model, err := llm.New(ctx, cfg, metrics, logger)
	if err != nil {
		return err
	}
	defer model.Close()
	logger.Info("language model configured",
		slog.String("provider", model.Provider()),
		slog.String("scoring_mode", cfg.ScoringMode),
	)

	var (
		store services.SessionStore
		cache services.QuestionCache
	)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		store = services.NewRedisSessionStore(rdb, cfg.SessionTTL)
		cache = services.NewRedisQuestionCache(rdb, logger)
	} else {
		logger.Warn("REDIS_URL not set, interview sessions are kept in memory")
		store = services.NewMemorySessionStore(cfg.SessionTTL)
	}

	interviews := database.NewInterviewRepository(db)
	reports := database.NewReportRepository(db)

	interviewer := services.NewInterviewer(services.InterviewerOptions{
		Bank:     bank,
		LLM:      model,
		Cache:    cache,
		CacheTTL: cfg.QuestionCacheTTL,
		Scripted: cfg.ScoringMode == config.ScoringKeyword,
		Metrics:  metrics,
		Logger:   logger,
	})
	evaluator := services.NewEvaluator(model, cfg.ScoringMode, metrics, logger)
	sessions := services.NewSessions(store, interviewer, evaluator, interviews, metrics, logger)
	if cfg.TikaURL != "" {
		sessions.WithExtractor(services.NewTika(cfg.TikaURL, cfg.TikaTimeout))
	} else {
		logger.Info("TIKA_URL not set, PDF and Word resumes are accepted without text extraction")
	}

	deps := handlers.Deps{
		Config:     cfg,
		Users:      database.NewUserRepository(db),
		Interviews: interviews,
		Reports:    reports,
		Sessions:   sessions,
		Bank:       bank,
		Logger:     logger,
	}
	if voice := services.NewVoiceFromConfig(cfg, logger); voice.Enabled() {
		deps.Voice = voice
	} else {
		logger.Warn("no voice engine configured, session audio is disabled")
	}
	h := handlers.New(deps)

	job := scheduler.NewReportJob(interviews, reports, logger)
	reportCron, err := scheduler.Start(cfg.ReportCron, job, reportTimeout, logger)
	if err != nil {
		return err
	}
	defer func() { <-reportCron.Stop().Done() }()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:               cfg.ServiceName,
		ErrorHandler:          handlers.ErrorHandler,
		BodyLimit:             int(cfg.MaxResumeBytes) + 1<<20,
		DisableStartupMessage: cfg.IsProd(),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return ulid.Make().String() },
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE",
		AllowCredentials: true,
	}))
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitPerMin,
		Expiration: 1 * time.Minute,
	}))

	// Routes
	h.Register(app)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("port", cfg.Port), slog.String("env", cfg.AppEnv))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
