package handlers

import "github.com/gofiber/fiber/v2"

// Register mounts every route on app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/healthz", Health)

	api := app.Group("/api/v1")
	api.Get("/topics", h.Topics)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", h.Signup)
	auth.Post("/login", h.Login)
	auth.Get("/me", h.AuthMiddleware, h.Me)

	// Interview history
	interviews := api.Group("/interviews", h.AuthMiddleware)
	interviews.Post("/", h.CreateInterview)
	interviews.Get("/", h.ListInterviews)
	interviews.Get("/stats", h.InterviewStats)
	interviews.Get("/:id", h.GetInterview)

	// Live interview sessions
	sessions := api.Group("/sessions", h.AuthMiddleware)
	sessions.Post("/", h.StartSession)
	sessions.Get("/:id", h.GetSession)
	sessions.Post("/:id/answer", h.AnswerSession)
	sessions.Post("/:id/finish", h.FinishSession)
	sessions.Get("/:id/audio", h.SessionAudio)

	// Admin routes
	admin := api.Group("/admin")
	admin.Post("/login", h.AdminLogin)
	admin.Get("/session", h.AdminSession)
	admin.Post("/logout", h.AdminLogout)
	admin.Get("/stats", h.AdminMiddleware, h.GetAdminStats)
	admin.Get("/interviews", h.AdminMiddleware, h.GetAllInterviews)
	admin.Get("/users", h.AdminMiddleware, h.GetAllUsers)
	admin.Get("/reports", h.AdminMiddleware, h.GetReports)
}
