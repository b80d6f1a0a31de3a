package handlers

import (
	"crypto/subtle"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/developia-II/interview-practice-backend/internal/database"
	"github.com/developia-II/interview-practice-backend/internal/models"
	"github.com/developia-II/interview-practice-backend/utils"
)

const (
	adminCookie = "admin_session"
	// Activity is computed from this many of the latest interviews.
	activitySample = 100
	activityDays   = 7
	recentCount    = 5
	reportsLimit   = 60
)

// AdminLogin checks the configured admin credentials and sets the admin
// session cookie.
func (h *Handler) AdminLogin(c *fiber.Ctx) error {
	var req models.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := utils.Validate.Struct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	if !h.cfg.AdminEnabled() {
		h.log(c).Warn("admin login attempted but ADMIN_EMAIL/ADMIN_PASSWORD are not set")
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid credentials")
	}
	if !equalTrimmed(req.Email, h.cfg.AdminEmail) || !equalTrimmed(req.Password, h.cfg.AdminPassword) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	token, err := utils.GenerateJWT(h.cfg.AdminSecret(), h.cfg.AdminSessionTTL, RoleAdmin, RoleAdmin)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create session")
	}
	c.Cookie(&fiber.Cookie{
		Name:     adminCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.AdminSessionTTL.Seconds()),
		HTTPOnly: true,
		Secure:   !h.cfg.IsDev(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"success": true})
}

// AdminSession reports whether the request carries a valid admin session.
func (h *Handler) AdminSession(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"authenticated": h.isAdmin(c)})
}

func (h *Handler) AdminLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     adminCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   !h.cfg.IsDev(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"success": true})
}

// AdminMiddleware admits requests with an admin session cookie or a user
// token whose role is admin.
func (h *Handler) AdminMiddleware(c *fiber.Ctx) error {
	if !h.isAdmin(c) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Admins only")
	}
	return c.Next()
}

func (h *Handler) isAdmin(c *fiber.Ctx) bool {
	if v := c.Cookies(adminCookie); v != "" {
		if claims, err := utils.ParseJWT(h.cfg.AdminSecret(), v); err == nil && claims.Role == RoleAdmin {
			return true
		}
	}
	if bearer, ok := strings.CutPrefix(c.Get("Authorization"), "Bearer "); ok {
		if claims, err := utils.ParseJWT(h.cfg.JWTSecret, strings.TrimSpace(bearer)); err == nil && claims.Role == RoleAdmin {
			return true
		}
	}
	return false
}

func equalTrimmed(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(strings.TrimSpace(want))) == 1
}

type ActivityPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// GetAdminStats returns aggregate counts for the dashboard
func (h *Handler) GetAdminStats(c *fiber.Ctx) error {
	ctx := c.UserContext()

	usersCount, err := h.users.Count(ctx)
	if err != nil {
		h.log(c).Error("count users failed", slog.Any("error", err))
		return utils.InternalError(c)
	}
	interviewsCount, avg, err := h.interviews.ScoreStats(ctx, "")
	if err != nil {
		h.log(c).Error("score stats failed", slog.Any("error", err))
		return utils.InternalError(c)
	}
	latest, err := h.interviews.Recent(ctx, activitySample)
	if err != nil {
		h.log(c).Error("recent interviews failed", slog.Any("error", err))
		return utils.InternalError(c)
	}
	topics, err := h.interviews.CountByTopic(ctx)
	if err != nil {
		h.log(c).Error("topic aggregation failed", slog.Any("error", err))
		return utils.InternalError(c)
	}

	recent := make([]fiber.Map, 0, recentCount)
	for _, iv := range latest[:min(recentCount, len(latest))] {
		recent = append(recent, fiber.Map{
			"id":        iv.ID.Hex(),
			"topic":     iv.Topic,
			"createdAt": iv.CreatedAt,
			"score":     iv.Score,
		})
	}

	return c.JSON(fiber.Map{
		"stats": fiber.Map{
			"totalUsers":      usersCount,
			"totalInterviews": interviewsCount,
			"averageScore":    int(math.Round(avg)),
		},
		"recentInterviews": recent,
		"activity":         Activity(latest, h.now().UTC(), activityDays),
		"topics":           topics,
	})
}

// Activity counts interviews per UTC day for the last days days, oldest
// first, labelled MM/DD.
func Activity(items []models.InterviewSummary, now time.Time, days int) []ActivityPoint {
	today := now.UTC().Truncate(24 * time.Hour)
	points := make([]ActivityPoint, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		d := today.AddDate(0, 0, i-days+1)
		points[i] = ActivityPoint{Date: d.Format("01/02")}
		index[d.Format(time.DateOnly)] = i
	}
	for _, it := range items {
		if i, ok := index[it.CreatedAt.UTC().Format(time.DateOnly)]; ok {
			points[i].Count++
		}
	}
	return points
}

// GetAllInterviews returns a page of interviews for the admin listing.
func (h *Handler) GetAllInterviews(c *fiber.Ctx) error {
	page, limit := database.Page(c.QueryInt("page", 1), c.QueryInt("limit", 20))

	filter := models.InterviewFilter{
		UserID: c.Query("userId", ""),
		Topic:  c.Query("topic", ""),
	}
	if t, err := time.Parse(time.RFC3339, c.Query("from", "")); err == nil {
		filter.From = &t
	}
	if t, err := time.Parse(time.RFC3339, c.Query("to", "")); err == nil {
		filter.To = &t
	}

	list, total, err := h.interviews.Find(c.UserContext(), filter, page, limit)
	if err != nil {
		h.log(c).Error("admin interviews failed", slog.Any("error", err))
		return utils.InternalError(c)
	}

	return c.JSON(fiber.Map{
		"interviews": list,
		"page":       page,
		"limit":      limit,
		"total":      total,
		"totalPages": database.TotalPages(total, limit),
	})
}

// GetAllUsers returns a list of users with basic public fields
func (h *Handler) GetAllUsers(c *fiber.Ctx) error {
	page, limit := database.Page(c.QueryInt("page", 1), c.QueryInt("limit", 20))
	q := strings.TrimSpace(c.Query("q", ""))

	users, total, err := h.users.List(c.UserContext(), q, page, limit)
	if err != nil {
		h.log(c).Error("admin users failed", slog.Any("error", err))
		return utils.InternalError(c)
	}

	out := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		m := u.Public()
		m["createdAt"] = u.CreatedAt
		out = append(out, m)
	}

	return c.JSON(fiber.Map{
		"users":      out,
		"page":       page,
		"limit":      limit,
		"total":      total,
		"totalPages": database.TotalPages(total, limit),
	})
}

func (h *Handler) GetReports(c *fiber.Ctx) error {
	reports, err := h.reports.List(c.UserContext(), reportsLimit)
	if err != nil {
		h.log(c).Error("list reports failed", slog.Any("error", err))
		return utils.InternalError(c)
	}
	return c.JSON(fiber.Map{"reports": reports})
}
