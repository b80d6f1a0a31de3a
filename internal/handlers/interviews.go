package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/developia-II/interview-practice-backend/internal/database"
	"github.com/developia-II/interview-practice-backend/internal/models"
	"github.com/developia-II/interview-practice-backend/internal/questions"
	"github.com/developia-II/interview-practice-backend/utils"
)

// Practice time credited per interview on the dashboard.
const minutesPerInterview = 5

// CreateInterview stores a finished interview scored by the client.
func (h *Handler) CreateInterview(c *fiber.Ctx) error {
	userID := currentUser(c)
	if userID == "" {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req models.CreateInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := utils.Validate.Struct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	now := h.now().UTC()
	date := now
	if req.Date != "" {
		t, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "date must be RFC3339")
		}
		date = t.UTC()
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = questions.DefaultDifficulty
	}

	feedback := req.Feedback
	feedback.Clamp()
	iv := &models.Interview{
		UserID:     userID,
		Topic:      req.Topic,
		Difficulty: difficulty,
		Score:      feedback.Score,
		Feedback:   feedback,
		Date:       date,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := h.interviews.Create(c.UserContext(), iv); err != nil {
		h.log(c).Error("create interview failed", slog.Any("error", err))
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save interview")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"id":      iv.ID.Hex(),
	})
}

// ListInterviews returns the caller's interviews, newest first.
func (h *Handler) ListInterviews(c *fiber.Ctx) error {
	list, err := h.interviews.ListByUser(c.UserContext(), currentUser(c))
	if err != nil {
		h.log(c).Error("list interviews failed", slog.Any("error", err))
		return utils.InternalError(c)
	}
	return c.JSON(fiber.Map{"interviews": list})
}

// GetInterview returns one of the caller's interviews. Interviews owned by
// someone else are reported as missing.
func (h *Handler) GetInterview(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid interview id")
	}

	iv, err := h.interviews.GetByID(c.UserContext(), oid)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Interview not found")
		}
		h.log(c).Error("get interview failed", slog.Any("error", err))
		return utils.InternalError(c)
	}
	if iv.UserID != currentUser(c) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Interview not found")
	}
	return c.JSON(fiber.Map{"interview": iv})
}

// InterviewStats summarizes the caller's practice history.
func (h *Handler) InterviewStats(c *fiber.Ctx) error {
	total, avg, err := h.interviews.ScoreStats(c.UserContext(), currentUser(c))
	if err != nil {
		h.log(c).Error("interview stats failed", slog.Any("error", err))
		return utils.InternalError(c)
	}
	return c.JSON(fiber.Map{
		"totalInterviews": total,
		"averageScore":    int(math.Round(avg)),
		"timePracticed":   PracticeTime(total),
	})
}

// PracticeTime formats the credited practice time as "Xh Ym".
func PracticeTime(interviews int64) string {
	minutes := interviews * minutesPerInterview
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
