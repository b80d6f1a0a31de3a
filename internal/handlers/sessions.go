package handlers

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/developia-II/interview-practice-backend/internal/models"
	"github.com/developia-II/interview-practice-backend/internal/services"
	"github.com/developia-II/interview-practice-backend/utils"
)

// StartSession begins a live interview. The body is JSON, or multipart form
// when a resume file is attached.
func (h *Handler) StartSession(c *fiber.Ctx) error {
	var req models.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := utils.Validate.Struct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	resume, err := h.readResume(c)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFileTooLarge):
			return utils.ErrorResponse(c, fiber.StatusRequestEntityTooLarge, "Resume file is too large")
		case errors.Is(err, services.ErrUnsupportedFile):
			return utils.ErrorResponse(c, fiber.StatusUnsupportedMediaType, "Resume must be a PDF or plain text file")
		default:
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Could not read resume upload")
		}
	}

	sess, err := h.sessions.Start(c.UserContext(), currentUser(c), req, resume)
	if err != nil {
		h.log(c).Error("start session failed", slog.Any("error", err))
		return utils.InternalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SessionResponse{
		Session: publicSession(sess),
		Message: sess.LastPrompt(),
	})
}

// readResume returns nil when the request carries no resume file.
func (h *Handler) readResume(c *fiber.Ctx) (*services.Resume, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	files := form.File["resume"]
	if len(files) == 0 {
		return nil, nil
	}
	fh := files[0]
	if h.cfg.MaxResumeBytes > 0 && fh.Size > h.cfg.MaxResumeBytes {
		return nil, services.ErrFileTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.cfg.MaxResumeBytes+1))
	if err != nil {
		return nil, err
	}
	return services.ParseResume(fh.Filename, data, h.cfg.MaxResumeBytes)
}

func (h *Handler) GetSession(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c.UserContext(), currentUser(c), c.Params("id"))
	if err != nil {
		return h.sessionError(c, err)
	}
	return c.JSON(models.SessionResponse{Session: publicSession(sess), Message: sess.LastPrompt()})
}

func (h *Handler) AnswerSession(c *fiber.Ctx) error {
	var req models.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := utils.Validate.Struct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	sess, reply, err := h.sessions.Answer(c.UserContext(), currentUser(c), c.Params("id"), req.Answer)
	if err != nil {
		return h.sessionError(c, err)
	}
	return c.JSON(models.SessionResponse{Session: publicSession(sess), Message: reply})
}

// FinishSession scores the interview and returns the saved feedback.
func (h *Handler) FinishSession(c *fiber.Ctx) error {
	iv, err := h.sessions.Finish(c.UserContext(), currentUser(c), c.Params("id"))
	if err != nil {
		return h.sessionError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"id":       iv.ID.Hex(),
		"feedback": iv.Feedback,
	})
}

func (h *Handler) sessionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Interview session not found")
	case errors.Is(err, services.ErrSessionCompleted):
		return utils.ErrorResponse(c, fiber.StatusConflict, "Interview is already complete")
	case errors.Is(err, services.ErrSessionBusy):
		return utils.ErrorResponse(c, fiber.StatusConflict, "Interview session is busy, try again")
	case errors.Is(err, services.ErrEmptyAnswer):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "answer is required")
	default:
		h.log(c).Error("session operation failed", slog.Any("error", err))
		return utils.InternalError(c)
	}
}

// publicSession strips the resume body from API responses.
func publicSession(s *models.Session) *models.Session {
	out := *s
	out.ResumeText = ""
	return &out
}
