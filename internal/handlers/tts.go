package handlers

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/developia-II/interview-practice-backend/internal/services"
	"github.com/developia-II/interview-practice-backend/utils"
)

// SessionAudio speaks the interviewer's latest line.
func (h *Handler) SessionAudio(c *fiber.Ctx) error {
	text, err := h.sessions.LastPrompt(c.UserContext(), currentUser(c), c.Params("id"))
	if err != nil {
		return h.sessionError(c, err)
	}
	if strings.TrimSpace(text) == "" {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Nothing to speak")
	}
	if h.voice == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Voice synthesis is not configured")
	}

	audio, ctype, err := h.voice.Synthesize(c.UserContext(), text)
	if err != nil {
		if errors.Is(err, services.ErrVoiceUnavailable) {
			return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Voice synthesis is not configured")
		}
		h.log(c).Error("voice synthesis failed", slog.Any("error", err))
		return utils.ErrorResponse(c, fiber.StatusBadGateway, "Voice synthesis failed")
	}

	c.Set(fiber.HeaderContentType, ctype)
	return c.Send(audio)
}
