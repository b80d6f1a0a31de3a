package handlers

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/developia-II/interview-practice-backend/internal/database"
	"github.com/developia-II/interview-practice-backend/internal/models"
	"github.com/developia-II/interview-practice-backend/utils"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

func (h *Handler) Signup(c *fiber.Ctx) error {
	var req models.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		h.log(c).Debug("signup body parse failed", slog.Any("error", err))
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := utils.Validate.Struct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	// Check if user exists
	if _, err := h.users.FindByEmail(c.UserContext(), req.Email); err == nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, "User already exists")
	} else if !errors.Is(err, database.ErrNotFound) {
		h.log(c).Error("signup lookup failed", slog.Any("error", err))
		return utils.InternalError(c)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to hash password")
	}

	now := h.now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      strings.TrimSpace(req.Name),
		Email:     req.Email,
		Password:  string(hashedPassword),
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.users.Create(c.UserContext(), &user); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			return utils.ErrorResponse(c, fiber.StatusConflict, "User already exists")
		}
		h.log(c).Error("create user failed", slog.Any("error", err))
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create user")
	}

	token, err := utils.GenerateJWT(h.cfg.JWTSecret, h.cfg.JWTTTL, user.ID.Hex(), user.Role)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  user.Public(),
		"token": token,
	})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		h.log(c).Debug("login body parse failed", slog.Any("error", err))
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := utils.Validate.Struct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := h.users.FindByEmail(c.UserContext(), req.Email)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			h.log(c).Error("login lookup failed", slog.Any("error", err))
		}
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	token, err := utils.GenerateJWT(h.cfg.JWTSecret, h.cfg.JWTTTL, user.ID.Hex(), user.Role)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(fiber.Map{
		"user":  user.Public(),
		"token": token,
	})
}

// AuthMiddleware requires a valid Bearer token and stores its claims in
// locals.
func (h *Handler) AuthMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Missing authorization header")
	}
	tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token")
	}

	claims, err := utils.ParseJWT(h.cfg.JWTSecret, strings.TrimSpace(tokenString))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token")
	}

	c.Locals("userId", claims.UserID)
	c.Locals("role", claims.Role)
	return c.Next()
}

// Me returns the authenticated user's profile
func (h *Handler) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals("userId").(string)
	if userID == "" {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid user id")
	}

	user, err := h.users.FindByID(c.UserContext(), oid)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found")
		}
		return utils.InternalError(c)
	}

	return c.JSON(fiber.Map{"user": user.Public()})
}

func currentUser(c *fiber.Ctx) string {
	id, _ := c.Locals("userId").(string)
	return id
}
