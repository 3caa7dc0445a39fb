package handlers

import (
	"errors"

	fiber "github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mintenance/mintenance/internal/db/models"
	"github.com/mintenance/mintenance/internal/services"
	"github.com/mintenance/mintenance/internal/types"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	service *services.User
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(service *services.User) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// CreateUser creates a new user
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req types.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(err.Error()))
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(err.Error()))
	}

	role := models.UserRoleHomeowner
	if req.Role != "" {
		parsed, err := models.ParseUserRole(req.Role)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(types.ErrInvalidInput(err.Error()))
		}
		role = parsed
	}

	id, err := h.service.CreateUser(c.Context(), &models.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     role,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(ErrMsgCreateUserFailed))
	}

	return c.Status(fiber.StatusCreated).
		JSON(types.Success(types.CreateUserResponse{UserID: id}))
}

// GetUser retrieves a user by ID, or by username when the username query
// parameter is set
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	if username := c.Query("username"); username != "" {
		user, err := h.service.GetUserByUsername(c.Context(), username)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).
				JSON(types.ErrNotFound(ErrMsgUserNotFound))
		} else if err != nil {
			return c.Status(fiber.StatusInternalServerError).
				JSON(types.ErrServer(ErrMsgGetUserFailed))
		}
		return c.JSON(types.Success(user))
	}

	userID, err := c.ParamsInt("id")
	if err != nil || userID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgUserIDRequired))
	}

	user, err := h.service.GetUserByID(c.Context(), uint(userID))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).
			JSON(types.ErrNotFound(ErrMsgUserNotFound))
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(ErrMsgGetUserFailed))
	}

	return c.JSON(types.Success(user))
}

// ListUsers retrieves all users
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	opts := getPaginationOptions(c)

	users, err := h.service.GetAllUsers(c.Context(), opts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(ErrMsgGetUsersFailed))
	}

	return c.JSON(types.Success(users))
}

// DeleteUser removes a user by ID
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgUserIDRequired))
	}

	err = h.service.DeleteUser(c.Context(), uint(userID))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).
			JSON(types.ErrNotFound(ErrMsgUserNotFound))
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(ErrMsgDeleteUserFailed))
	}

	return c.JSON(types.Success(nil))
}
