package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/komiteplus/committee-backend/internal/dto"
	"github.com/komiteplus/committee-backend/internal/middleware"
	"github.com/komiteplus/committee-backend/internal/services"
)

// AdminHandler serves the user-administration page. Routes mounted
// with it sit behind the admin route guard.
type AdminHandler struct {
	authService         *services.AuthService
	notificationService *services.NotificationService
}

func NewAdminHandler(authService *services.AuthService, notificationService *services.NotificationService) *AdminHandler {
	return &AdminHandler{authService: authService, notificationService: notificationService}
}

// InviteUser creates an account with a temporary password; the
// invitee is forced through a password change on first sign-in.
func (h *AdminHandler) InviteUser(c *fiber.Ctx) error {
	adminID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.InviteUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	profile, err := h.authService.InviteUser(adminID, &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(profile)
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	profiles, err := h.authService.ListProfiles()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list users",
		})
	}
	return c.JSON(profiles)
}

// CreateNotification inserts a notification row and publishes it on
// the insert stream, the way platform-side triggers feed the channel.
func (h *AdminHandler) CreateNotification(c *fiber.Ctx) error {
	var req dto.CreateNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if req.Type == "" || req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Type and content are required",
		})
	}

	n, err := h.notificationService.Create(req.UserID, req.Type, req.Content, req.Link, req.Metadata)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create notification",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(n)
}
