package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/komiteplus/committee-backend/internal/auth"
	"github.com/komiteplus/committee-backend/internal/dto"
	"github.com/komiteplus/committee-backend/internal/middleware"
	"github.com/komiteplus/committee-backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	bootstrap   auth.Bootstrap
}

func NewAuthHandler(authService *services.AuthService, bootstrap auth.Bootstrap) *AuthHandler {
	return &AuthHandler{authService: authService, bootstrap: bootstrap}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.authService.Refresh(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	// Logout never fails the caller: revocation errors are logged and
	// the client drops its session regardless.
	if err := h.authService.Logout(req.RefreshToken); err != nil {
		slog.Error("refresh token revocation failed", "error", err)
	}

	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// Me returns the caller's profile with the derived role flags the
// dashboard shell keys its navigation off.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	profile, err := h.authService.GetProfile(userID)
	if err != nil {
		slog.Error("profile fetch failed, treating profile as absent", "error", err, "user_id", userID.String())
		profile = nil
	}

	return c.JSON(dto.MeResponse{
		ID:                  user.ID,
		Email:               user.Email,
		Profile:             profile,
		ProfileComplete:     profile.Complete(),
		SuperAdmin:          auth.IsSuperAdmin(profile, h.bootstrap),
		Admin:               auth.IsAdmin(profile, h.bootstrap),
		Special:             auth.IsSpecial(profile, h.bootstrap),
		NeedsPasswordChange: user.MustChangePassword,
	})
}

// ChangePassword verifies the current password, stores the new one
// and clears the must-change flag set at invitation time.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.authService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Incorrect current password",
			})
		}
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.JSON(fiber.Map{"message": "Password updated"})
}
