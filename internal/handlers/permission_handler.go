package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/komiteplus/committee-backend/internal/auth"
	"github.com/komiteplus/committee-backend/internal/dto"
	"github.com/komiteplus/committee-backend/internal/middleware"
	"github.com/komiteplus/committee-backend/internal/permissions"
	"github.com/komiteplus/committee-backend/internal/services"
)

type PermissionHandler struct {
	authService *services.AuthService
	bootstrap   auth.Bootstrap
}

func NewPermissionHandler(authService *services.AuthService, bootstrap auth.Bootstrap) *PermissionHandler {
	return &PermissionHandler{authService: authService, bootstrap: bootstrap}
}

// GetPermissions returns the caller's viewable and editable page sets.
func (h *PermissionHandler) GetPermissions(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
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

	role := ""
	if profile != nil {
		role = profile.Role
	}

	return c.JSON(dto.PermissionsResponse{
		Role:          role,
		SuperAdmin:    auth.IsSuperAdmin(profile, h.bootstrap),
		ViewablePages: auth.ViewablePages(profile, h.bootstrap),
		EditablePages: auth.EditablePages(profile, h.bootstrap),
	})
}

// GetPageAccess answers view/edit access for one page. Unknown pages
// are 404; a visitor without view access gets 403.
func (h *PermissionHandler) GetPageAccess(c *fiber.Ctx) error {
	page := permissions.Page(c.Params("page"))
	if !permissions.KnownPage(page) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Unknown page",
		})
	}

	userID, err := middleware.GetUserID(c)
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

	if !auth.CanViewPage(profile, h.bootstrap, page) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Access denied",
		})
	}

	return c.JSON(dto.PageAccessResponse{
		Page:    page,
		CanView: true,
		CanEdit: auth.CanEditPage(profile, h.bootstrap, page),
	})
}
