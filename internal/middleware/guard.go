package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/komiteplus/committee-backend/internal/auth"
	"github.com/komiteplus/committee-backend/internal/autherrors"
	"github.com/komiteplus/committee-backend/internal/dto"
	"github.com/komiteplus/committee-backend/internal/models"
	"gorm.io/gorm"
)

const profileLocalKey = "guard_profile"

// Guard enforces the route-guard decision ladder per request: session
// presence, superadmin bypass, profile completeness, then role
// requirements. The profile is fetched fresh on every request so role
// changes take effect immediately; a failed fetch is logged and
// treated as an absent profile.
func Guard(db *gorm.DB, bootstrap auth.Bootstrap, route auth.RouteConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		var profile *models.Profile
		var row models.Profile
		lookupErr := db.First(&row, "id = ?", userID).Error
		switch {
		case lookupErr == nil:
			profile = &row
		case errors.Is(lookupErr, gorm.ErrRecordNotFound):
			profile = nil
		default:
			slog.Error("guard profile fetch failed, treating profile as absent",
				"error", &autherrors.ProfileLookupError{Subject: userID.String(), Err: lookupErr},
				"user_id", userID.String())
			profile = nil
		}

		st := auth.GuardState{
			SignedIn:  true,
			Profile:   profile,
			Bootstrap: bootstrap,
		}

		switch auth.Decide(st, route) {
		case auth.DecisionRender:
			c.Locals(profileLocalKey, profile)
			return c.Next()
		case auth.DecisionRedirectLogin:
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": true, "message": "Session required", "redirect": "/login",
			})
		case auth.DecisionRedirectCompleteProfile:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": true, "message": "Profile incomplete", "redirect": "/complete-profile",
			})
		case auth.DecisionRedirectUnauthorized:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": true, "message": "Access denied", "redirect": "/unauthorized",
			})
		default:
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: true, Message: "Auth state unresolved, retry",
			})
		}
	}
}

// GuardProfile returns the profile stashed by Guard, or nil.
func GuardProfile(c *fiber.Ctx) *models.Profile {
	p, _ := c.Locals(profileLocalKey).(*models.Profile)
	return p
}
