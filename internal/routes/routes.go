package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/komiteplus/committee-backend/internal/auth"
	"github.com/komiteplus/committee-backend/internal/config"
	"github.com/komiteplus/committee-backend/internal/handlers"
	"github.com/komiteplus/committee-backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	bootstrap auth.Bootstrap,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	permissionHandler *handlers.PermissionHandler,
	notificationHandler *handlers.NotificationHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth is public, with a stricter rate limit: 10 req/min per IP
	authGroup := api.Group("/auth")
	authGroup.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)

	// Session-holder routes. Logout, the profile endpoints and the
	// password change run before the route guard on purpose: a member
	// with an incomplete profile or a pending password change must
	// still reach them.
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Get("/auth/me", middleware.JWTProtected(cfg), authHandler.Me)
	api.Post("/auth/password", middleware.JWTProtected(cfg), authHandler.ChangePassword)
	api.Put("/profile", middleware.JWTProtected(cfg), profileHandler.CompleteProfile)

	// Member routes behind the standard guard (profile completeness
	// enforced, no role requirement).
	member := api.Group("/", middleware.JWTProtected(cfg),
		middleware.Guard(db, bootstrap, auth.RouteConfig{}))
	member.Get("/permissions", permissionHandler.GetPermissions)
	member.Get("/pages/:page", permissionHandler.GetPageAccess)
	member.Get("/notifications", notificationHandler.List)
	member.Get("/notifications/unread-count", notificationHandler.UnreadCount)
	member.Put("/notifications/read-all", notificationHandler.MarkAllRead)
	member.Put("/notifications/:id/read", notificationHandler.MarkRead)

	// User administration requires the admin role; the guard also
	// lets superadmins through regardless of profile completeness.
	admin := api.Group("/admin", middleware.JWTProtected(cfg),
		middleware.Guard(db, bootstrap, auth.RouteConfig{RequiresAdmin: true}))
	admin.Get("/users", adminHandler.ListUsers)
	admin.Post("/users", adminHandler.InviteUser)
	admin.Post("/notifications", adminHandler.CreateNotification)
}
