package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/servicedesk/internal/api/http/handlers"
	"github.com/spec-kit/servicedesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Comments       *handlers.CommentsHandler
	AdminTickets   *handlers.AdminTicketsHandler
	Assets         *handlers.AssetsHandler
	KB             *handlers.KBHandler
	AuthMiddleware *auth.AuthMiddleware
	UploadsDir     string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/guest", cfg.Auth.Guest)

	app.Get("/kb/articles", cfg.KB.ListArticles)
	app.Static("/uploads", cfg.UploadsDir)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Get("/:id/comments", cfg.Comments.ListComments)
	tickets.Get("/:id/comments/stream", cfg.Comments.StreamComments)
	tickets.Post("/:id/comments", cfg.Comments.AddComment)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/tickets", cfg.AdminTickets.ListTickets)
	admin.Patch("/tickets/:id/status", cfg.AdminTickets.UpdateStatus)
	admin.Delete("/tickets/:id", cfg.AdminTickets.DeleteTicket)
	admin.Post("/tickets/:id/advice", cfg.AdminTickets.Advice)
	admin.Post("/tickets/:id/comments/quick", cfg.AdminTickets.QuickReply)
	admin.Get("/dashboard", cfg.AdminTickets.Dashboard)

	admin.Get("/assets", cfg.Assets.ListAssets)
	admin.Post("/assets", cfg.Assets.CreateAsset)
	admin.Delete("/assets/:id", cfg.Assets.DeleteAsset)
}
