package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/form-service/internal/api/http/handlers"
	"github.com/spec-kit/form-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Form           *handlers.FormHandler
	Submissions    *handlers.SubmissionsHandler
	Files          *handlers.FilesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/users/register", cfg.Users.Register)
	authGroup.Post("/users/login", cfg.Users.Login)

	formGroup := app.Group("/form", cfg.AuthMiddleware.Handle)
	formGroup.Get("/", cfg.Form.Open)
	formGroup.Patch("/fields", cfg.Form.SetField)
	formGroup.Post("/fields/:name/blur", cfg.Form.Blur)
	formGroup.Post("/submit", cfg.Form.Submit)
	formGroup.Post("/close", cfg.Form.Close)

	subsGroup := app.Group("/submissions", cfg.AuthMiddleware.Handle)
	subsGroup.Get("/", cfg.Submissions.List)
	subsGroup.Get("/:id", cfg.Submissions.Get)
	subsGroup.Delete("/:id", auth.RequireAdmin(), cfg.Submissions.Delete)

	storageGroup := app.Group("/storage", cfg.AuthMiddleware.Handle)
	storageGroup.Post("/files", cfg.Files.Upload)
	storageGroup.Get("/files", cfg.Files.List)

	filesGroup := app.Group("/files", cfg.AuthMiddleware.Handle)
	filesGroup.Get("/*", cfg.Files.Serve)
}
