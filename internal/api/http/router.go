package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pollution-service/internal/api/http/handlers"
	"github.com/spec-kit/pollution-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Reports        *handlers.ReportsHandler
	Users          *handlers.UsersHandler
	Favorites      *handlers.FavoritesHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	reports := api.Group("/reports")
	reports.Get("/", cfg.Reports.List)
	reports.Get("/mine", cfg.AuthMiddleware.Handle, cfg.Reports.ListMine)
	reports.Get("/:id", cfg.Reports.Get)
	reports.Post("/", cfg.AuthMiddleware.Handle, cfg.Reports.Create)
	reports.Put("/:id", cfg.AuthMiddleware.Handle, cfg.Reports.Update)
	reports.Delete("/:id", cfg.AuthMiddleware.Handle, cfg.Reports.Delete)

	favorites := api.Group("/favorites", cfg.AuthMiddleware.HandleOptional)
	favorites.Get("/", cfg.Favorites.List)
	favorites.Post("/", cfg.Favorites.Add)
	favorites.Delete("/:id", cfg.Favorites.Remove)
	favorites.Delete("/", cfg.Favorites.Clear)

	users := api.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/", auth.RequireAdmin(), cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)
}
