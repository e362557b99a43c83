package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/expense-tracker/internal/api/http/handlers"
	"github.com/spec-kit/expense-tracker/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Categories     *handlers.CategoriesHandler
	Transactions   *handlers.TransactionsHandler
	Activity       *handlers.ActivityHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Registration and login are mounted
// outside the auth middleware; everything else under /api goes through it.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/users/register", cfg.Users.Register)
	api.Post("/users/login", cfg.Users.Login)

	protected := api.Group("", cfg.AuthMiddleware.Handle)

	protected.Get("/categories", cfg.Categories.GetAllCategories)
	protected.Post("/categories", cfg.Categories.AddCategory)
	protected.Get("/categories/:categoryId", cfg.Categories.GetCategoryByID)
	protected.Put("/categories/:categoryId", cfg.Categories.UpdateCategory)
	protected.Delete("/categories/:categoryId", cfg.Categories.DeleteCategory)

	protected.Get("/categories/:categoryId/transactions", cfg.Transactions.GetAllTransactions)
	protected.Post("/categories/:categoryId/transactions", cfg.Transactions.AddTransaction)
	protected.Get("/categories/:categoryId/transactions/:transactionId", cfg.Transactions.GetTransactionByID)
	protected.Put("/categories/:categoryId/transactions/:transactionId", cfg.Transactions.UpdateTransaction)
	protected.Delete("/categories/:categoryId/transactions/:transactionId", cfg.Transactions.DeleteTransaction)

	protected.Get("/activity", cfg.Activity.Recent)
}
