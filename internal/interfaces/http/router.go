package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almoxarifado-api/internal/application/auth"
	"github.com/jhoicas/almoxarifado-api/internal/application/stock"
	"github.com/jhoicas/almoxarifado-api/internal/application/usecase"
	"github.com/jhoicas/almoxarifado-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *usecase.ProductUseCase
	DashboardUC      *usecase.DashboardUseCase
	RegisterMovement *stock.RegisterMovementUseCase
	LowStockUC       *stock.LowStockUseCase
	ReportGen        LowStockReportGenerator
	AuthUC           *auth.AuthUseCase
	JWTSecret        string
	RateLimiter      *RateLimiter
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	if deps.RateLimiter != nil {
		api.Use(deps.RateLimiter.Middleware())
	}

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido; delete solo admin)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	// /search antes que /:id para que el param no capture la palabra "search".
	products.Get("/search", productHandler.Search)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)
	products.Get("/:id/movements", productHandler.Movements)

	// Stock: movimientos y alertas (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.RegisterMovement, deps.LowStockUC, deps.ReportGen)
	stockGroup.Post("/movements", stockHandler.RegisterMovement)
	stockGroup.Get("/low-stock", stockHandler.LowStock)
	stockGroup.Get("/low-stock/report", stockHandler.LowStockReport)

	// Dashboard (protegido)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.Get)
}
