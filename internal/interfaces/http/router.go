package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Recepciones-api/internal/application/auth"
	apprecv "github.com/jhoicas/Recepciones-api/internal/application/receiving"
	"github.com/jhoicas/Recepciones-api/internal/application/usecase"
	"github.com/jhoicas/Recepciones-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	UserUC          *usecase.UserUseCase
	WarehouseUC     *usecase.WarehouseUseCase
	ProductUC       *usecase.ProductUseCase
	PurchaseOrderUC *usecase.PurchaseOrderUseCase
	ReceivingUC     *apprecv.WorkflowUseCase
	AuthUC          *auth.AuthUseCase
	JWTSecret       string
}

// Router registra las rutas de la API. La llegada la registra bodega, la
// inspección calidad y la aprobación solo admin; admin pasa en todas.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", RequireRole(), warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", RequireRole(), warehouseHandler.Update)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequireRole(), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", RequireRole(), productHandler.Update)

	// Users (solo admin)
	users := protected.Group("/users", RequireRole())
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Purchase orders (protegido, lectura + informe de obra)
	orders := protected.Group("/purchase-orders")
	poHandler := NewPurchaseOrderHandler(deps.PurchaseOrderUC)
	orders.Get("/", poHandler.List)
	orders.Get("/:id", poHandler.GetByID)
	orders.Put("/items/:itemId/field-report", RequireRole(entity.RoleBodeguero), poHandler.VerifyFieldReport)

	// Receipts (protegido): el flujo completo de recepción
	receipts := protected.Group("/receipts")
	receivingHandler := NewReceivingHandler(deps.ReceivingUC)
	receipts.Post("/", RequireRole(entity.RoleBodeguero), receivingHandler.Create)
	receipts.Get("/", receivingHandler.List)
	receipts.Get("/:id", receivingHandler.GetByID)
	receipts.Delete("/:id", RequireRole(), receivingHandler.Delete)
	receipts.Post("/:id/arrive", RequireRole(entity.RoleBodeguero), receivingHandler.MarkArrived)
	receipts.Post("/:id/qc", RequireRole(entity.RoleCalidad), receivingHandler.QCCheck)
	receipts.Post("/:id/qc/pass-all", RequireRole(entity.RoleCalidad), receivingHandler.PassAllQC)
	receipts.Post("/:id/approve", RequireRole(), receivingHandler.Approve)
	receipts.Post("/:id/cancel", RequireRole(entity.RoleBodeguero), receivingHandler.Cancel)
	receipts.Get("/:id/summary", receivingHandler.Summary)
	receipts.Get("/:id/pdf", receivingHandler.ActaPDF)
	receipts.Post("/:id/delivery-note", RequireRole(entity.RoleBodeguero), receivingHandler.SuggestArrival)
}
