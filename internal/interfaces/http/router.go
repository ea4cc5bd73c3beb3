package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/operations"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	LocationUC  *usecase.LocationUseCase
	OperationUC *operations.OperationUseCase
	StockUC     *stock.QueryUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Warehouses: el catálogo de bodegas/ubicaciones lo administra admin;
	// la consulta está abierta a bodegueros.
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	locationHandler := NewLocationHandler(deps.LocationUC)
	warehouses.Post("/", adminOnly, warehouseHandler.Create)
	warehouses.Get("/", anyRole, warehouseHandler.List)
	warehouses.Get("/:id", anyRole, warehouseHandler.GetByID)
	warehouses.Put("/:id", adminOnly, warehouseHandler.Update)
	warehouses.Get("/:id/locations", anyRole, locationHandler.ListByWarehouse)

	locationsGroup := protected.Group("/locations")
	locationsGroup.Post("/", adminOnly, locationHandler.Create)
	locationsGroup.Get("/:id", anyRole, locationHandler.GetByID)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/", anyRole, productHandler.List)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Put("/:id", adminOnly, productHandler.Update)

	// Operations: ciclo de vida de documentos. Crear/editar/transicionar es
	// trabajo de bodega; ambos roles operan.
	opsGroup := protected.Group("/operations", anyRole)
	operationHandler := NewOperationHandler(deps.OperationUC)
	opsGroup.Post("/", operationHandler.Create)
	opsGroup.Get("/", operationHandler.List)
	opsGroup.Get("/:id", operationHandler.GetByID)
	opsGroup.Patch("/:id", operationHandler.UpdateHeader)
	opsGroup.Put("/:id/lines", operationHandler.ReplaceLines)
	opsGroup.Delete("/:id", operationHandler.Delete)
	opsGroup.Post("/:id/transition", operationHandler.Transition)
	opsGroup.Get("/:id/pdf", operationHandler.GetPDF)

	// Stock: consultas de saldos, libro de movimientos y reposición.
	stockGroup := protected.Group("/stock", anyRole)
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup.Get("/balance", stockHandler.GetBalance)
	stockGroup.Get("/locations/:id", stockHandler.ListByLocation)
	stockGroup.Get("/products/:id", stockHandler.ListByProduct)
	stockGroup.Get("/moves", stockHandler.ListMoves)
	stockGroup.Get("/reorder", stockHandler.ReorderList)
}
