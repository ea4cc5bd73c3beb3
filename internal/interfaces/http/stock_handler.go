package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain/operation"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// StockHandler maneja las consultas de inventario: saldos, historial de
// movimientos y reporte de reposición. Solo lectura.
type StockHandler struct {
	uc *stock.QueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.QueryUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// GetBalance godoc
// @Summary      Saldo de un producto en una ubicación
// @Description  Devuelve cero si nunca ha habido stock del producto en la ubicación.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  true  "Product ID (UUID)"
// @Param        location_id  query  string  true  "Location ID (UUID)"
// @Success      200  {object}  dto.StockQuantResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/balance [get]
func (h *StockHandler) GetBalance(c *fiber.Ctx) error {
	productID, locationID := c.Query("product_id"), c.Query("location_id")
	if productID == "" || locationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y location_id son requeridos"})
	}
	out, err := h.uc.GetBalance(c.Context(), productID, locationID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// ListByLocation godoc
// @Summary      Saldos de una ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "Location ID (UUID)"
// @Param        limit   query  int     false  "máx resultados (default 20)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  dto.StockQuantResponse
// @Router       /api/stock/locations/{id} [get]
func (h *StockHandler) ListByLocation(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	out, err := h.uc.ListByLocation(c.Context(), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// ListByProduct godoc
// @Summary      Saldos de un producto en todas sus ubicaciones
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "Product ID (UUID)"
// @Param        limit   query  int     false  "máx resultados (default 20)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  dto.StockQuantResponse
// @Router       /api/stock/products/{id} [get]
func (h *StockHandler) ListByProduct(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	out, err := h.uc.ListByProduct(c.Context(), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// ListMoves godoc
// @Summary      Historial de movimientos (libro, solo append)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "filtrar por producto"
// @Param        location_id   query  string  false  "matchea origen o destino"
// @Param        warehouse_id  query  string  false  "filtrar por bodega del documento"
// @Param        kind          query  string  false  "tipo del documento origen"
// @Param        from          query  string  false  "fecha desde (RFC3339)"
// @Param        to            query  string  false  "fecha hasta (RFC3339)"
// @Param        limit         query  int     false  "máx resultados (default 50)"
// @Param        offset        query  int     false  "desplazamiento"
// @Success      200  {object}  dto.StockMoveListResponse
// @Router       /api/stock/moves [get]
func (h *StockHandler) ListMoves(c *fiber.Ctx) error {
	filter := repository.StockMoveFilter{
		ProductID:   c.Query("product_id"),
		LocationID:  c.Query("location_id"),
		WarehouseID: c.Query("warehouse_id"),
		Kind:        operation.Kind(c.Query("kind")),
		Limit:       c.QueryInt("limit", 50),
		Offset:      c.QueryInt("offset", 0),
	}
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from/to deben ser RFC3339"})
	}
	filter.From, filter.To = from, to
	out, err := h.uc.ListMoves(c.Context(), filter)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// ReorderList godoc
// @Summary      Productos por debajo de su punto de reorden
// @Description  Chequeo de umbral simple: on-hand total (o por bodega) contra
//
//	reorder_point del producto.
//
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "filtrar por bodega. Vacío = stock global."
// @Success      200  {array}  dto.ReorderSuggestionDTO
// @Router       /api/stock/reorder [get]
func (h *StockHandler) ReorderList(c *fiber.Ctx) error {
	list, err := h.uc.ReorderList(c.Context(), c.Query("warehouse_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{
		"total": len(list),
		"items": list,
	})
}
