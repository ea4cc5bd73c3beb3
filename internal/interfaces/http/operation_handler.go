package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/operations"
	"github.com/jhoicas/almacen-api/internal/domain/operation"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// OperationHandler maneja las peticiones HTTP del ciclo de vida de documentos
// de operación: creación, edición, transiciones de estado y PDF.
type OperationHandler struct {
	uc *operations.OperationUseCase
}

// NewOperationHandler construye el handler.
func NewOperationHandler(uc *operations.OperationUseCase) *OperationHandler {
	return &OperationHandler{uc: uc}
}

// Create godoc
// @Summary      Crear documento de operación (nace en DRAFT)
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOperationRequest  true  "kind, warehouse_id, ubicaciones default, lines"
// @Success      201   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/operations [post]
func (h *OperationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener documento con sus líneas
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Operation ID (UUID)"
// @Success      200  {object}  dto.OperationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/operations/{id} [get]
func (h *OperationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar documentos con filtros
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "filtrar por bodega"
// @Param        kind          query  string  false  "RECEIPT|DELIVERY|TRANSFER|ADJUSTMENT"
// @Param        status        query  string  false  "DRAFT|WAITING|READY|DONE|CANCELED"
// @Param        from          query  string  false  "fecha desde (RFC3339)"
// @Param        to            query  string  false  "fecha hasta (RFC3339)"
// @Param        limit         query  int     false  "máx resultados (default 20)"
// @Param        offset        query  int     false  "desplazamiento"
// @Success      200  {object}  dto.OperationListResponse
// @Router       /api/operations [get]
func (h *OperationHandler) List(c *fiber.Ctx) error {
	filter := repository.OperationFilter{
		WarehouseID: c.Query("warehouse_id"),
		Kind:        operation.Kind(c.Query("kind")),
		Status:      operation.Status(c.Query("status")),
		Limit:       c.QueryInt("limit", 20),
		Offset:      c.QueryInt("offset", 0),
	}
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from/to deben ser RFC3339"})
	}
	filter.From, filter.To = from, to
	out, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// UpdateHeader godoc
// @Summary      Actualizar cabecera (solo DRAFT/WAITING)
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Operation ID (UUID)"
// @Param        body  body  dto.UpdateOperationHeaderRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/operations/{id} [patch]
func (h *OperationHandler) UpdateHeader(c *fiber.Ctx) error {
	var in dto.UpdateOperationHeaderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateHeader(c.Context(), c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// ReplaceLines godoc
// @Summary      Reemplazar el set completo de líneas (solo DRAFT/WAITING)
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Operation ID (UUID)"
// @Param        body  body  dto.ReplaceLinesRequest  true  "lines"
// @Success      200   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/operations/{id}/lines [put]
func (h *OperationHandler) ReplaceLines(c *fiber.Ctx) error {
	var in dto.ReplaceLinesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.ReplaceLines(c.Context(), c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar documento (solo DRAFT)
// @Tags         operations
// @Security     Bearer
// @Param        id  path  string  true  "Operation ID (UUID)"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/operations/{id} [delete]
func (h *OperationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Transition godoc
// @Summary      Solicitar transición de estado
// @Description  Valida la arista contra la máquina de estados bajo bloqueo de
//
//	fila. Si el destino es DONE ejecuta la validación del documento
//	(movimientos + saldos) en la misma transacción.
//
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Operation ID (UUID)"
// @Param        body  body  dto.TransitionRequest  true  "target_status"
// @Success      200   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/operations/{id}/transition [post]
func (h *OperationHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.TargetStatus == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "target_status es requerido"})
	}
	out, err := h.uc.Transition(c.Context(), c.Params("id"), operation.Status(in.TargetStatus), GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// GetPDF godoc
// @Summary      Descargar el documento imprimible (PDF)
// @Tags         operations
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "Operation ID (UUID)"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/operations/{id}/pdf [get]
func (h *OperationHandler) GetPDF(c *fiber.Ctx) error {
	data, number, err := h.uc.GeneratePDF(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+number+`.pdf"`)
	return c.Send(data)
}

// parseDateRange parsea los query params from/to como RFC3339.
func parseDateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}
	return from, to, nil
}
