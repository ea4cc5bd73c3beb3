package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/operation"
)

// OperationFilter filtros para listar documentos de operación.
type OperationFilter struct {
	WarehouseID string
	Kind        operation.Kind
	Status      operation.Status
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// OperationRepository define el puerto de persistencia para Operation y sus líneas.
// Usado dentro de transacciones para el motor de validación.
type OperationRepository interface {
	Create(op *entity.Operation) error
	GetByID(id string) (*entity.Operation, error)
	// GetForUpdate bloquea la fila del documento (SELECT FOR UPDATE) para
	// serializar intentos de transición concurrentes.
	GetForUpdate(id string) (*entity.Operation, error)
	UpdateHeader(op *entity.Operation) error
	// UpdateStatus cambia estado y, si aplica, estampa validador y fecha.
	UpdateStatus(id string, status operation.Status, validatedBy *string, validatedAt *time.Time) error
	// ReplaceLines reemplaza el set completo de líneas del documento.
	ReplaceLines(operationID string, lines []entity.OperationLine) error
	Delete(id string) error
	List(filter OperationFilter) ([]*entity.Operation, error)
	// Count total de documentos que matchean el filtro (sin Limit/Offset).
	Count(filter OperationFilter) (int, error)
}
