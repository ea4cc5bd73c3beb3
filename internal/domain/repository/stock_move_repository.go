package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/operation"
)

// StockMoveFilter filtros para el historial de movimientos (auditoría).
type StockMoveFilter struct {
	ProductID   string
	LocationID  string // matchea from o to
	WarehouseID string
	Kind        operation.Kind // tipo del documento que originó el movimiento
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// StockMoveRepository define el puerto del libro de movimientos. Solo append:
// no expone update ni delete; las correcciones se hacen con un nuevo documento
// de ajuste, nunca mutando la historia.
type StockMoveRepository interface {
	Create(move *entity.StockMove) error
	ListByOperation(operationID string) ([]*entity.StockMove, error)
	List(filter StockMoveFilter) ([]*entity.StockMove, error)
	// Count total de movimientos que matchean el filtro (sin Limit/Offset).
	Count(filter StockMoveFilter) (int, error)
}
