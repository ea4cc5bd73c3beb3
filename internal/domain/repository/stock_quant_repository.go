package repository

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// StockQuantRepository define el puerto para consultar/actualizar saldos por
// producto+ubicación. Las mutaciones solo ocurren dentro de la transacción
// del motor de validación; el invariante Quantity >= 0 se verifica antes de
// cada Upsert.
type StockQuantRepository interface {
	// Get obtiene el saldo; si no existe fila devuelve una en cero (creación perezosa).
	Get(productID, locationID string) (*entity.StockQuant, error)
	// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(productID, locationID string) (*entity.StockQuant, error)
	Upsert(quant *entity.StockQuant) error
	ListByLocation(locationID string, limit, offset int) ([]*entity.StockQuant, error)
	ListByProduct(productID string, limit, offset int) ([]*entity.StockQuant, error)
	// ListBelowReorder lista productos cuyo stock agregado (opcionalmente
	// filtrado por bodega) está por debajo del punto de reorden.
	ListBelowReorder(warehouseID string) ([]*ReorderRow, error)
}

// ReorderRow fila del reporte de reposición (chequeo de umbral simple).
type ReorderRow struct {
	Product entity.Product
	OnHand  decimal.Decimal
}
