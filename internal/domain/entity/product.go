package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario.
// Inmutable una vez referenciado por stock; el stock por ubicación vive en StockQuant.
type Product struct {
	ID           string
	SKU          string // código único
	Name         string
	Description  string
	UnitMeasure  string          // unidad de medida: UND, KG, LT, etc.
	ReorderPoint decimal.Decimal // umbral de reposición (0 = sin regla)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
