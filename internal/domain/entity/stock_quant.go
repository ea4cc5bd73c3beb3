package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockQuant representa el saldo actual de un producto en una ubicación
// (proyección materializada del libro de movimientos). Invariante: Quantity >= 0.
//
// ReservedQuantity existe en el modelo y se descuenta al calcular disponibilidad,
// pero ningún flujo actual la escribe: queda siempre en cero hasta que exista
// una funcionalidad de reservas que la alimente.
type StockQuant struct {
	ProductID        string
	LocationID       string
	Quantity         decimal.Decimal
	ReservedQuantity decimal.Decimal
	UpdatedAt        time.Time
}

// Available devuelve la cantidad disponible para salidas: Quantity - ReservedQuantity.
func (q *StockQuant) Available() decimal.Decimal {
	return q.Quantity.Sub(q.ReservedQuantity)
}
