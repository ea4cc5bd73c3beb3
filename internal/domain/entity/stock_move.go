package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMove es un asiento inmutable del libro de movimientos: una transferencia
// de cantidad entre ubicaciones (o hacia/desde el exterior). Al menos uno de
// FromLocationID/ToLocationID está presente; ambos en traslados; solo To en
// recepciones; solo From en entregas. Quantity siempre es positiva.
//
// El libro es la fuente de verdad: el saldo de StockQuant debe ser igual a la
// suma con signo de los movimientos que tocan ese (producto, ubicación).
type StockMove struct {
	ID             string
	OperationID    string
	ProductID      string
	FromLocationID *string
	ToLocationID   *string
	Quantity       decimal.Decimal
	Date           time.Time
	CreatedBy      string // UserID
	Reason         string // texto libre, ej. "ajuste por conteo físico"
}
