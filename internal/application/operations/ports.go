package operations

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que documento, saldos y libro de
// movimientos cambian juntos o no cambia nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		opRepo repository.OperationRepository,
		quantRepo repository.StockQuantRepository,
		moveRepo repository.StockMoveRepository,
	) error) error
}

// LineForPDF es una línea de documento enriquecida con los datos legibles
// (SKU, nombre de producto, códigos de ubicación) que el PDF necesita.
type LineForPDF struct {
	ProductSKU   string
	ProductName  string
	Quantity     decimal.Decimal
	UnitMeasure  string
	SourceCode   string
	DestCode     string
	Remarks      string
}

// DocumentPDFGenerator genera la representación imprimible de un documento
// de operación (albarán de recepción, entrega, traslado o acta de ajuste).
type DocumentPDFGenerator interface {
	GenerateOperationPDF(ctx context.Context, op *entity.Operation, warehouse *entity.Warehouse, lines []LineForPDF) ([]byte, error)
}
