package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/domain/operation"
)

// Operation es el documento que un usuario edita antes de validar: cabecera +
// líneas, con un número único legible y un estado del ciclo de vida.
// Tras llegar a DONE el documento es inmutable; los movimientos y saldos se
// generan únicamente en la validación, nunca durante la edición.
type Operation struct {
	ID                    string
	Kind                  operation.Kind
	Number                string // asignado por el secuenciador al crear
	Status                operation.Status
	WarehouseID           string
	SourceLocationID      *string
	DestinationLocationID *string
	Partner               string // proveedor/cliente, texto libre
	Notes                 string
	CreatedBy             string
	ValidatedBy           *string
	ValidatedAt           *time.Time
	CreatedAt             time.Time
	Lines                 []OperationLine
}

// OperationLine es una línea del documento. Quantity es la cantidad a mover,
// salvo en ADJUSTMENT donde es la cantidad contada (valor absoluto, no delta).
// Los overrides de ubicación por línea tienen prioridad sobre los defaults
// de la cabecera.
type OperationLine struct {
	ID                    string
	OperationID           string
	ProductID             string
	Quantity              decimal.Decimal
	UnitMeasure           string
	SourceLocationID      *string
	DestinationLocationID *string
	Remarks               string
}
