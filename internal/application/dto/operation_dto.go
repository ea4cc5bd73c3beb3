package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationLineRequest una línea del documento. Quantity es la cantidad a mover;
// en AJUSTE es la cantidad contada (absoluta). Los *_location_id por línea
// tienen prioridad sobre los defaults de la cabecera.
type OperationLineRequest struct {
	ProductID             string          `json:"product_id" validate:"required,uuid"`
	Quantity              decimal.Decimal `json:"quantity" validate:"required"`
	UnitMeasure           string          `json:"unit_measure" validate:"omitempty,max=10"`
	SourceLocationID      *string         `json:"source_location_id,omitempty" validate:"omitempty,uuid"`
	DestinationLocationID *string         `json:"destination_location_id,omitempty" validate:"omitempty,uuid"`
	Remarks               string          `json:"remarks" validate:"omitempty,max=500"`
}

// CreateOperationRequest body para POST /api/operations.
type CreateOperationRequest struct {
	Kind                  string                 `json:"kind" validate:"required,oneof=RECEIPT DELIVERY TRANSFER ADJUSTMENT"`
	WarehouseID           string                 `json:"warehouse_id" validate:"required,uuid"`
	SourceLocationID      *string                `json:"source_location_id,omitempty" validate:"omitempty,uuid"`
	DestinationLocationID *string                `json:"destination_location_id,omitempty" validate:"omitempty,uuid"`
	Partner               string                 `json:"partner" validate:"omitempty,max=200"`
	Notes                 string                 `json:"notes" validate:"omitempty,max=1000"`
	Lines                 []OperationLineRequest `json:"lines"`
}

// UpdateOperationHeaderRequest body para PATCH /api/operations/:id (solo DRAFT/WAITING).
type UpdateOperationHeaderRequest struct {
	SourceLocationID      *string `json:"source_location_id,omitempty" validate:"omitempty,uuid"`
	DestinationLocationID *string `json:"destination_location_id,omitempty" validate:"omitempty,uuid"`
	Partner               *string `json:"partner" validate:"omitempty,max=200"`
	Notes                 *string `json:"notes" validate:"omitempty,max=1000"`
}

// ReplaceLinesRequest body para PUT /api/operations/:id/lines (reemplazo total).
type ReplaceLinesRequest struct {
	Lines []OperationLineRequest `json:"lines"`
}

// TransitionRequest body para POST /api/operations/:id/transition.
type TransitionRequest struct {
	TargetStatus string `json:"target_status" validate:"required,oneof=DRAFT WAITING READY DONE CANCELED"`
}

// OperationLineResponse salida de una línea.
type OperationLineResponse struct {
	ID                    string          `json:"id"`
	ProductID             string          `json:"product_id"`
	Quantity              decimal.Decimal `json:"quantity"`
	UnitMeasure           string          `json:"unit_measure"`
	SourceLocationID      *string         `json:"source_location_id,omitempty"`
	DestinationLocationID *string         `json:"destination_location_id,omitempty"`
	Remarks               string          `json:"remarks,omitempty"`
}

// OperationResponse salida de un documento de operación.
type OperationResponse struct {
	ID                    string                  `json:"id"`
	Kind                  string                  `json:"kind"`
	Number                string                  `json:"number"`
	Status                string                  `json:"status"`
	WarehouseID           string                  `json:"warehouse_id"`
	SourceLocationID      *string                 `json:"source_location_id,omitempty"`
	DestinationLocationID *string                 `json:"destination_location_id,omitempty"`
	Partner               string                  `json:"partner,omitempty"`
	Notes                 string                  `json:"notes,omitempty"`
	CreatedBy             string                  `json:"created_by"`
	ValidatedBy           *string                 `json:"validated_by,omitempty"`
	ValidatedAt           *time.Time              `json:"validated_at,omitempty"`
	CreatedAt             time.Time               `json:"created_at"`
	Lines                 []OperationLineResponse `json:"lines"`
}

// OperationListResponse lista paginada de documentos.
type OperationListResponse struct {
	Items []OperationResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
