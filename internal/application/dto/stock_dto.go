package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockQuantResponse saldo de un producto en una ubicación.
type StockQuantResponse struct {
	ProductID        string          `json:"product_id"`
	LocationID       string          `json:"location_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReservedQuantity decimal.Decimal `json:"reserved_quantity"`
	Available        decimal.Decimal `json:"available"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// StockMoveResponse asiento del libro de movimientos.
type StockMoveResponse struct {
	ID             string          `json:"id"`
	OperationID    string          `json:"operation_id"`
	ProductID      string          `json:"product_id"`
	FromLocationID *string         `json:"from_location_id,omitempty"`
	ToLocationID   *string         `json:"to_location_id,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	Date           time.Time       `json:"date"`
	CreatedBy      string          `json:"created_by"`
	Reason         string          `json:"reason,omitempty"`
}

// StockMoveListResponse historial de movimientos.
type StockMoveListResponse struct {
	Items []StockMoveResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// ReorderSuggestionDTO producto por debajo de su punto de reorden.
type ReorderSuggestionDTO struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	MissingQty   decimal.Decimal `json:"missing_qty"` // ReorderPoint - CurrentStock
}
