package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU          string           `json:"sku" validate:"required,min=1,max=50"`
	Name         string           `json:"name" validate:"required,min=1,max=200"`
	Description  string           `json:"description"`
	UnitMeasure  string           `json:"unit_measure" validate:"omitempty,max=10"`
	ReorderPoint *decimal.Decimal `json:"reorder_point,omitempty"`
}

// UpdateProductRequest entrada para actualizar un producto.
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description"`
	UnitMeasure  *string          `json:"unit_measure" validate:"omitempty,max=10"`
	ReorderPoint *decimal.Decimal `json:"reorder_point,omitempty"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	UnitMeasure  string          `json:"unit_measure"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
