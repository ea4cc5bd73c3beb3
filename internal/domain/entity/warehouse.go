package entity

import "time"

// Warehouse representa una bodega física que agrupa ubicaciones de almacenamiento.
type Warehouse struct {
	ID        string
	Code      string // código corto, ej. "BOD1"
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
