package entity

import "time"

// Tipos de ubicación. Solo las INTERNAL acumulan stock en StockQuant;
// VENDOR/CUSTOMER son extremos conceptuales (el mundo exterior) y SCRAP
// es un sumidero virtual de mermas. Ninguna virtual se consulta en el
// almacén de saldos.
const (
	LocationKindInternal = "INTERNAL"
	LocationKindVendor   = "VENDOR"
	LocationKindCustomer = "CUSTOMER"
	LocationKindScrap    = "SCRAP"
)

// Location representa una ubicación de almacenamiento dentro de una bodega.
type Location struct {
	ID          string
	WarehouseID string
	Code        string // ej. "A-01-03"
	Name        string
	Kind        string // INTERNAL, VENDOR, CUSTOMER, SCRAP
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsInternal indica si la ubicación acumula stock real.
func (l *Location) IsInternal() bool {
	return l.Kind == LocationKindInternal
}

// ValidLocationKind valida el tipo de ubicación.
func ValidLocationKind(kind string) bool {
	switch kind {
	case LocationKindInternal, LocationKindVendor, LocationKindCustomer, LocationKindScrap:
		return true
	}
	return false
}
