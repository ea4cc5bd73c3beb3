package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// LocationRepository define el puerto de persistencia para Location (DIP).
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.Location, error)
	CountByWarehouse(warehouseID string) (int, error)
	Delete(id string) error
}
