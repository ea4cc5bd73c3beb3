package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// LocationUseCase casos de uso CRUD para ubicaciones de almacenamiento.
type LocationUseCase struct {
	repo          repository.LocationRepository
	warehouseRepo repository.WarehouseRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository, warehouseRepo repository.WarehouseRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo, warehouseRepo: warehouseRepo}
}

// Create crea una ubicación dentro de una bodega existente.
func (uc *LocationUseCase) Create(in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if !entity.ValidLocationKind(in.Kind) {
		return nil, domain.ErrInvalidInput
	}
	wh, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	location := &entity.Location{
		ID:          uuid.New().String(),
		WarehouseID: in.WarehouseID,
		Code:        in.Code,
		Name:        in.Name,
		Kind:        in.Kind,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// GetByID obtiene una ubicación por ID.
func (uc *LocationUseCase) GetByID(id string) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, nil
	}
	return toLocationResponse(location), nil
}

// ListByWarehouse lista las ubicaciones de una bodega.
func (uc *LocationUseCase) ListByWarehouse(warehouseID string, limit, offset int) (*dto.LocationListResponse, error) {
	list, err := uc.repo.ListByWarehouse(warehouseID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.CountByWarehouse(warehouseID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return &dto.LocationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	if l == nil {
		return nil
	}
	return &dto.LocationResponse{
		ID:          l.ID,
		WarehouseID: l.WarehouseID,
		Code:        l.Code,
		Name:        l.Name,
		Kind:        l.Kind,
		CreatedAt:   l.CreatedAt,
	}
}
