// Package stock implementa los casos de uso de solo lectura sobre el
// inventario: saldos por ubicación/producto, historial de movimientos para
// auditoría y el reporte de reposición por umbral.
package stock

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// QueryUseCase consultas de inventario. No muta saldos ni libro: toda
// mutación pasa por el motor de validación de operaciones.
type QueryUseCase struct {
	quantRepo repository.StockQuantRepository
	moveRepo  repository.StockMoveRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(quantRepo repository.StockQuantRepository, moveRepo repository.StockMoveRepository) *QueryUseCase {
	return &QueryUseCase{quantRepo: quantRepo, moveRepo: moveRepo}
}

// GetBalance saldo de un producto en una ubicación (cero si no hay fila).
func (uc *QueryUseCase) GetBalance(ctx context.Context, productID, locationID string) (*dto.StockQuantResponse, error) {
	q, err := uc.quantRepo.Get(productID, locationID)
	if err != nil {
		return nil, err
	}
	return toQuantResponse(q), nil
}

// ListByLocation saldos de una ubicación.
func (uc *QueryUseCase) ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]dto.StockQuantResponse, error) {
	list, err := uc.quantRepo.ListByLocation(locationID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockQuantResponse, 0, len(list))
	for _, q := range list {
		out = append(out, *toQuantResponse(q))
	}
	return out, nil
}

// ListByProduct saldos de un producto en todas sus ubicaciones.
func (uc *QueryUseCase) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]dto.StockQuantResponse, error) {
	list, err := uc.quantRepo.ListByProduct(productID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockQuantResponse, 0, len(list))
	for _, q := range list {
		out = append(out, *toQuantResponse(q))
	}
	return out, nil
}

// ListMoves historial de movimientos con filtros (producto, ubicación,
// bodega, tipo de documento, rango de fechas).
func (uc *QueryUseCase) ListMoves(ctx context.Context, filter repository.StockMoveFilter) (*dto.StockMoveListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	list, err := uc.moveRepo.List(filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.moveRepo.Count(filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMoveResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.StockMoveResponse{
			ID:             m.ID,
			OperationID:    m.OperationID,
			ProductID:      m.ProductID,
			FromLocationID: m.FromLocationID,
			ToLocationID:   m.ToLocationID,
			Quantity:       m.Quantity,
			Date:           m.Date,
			CreatedBy:      m.CreatedBy,
			Reason:         m.Reason,
		})
	}
	return &dto.StockMoveListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}, nil
}

// ReorderList productos por debajo de su punto de reorden (chequeo de umbral
// simple; no pronostica demanda ni sugiere rutas).
func (uc *QueryUseCase) ReorderList(ctx context.Context, warehouseID string) ([]dto.ReorderSuggestionDTO, error) {
	rows, err := uc.quantRepo.ListBelowReorder(warehouseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReorderSuggestionDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ReorderSuggestionDTO{
			ProductID:    r.Product.ID,
			SKU:          r.Product.SKU,
			ProductName:  r.Product.Name,
			CurrentStock: r.OnHand,
			ReorderPoint: r.Product.ReorderPoint,
			MissingQty:   r.Product.ReorderPoint.Sub(r.OnHand),
		})
	}
	return out, nil
}

func toQuantResponse(q *entity.StockQuant) *dto.StockQuantResponse {
	if q == nil {
		return nil
	}
	return &dto.StockQuantResponse{
		ProductID:        q.ProductID,
		LocationID:       q.LocationID,
		Quantity:         q.Quantity,
		ReservedQuantity: q.ReservedQuantity,
		Available:        q.Available(),
		UpdatedAt:        q.UpdatedAt,
	}
}
