package operations_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/operation"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// memStore almacén en memoria compartido por los fakes de repositorio.
// Simula la semántica transaccional relevante: GetForUpdate devuelve copias
// (los cambios no son visibles hasta Upsert) y el txRunner restaura un
// snapshot si la función devuelve error (rollback).
type memStore struct {
	products   map[string]*entity.Product
	warehouses map[string]*entity.Warehouse
	locations  map[string]*entity.Location
	operations map[string]*entity.Operation
	quants     map[string]*entity.StockQuant // clave producto|ubicación
	moves      []*entity.StockMove
	seq        map[string]int64
}

func newMemStore() *memStore {
	return &memStore{
		products:   make(map[string]*entity.Product),
		warehouses: make(map[string]*entity.Warehouse),
		locations:  make(map[string]*entity.Location),
		operations: make(map[string]*entity.Operation),
		quants:     make(map[string]*entity.StockQuant),
		seq:        make(map[string]int64),
	}
}

func quantKey(productID, locationID string) string {
	return productID + "|" + locationID
}

// setQuant siembra un saldo inicial.
func (s *memStore) setQuant(productID, locationID string, qty decimal.Decimal) {
	s.quants[quantKey(productID, locationID)] = &entity.StockQuant{
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   qty,
		UpdatedAt:  time.Now(),
	}
}

// balance devuelve el saldo registrado (cero si no hay fila).
func (s *memStore) balance(productID, locationID string) decimal.Decimal {
	if q, ok := s.quants[quantKey(productID, locationID)]; ok {
		return q.Quantity
	}
	return decimal.Zero
}

// movesFor devuelve los asientos del libro para un documento.
func (s *memStore) movesFor(operationID string) []*entity.StockMove {
	var out []*entity.StockMove
	for _, m := range s.moves {
		if m.OperationID == operationID {
			out = append(out, m)
		}
	}
	return out
}

// ledgerSum suma con signo los movimientos que tocan (producto, ubicación).
// Propiedad: debe coincidir con el saldo de StockQuant.
func (s *memStore) ledgerSum(productID, locationID string) decimal.Decimal {
	sum := decimal.Zero
	for _, m := range s.moves {
		if m.ProductID != productID {
			continue
		}
		if m.ToLocationID != nil && *m.ToLocationID == locationID {
			sum = sum.Add(m.Quantity)
		}
		if m.FromLocationID != nil && *m.FromLocationID == locationID {
			sum = sum.Sub(m.Quantity)
		}
	}
	return sum
}

func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	for k, v := range s.operations {
		op := *v
		op.Lines = append([]entity.OperationLine(nil), v.Lines...)
		cp.operations[k] = &op
	}
	for k, v := range s.quants {
		q := *v
		cp.quants[k] = &q
	}
	cp.moves = append([]*entity.StockMove(nil), s.moves...)
	return cp
}

func (s *memStore) restore(snap *memStore) {
	s.operations = snap.operations
	s.quants = snap.quants
	s.moves = snap.moves
}

// ── Fakes de repositorio ──────────────────────────────────────────────────────

type fakeProductRepo struct{ s *memStore }

func (r *fakeProductRepo) Create(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakeProductRepo) Update(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		out = append(out, p)
	}
	return out, nil
}
func (r *fakeProductRepo) Count() (int, error)    { return len(r.s.products), nil }
func (r *fakeProductRepo) Delete(id string) error { delete(r.s.products, id); return nil }

type fakeWarehouseRepo struct{ s *memStore }

func (r *fakeWarehouseRepo) Create(w *entity.Warehouse) error { r.s.warehouses[w.ID] = w; return nil }
func (r *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return r.s.warehouses[id], nil
}
func (r *fakeWarehouseRepo) Update(w *entity.Warehouse) error { r.s.warehouses[w.ID] = w; return nil }
func (r *fakeWarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.s.warehouses {
		out = append(out, w)
	}
	return out, nil
}
func (r *fakeWarehouseRepo) Count() (int, error)    { return len(r.s.warehouses), nil }
func (r *fakeWarehouseRepo) Delete(id string) error { delete(r.s.warehouses, id); return nil }

type fakeLocationRepo struct{ s *memStore }

func (r *fakeLocationRepo) Create(l *entity.Location) error { r.s.locations[l.ID] = l; return nil }
func (r *fakeLocationRepo) GetByID(id string) (*entity.Location, error) {
	return r.s.locations[id], nil
}
func (r *fakeLocationRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.s.locations {
		if l.WarehouseID == warehouseID {
			out = append(out, l)
		}
	}
	return out, nil
}
func (r *fakeLocationRepo) CountByWarehouse(warehouseID string) (int, error) {
	list, err := r.ListByWarehouse(warehouseID, 0, 0)
	return len(list), err
}
func (r *fakeLocationRepo) Delete(id string) error { delete(r.s.locations, id); return nil }

type fakeOperationRepo struct{ s *memStore }

func (r *fakeOperationRepo) Create(op *entity.Operation) error {
	cp := *op
	cp.Lines = append([]entity.OperationLine(nil), op.Lines...)
	r.s.operations[op.ID] = &cp
	return nil
}
func (r *fakeOperationRepo) GetByID(id string) (*entity.Operation, error) {
	op, ok := r.s.operations[id]
	if !ok {
		return nil, nil
	}
	cp := *op
	cp.Lines = append([]entity.OperationLine(nil), op.Lines...)
	return &cp, nil
}
func (r *fakeOperationRepo) GetForUpdate(id string) (*entity.Operation, error) {
	return r.GetByID(id)
}
func (r *fakeOperationRepo) UpdateHeader(op *entity.Operation) error {
	cur, ok := r.s.operations[op.ID]
	if !ok {
		return fmt.Errorf("operación %s no existe", op.ID)
	}
	cur.SourceLocationID = op.SourceLocationID
	cur.DestinationLocationID = op.DestinationLocationID
	cur.Partner = op.Partner
	cur.Notes = op.Notes
	return nil
}
func (r *fakeOperationRepo) UpdateStatus(id string, status operation.Status, validatedBy *string, validatedAt *time.Time) error {
	cur, ok := r.s.operations[id]
	if !ok {
		return fmt.Errorf("operación %s no existe", id)
	}
	cur.Status = status
	if validatedBy != nil {
		cur.ValidatedBy = validatedBy
	}
	if validatedAt != nil {
		cur.ValidatedAt = validatedAt
	}
	return nil
}
func (r *fakeOperationRepo) ReplaceLines(operationID string, lines []entity.OperationLine) error {
	cur, ok := r.s.operations[operationID]
	if !ok {
		return fmt.Errorf("operación %s no existe", operationID)
	}
	cur.Lines = append([]entity.OperationLine(nil), lines...)
	return nil
}
func (r *fakeOperationRepo) Delete(id string) error { delete(r.s.operations, id); return nil }
func (r *fakeOperationRepo) matching(filter repository.OperationFilter) []*entity.Operation {
	var out []*entity.Operation
	for _, op := range r.s.operations {
		if filter.WarehouseID != "" && op.WarehouseID != filter.WarehouseID {
			continue
		}
		if filter.Kind != "" && op.Kind != filter.Kind {
			continue
		}
		if filter.Status != "" && op.Status != filter.Status {
			continue
		}
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}
func (r *fakeOperationRepo) List(filter repository.OperationFilter) ([]*entity.Operation, error) {
	out := r.matching(filter)
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}
func (r *fakeOperationRepo) Count(filter repository.OperationFilter) (int, error) {
	return len(r.matching(filter)), nil
}

type fakeQuantRepo struct{ s *memStore }

func (r *fakeQuantRepo) Get(productID, locationID string) (*entity.StockQuant, error) {
	return r.GetForUpdate(productID, locationID)
}
func (r *fakeQuantRepo) GetForUpdate(productID, locationID string) (*entity.StockQuant, error) {
	if q, ok := r.s.quants[quantKey(productID, locationID)]; ok {
		cp := *q
		return &cp, nil
	}
	// Creación perezosa en cero. El adaptador de PostgreSQL además
	// materializa la fila para poder bloquearla; aquí no hay concurrencia
	// que serializar.
	return &entity.StockQuant{ProductID: productID, LocationID: locationID}, nil
}
func (r *fakeQuantRepo) Upsert(q *entity.StockQuant) error {
	cp := *q
	r.s.quants[quantKey(q.ProductID, q.LocationID)] = &cp
	return nil
}
func (r *fakeQuantRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.StockQuant, error) {
	var out []*entity.StockQuant
	for _, q := range r.s.quants {
		if q.LocationID == locationID {
			out = append(out, q)
		}
	}
	return out, nil
}
func (r *fakeQuantRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockQuant, error) {
	var out []*entity.StockQuant
	for _, q := range r.s.quants {
		if q.ProductID == productID {
			out = append(out, q)
		}
	}
	return out, nil
}
func (r *fakeQuantRepo) ListBelowReorder(warehouseID string) ([]*repository.ReorderRow, error) {
	return nil, nil
}

type fakeMoveRepo struct{ s *memStore }

func (r *fakeMoveRepo) Create(m *entity.StockMove) error {
	cp := *m
	r.s.moves = append(r.s.moves, &cp)
	return nil
}
func (r *fakeMoveRepo) ListByOperation(operationID string) ([]*entity.StockMove, error) {
	return r.s.movesFor(operationID), nil
}
func (r *fakeMoveRepo) List(filter repository.StockMoveFilter) ([]*entity.StockMove, error) {
	return r.s.moves, nil
}
func (r *fakeMoveRepo) Count(filter repository.StockMoveFilter) (int, error) {
	return len(r.s.moves), nil
}

type fakeSequenceRepo struct{ s *memStore }

func (r *fakeSequenceRepo) Next(prefix string) (int64, error) {
	r.s.seq[prefix]++
	return r.s.seq[prefix], nil
}

// fakeTxRunner ejecuta fn con los repos del store y restaura un snapshot si
// fn devuelve error, imitando el rollback de la transacción real.
type fakeTxRunner struct{ s *memStore }

func (t *fakeTxRunner) Run(ctx context.Context, fn func(
	opRepo repository.OperationRepository,
	quantRepo repository.StockQuantRepository,
	moveRepo repository.StockMoveRepository,
) error) error {
	snap := t.s.snapshot()
	err := fn(&fakeOperationRepo{t.s}, &fakeQuantRepo{t.s}, &fakeMoveRepo{t.s})
	if err != nil {
		t.s.restore(snap)
	}
	return err
}
