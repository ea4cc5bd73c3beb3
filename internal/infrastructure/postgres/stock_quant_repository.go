package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.StockQuantRepository = (*StockQuantRepo)(nil)

// StockQuantRepo implementación de StockQuantRepository sobre PostgreSQL (usable con pool o tx).
type StockQuantRepo struct {
	q Querier
}

// NewStockQuantRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewStockQuantRepository(q Querier) *StockQuantRepo {
	return &StockQuantRepo{q: q}
}

// Get obtiene el saldo de un producto en una ubicación. Si no existe fila
// devuelve una en cero (creación perezosa a cargo del caller).
func (r *StockQuantRepo) Get(productID, locationID string) (*entity.StockQuant, error) {
	query := `
		SELECT product_id, location_id, quantity, reserved_quantity, updated_at
		FROM stock_quants WHERE product_id = $1 AND location_id = $2`
	var s entity.StockQuant
	err := r.q.QueryRow(context.Background(), query, productID, locationID).Scan(
		&s.ProductID, &s.LocationID, &s.Quantity, &s.ReservedQuantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zeroQuant(productID, locationID), nil
		}
		return nil, fmt.Errorf("get stock quant: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE) para
// que validaciones concurrentes sobre el mismo par se serialicen. Una fila
// ausente no se puede bloquear, así que se materializa en cero y se vuelve a
// seleccionar: dos transacciones estrenando el mismo par se serializan igual
// que sobre un par ya existente (la segunda espera en el INSERT en conflicto
// y relee el saldo ya confirmado).
func (r *StockQuantRepo) GetForUpdate(productID, locationID string) (*entity.StockQuant, error) {
	query := `
		SELECT product_id, location_id, quantity, reserved_quantity, updated_at
		FROM stock_quants WHERE product_id = $1 AND location_id = $2
		FOR UPDATE`
	var s entity.StockQuant
	err := r.q.QueryRow(context.Background(), query, productID, locationID).Scan(
		&s.ProductID, &s.LocationID, &s.Quantity, &s.ReservedQuantity, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		insert := `
			INSERT INTO stock_quants (product_id, location_id, quantity, reserved_quantity, updated_at)
			VALUES ($1, $2, 0, 0, now())
			ON CONFLICT (product_id, location_id) DO NOTHING`
		if _, err := r.q.Exec(context.Background(), insert, productID, locationID); err != nil {
			return nil, fmt.Errorf("materializar stock quant: %w", err)
		}
		err = r.q.QueryRow(context.Background(), query, productID, locationID).Scan(
			&s.ProductID, &s.LocationID, &s.Quantity, &s.ReservedQuantity, &s.UpdatedAt,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("get stock quant for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza el saldo (por producto y ubicación).
func (r *StockQuantRepo) Upsert(quant *entity.StockQuant) error {
	query := `
		INSERT INTO stock_quants (product_id, location_id, quantity, reserved_quantity, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, reserved_quantity = EXCLUDED.reserved_quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		quant.ProductID, quant.LocationID, quant.Quantity, quant.ReservedQuantity)
	if err != nil {
		return fmt.Errorf("upsert stock quant: %w", err)
	}
	return nil
}

// ListByLocation lista los saldos de una ubicación.
func (r *StockQuantRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.StockQuant, error) {
	query := `
		SELECT product_id, location_id, quantity, reserved_quantity, updated_at
		FROM stock_quants WHERE location_id = $1
		ORDER BY product_id LIMIT $2 OFFSET $3`
	return r.list(query, locationID, limit, offset)
}

// ListByProduct lista los saldos de un producto en todas sus ubicaciones.
func (r *StockQuantRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockQuant, error) {
	query := `
		SELECT product_id, location_id, quantity, reserved_quantity, updated_at
		FROM stock_quants WHERE product_id = $1
		ORDER BY location_id LIMIT $2 OFFSET $3`
	return r.list(query, productID, limit, offset)
}

func (r *StockQuantRepo) list(query string, key string, limit, offset int) ([]*entity.StockQuant, error) {
	rows, err := r.q.Query(context.Background(), query, key, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock quants: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockQuant
	for rows.Next() {
		var s entity.StockQuant
		if err := rows.Scan(&s.ProductID, &s.LocationID, &s.Quantity, &s.ReservedQuantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock quant: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// ListBelowReorder lista productos cuyo stock agregado está por debajo del
// punto de reorden. Con warehouseID se limita a ubicaciones de esa bodega.
func (r *StockQuantRepo) ListBelowReorder(warehouseID string) ([]*repository.ReorderRow, error) {
	query := `
		SELECT p.id, p.sku, p.name, p.description, p.unit_measure, p.reorder_point,
		       p.created_at, p.updated_at, COALESCE(SUM(sq.quantity), 0) AS on_hand
		FROM products p
		LEFT JOIN stock_quants sq ON sq.product_id = p.id`
	args := []any{}
	if warehouseID != "" {
		query += `
		LEFT JOIN locations l ON l.id = sq.location_id
		WHERE l.warehouse_id IS NULL OR l.warehouse_id = $1`
		args = append(args, warehouseID)
	}
	query += `
		GROUP BY p.id
		HAVING p.reorder_point > 0 AND COALESCE(SUM(sq.quantity), 0) < p.reorder_point
		ORDER BY p.sku`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list below reorder: %w", err)
	}
	defer rows.Close()
	var list []*repository.ReorderRow
	for rows.Next() {
		var row repository.ReorderRow
		if err := rows.Scan(
			&row.Product.ID, &row.Product.SKU, &row.Product.Name, &row.Product.Description,
			&row.Product.UnitMeasure, &row.Product.ReorderPoint,
			&row.Product.CreatedAt, &row.Product.UpdatedAt, &row.OnHand,
		); err != nil {
			return nil, fmt.Errorf("scan reorder row: %w", err)
		}
		list = append(list, &row)
	}
	return list, rows.Err()
}

func zeroQuant(productID, locationID string) *entity.StockQuant {
	return &entity.StockQuant{
		ProductID:        productID,
		LocationID:       locationID,
		Quantity:         decimal.Zero,
		ReservedQuantity: decimal.Zero,
	}
}
