package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.StockMoveRepository = (*StockMoveRepo)(nil)

// StockMoveRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Solo inserta y consulta: la historia no se muta.
type StockMoveRepo struct {
	q Querier
}

// NewStockMoveRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMoveRepository(q Querier) *StockMoveRepo {
	return &StockMoveRepo{q: q}
}

const stockMoveColumns = `id, operation_id, product_id, from_location_id, to_location_id, quantity, date, created_by, reason`

// Create persiste un asiento del libro de movimientos.
func (r *StockMoveRepo) Create(move *entity.StockMove) error {
	if move.ID == "" {
		move.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_moves (` + stockMoveColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		move.ID, move.OperationID, move.ProductID, move.FromLocationID, move.ToLocationID,
		move.Quantity, move.Date, move.CreatedBy, move.Reason,
	)
	if err != nil {
		return fmt.Errorf("create stock move: %w", err)
	}
	return nil
}

// ListByOperation lista los movimientos generados por un documento.
func (r *StockMoveRepo) ListByOperation(operationID string) ([]*entity.StockMove, error) {
	query := `
		SELECT ` + stockMoveColumns + `
		FROM stock_moves WHERE operation_id = $1
		ORDER BY date`
	rows, err := r.q.Query(context.Background(), query, operationID)
	if err != nil {
		return nil, fmt.Errorf("list moves by operation: %w", err)
	}
	defer rows.Close()
	return scanMoves(rows)
}

// List lista movimientos para auditoría con filtros combinables:
// producto, ubicación (origen o destino), bodega, tipo de documento y rango de fechas.
func (r *StockMoveRepo) List(filter repository.StockMoveFilter) ([]*entity.StockMove, error) {
	join, where, args, pos := stockMoveFilterWhere(filter)
	query := `
		SELECT m.id, m.operation_id, m.product_id, m.from_location_id, m.to_location_id,
		       m.quantity, m.date, m.created_by, m.reason
		FROM stock_moves m` + join

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += where + fmt.Sprintf(" ORDER BY m.date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock moves: %w", err)
	}
	defer rows.Close()
	return scanMoves(rows)
}

// Count total de movimientos que matchean el filtro, sin paginar.
func (r *StockMoveRepo) Count(filter repository.StockMoveFilter) (int, error) {
	join, where, args, _ := stockMoveFilterWhere(filter)
	var total int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM stock_moves m`+join+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count stock moves: %w", err)
	}
	return total, nil
}

// stockMoveFilterWhere arma el JOIN/WHERE compartido entre List y Count.
// Devuelve también la siguiente posición de placeholder libre.
func stockMoveFilterWhere(filter repository.StockMoveFilter) (string, string, []any, int) {
	var join string
	where := " WHERE 1=1"
	var args []any
	pos := 1

	if filter.WarehouseID != "" || filter.Kind != "" {
		join = `
		JOIN operations o ON o.id = m.operation_id`
		if filter.WarehouseID != "" {
			where += fmt.Sprintf(" AND o.warehouse_id = $%d", pos)
			args = append(args, filter.WarehouseID)
			pos++
		}
		if filter.Kind != "" {
			where += fmt.Sprintf(" AND o.kind = $%d", pos)
			args = append(args, string(filter.Kind))
			pos++
		}
	}
	if filter.ProductID != "" {
		where += fmt.Sprintf(" AND m.product_id = $%d", pos)
		args = append(args, filter.ProductID)
		pos++
	}
	if filter.LocationID != "" {
		where += fmt.Sprintf(" AND (m.from_location_id = $%d OR m.to_location_id = $%d)", pos, pos)
		args = append(args, filter.LocationID)
		pos++
	}
	if filter.From != nil {
		where += fmt.Sprintf(" AND m.date >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		where += fmt.Sprintf(" AND m.date <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	return join, where, args, pos
}

func scanMoves(rows pgx.Rows) ([]*entity.StockMove, error) {
	var list []*entity.StockMove
	for rows.Next() {
		var m entity.StockMove
		if err := rows.Scan(&m.ID, &m.OperationID, &m.ProductID, &m.FromLocationID, &m.ToLocationID,
			&m.Quantity, &m.Date, &m.CreatedBy, &m.Reason); err != nil {
			return nil, fmt.Errorf("scan stock move: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
