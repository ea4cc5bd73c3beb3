package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/operation"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.OperationRepository = (*OperationRepo)(nil)

// OperationRepo implementación de OperationRepository sobre PostgreSQL
// (usable con pool o tx). Cabecera en operations, líneas en operation_lines.
type OperationRepo struct {
	q Querier
}

// NewOperationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOperationRepository(q Querier) *OperationRepo {
	return &OperationRepo{q: q}
}

const operationColumns = `id, kind, number, status, warehouse_id, source_location_id,
		destination_location_id, partner, notes, created_by, validated_by, validated_at, created_at`

// Create persiste cabecera y líneas del documento.
func (r *OperationRepo) Create(op *entity.Operation) error {
	query := `
		INSERT INTO operations (` + operationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		op.ID, string(op.Kind), op.Number, string(op.Status), op.WarehouseID,
		op.SourceLocationID, op.DestinationLocationID, op.Partner, op.Notes,
		op.CreatedBy, op.ValidatedBy, op.ValidatedAt, op.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de documento %s", domain.ErrDuplicate, op.Number)
		}
		return fmt.Errorf("insert operation: %w", err)
	}
	return r.insertLines(op.ID, op.Lines)
}

// GetByID obtiene el documento con sus líneas.
func (r *OperationRepo) GetByID(id string) (*entity.Operation, error) {
	return r.get(id, false)
}

// GetForUpdate obtiene el documento bloqueando su fila (SELECT FOR UPDATE)
// para serializar transiciones concurrentes.
func (r *OperationRepo) GetForUpdate(id string) (*entity.Operation, error) {
	return r.get(id, true)
}

func (r *OperationRepo) get(id string, forUpdate bool) (*entity.Operation, error) {
	query := `
		SELECT ` + operationColumns + `
		FROM operations WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var op entity.Operation
	var kind, status string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&op.ID, &kind, &op.Number, &status, &op.WarehouseID,
		&op.SourceLocationID, &op.DestinationLocationID, &op.Partner, &op.Notes,
		&op.CreatedBy, &op.ValidatedBy, &op.ValidatedAt, &op.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get operation: %w", err)
	}
	op.Kind = operation.Kind(kind)
	op.Status = operation.Status(status)
	lines, err := r.loadLines(op.ID)
	if err != nil {
		return nil, err
	}
	op.Lines = lines
	return &op, nil
}

// UpdateHeader actualiza los campos editables de la cabecera.
func (r *OperationRepo) UpdateHeader(op *entity.Operation) error {
	query := `
		UPDATE operations
		SET source_location_id = $2, destination_location_id = $3, partner = $4, notes = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		op.ID, op.SourceLocationID, op.DestinationLocationID, op.Partner, op.Notes)
	if err != nil {
		return fmt.Errorf("update operation header: %w", err)
	}
	return nil
}

// UpdateStatus cambia el estado y estampa validador/fecha si se proporcionan.
func (r *OperationRepo) UpdateStatus(id string, status operation.Status, validatedBy *string, validatedAt *time.Time) error {
	query := `
		UPDATE operations
		SET status = $2,
		    validated_by = COALESCE($3, validated_by),
		    validated_at = COALESCE($4, validated_at)
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, string(status), validatedBy, validatedAt)
	if err != nil {
		return fmt.Errorf("update operation status: %w", err)
	}
	return nil
}

// ReplaceLines reemplaza el set completo de líneas del documento.
func (r *OperationRepo) ReplaceLines(operationID string, lines []entity.OperationLine) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM operation_lines WHERE operation_id = $1`, operationID); err != nil {
		return fmt.Errorf("delete operation lines: %w", err)
	}
	return r.insertLines(operationID, lines)
}

// Delete elimina el documento y sus líneas (solo permitido en DRAFT, lo
// valida el caso de uso).
func (r *OperationRepo) Delete(id string) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM operation_lines WHERE operation_id = $1`, id); err != nil {
		return fmt.Errorf("delete operation lines: %w", err)
	}
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM operations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete operation: %w", err)
	}
	return nil
}

// List lista documentos (con líneas) según filtros.
func (r *OperationRepo) List(filter repository.OperationFilter) ([]*entity.Operation, error) {
	where, args, pos := operationFilterWhere(filter)
	query := `
		SELECT ` + operationColumns + `
		FROM operations` + where
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	defer rows.Close()

	var list []*entity.Operation
	for rows.Next() {
		var op entity.Operation
		var kind, status string
		if err := rows.Scan(
			&op.ID, &kind, &op.Number, &status, &op.WarehouseID,
			&op.SourceLocationID, &op.DestinationLocationID, &op.Partner, &op.Notes,
			&op.CreatedBy, &op.ValidatedBy, &op.ValidatedAt, &op.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		op.Kind = operation.Kind(kind)
		op.Status = operation.Status(status)
		list = append(list, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, op := range list {
		lines, err := r.loadLines(op.ID)
		if err != nil {
			return nil, err
		}
		op.Lines = lines
	}
	return list, nil
}

// Count total de documentos que matchean el filtro, sin paginar.
func (r *OperationRepo) Count(filter repository.OperationFilter) (int, error) {
	where, args, _ := operationFilterWhere(filter)
	var total int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM operations`+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count operations: %w", err)
	}
	return total, nil
}

// operationFilterWhere arma el WHERE compartido entre List y Count.
// Devuelve también la siguiente posición de placeholder libre.
func operationFilterWhere(filter repository.OperationFilter) (string, []any, int) {
	where := " WHERE 1=1"
	var args []any
	pos := 1
	if filter.WarehouseID != "" {
		where += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, filter.WarehouseID)
		pos++
	}
	if filter.Kind != "" {
		where += fmt.Sprintf(" AND kind = $%d", pos)
		args = append(args, string(filter.Kind))
		pos++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, string(filter.Status))
		pos++
	}
	if filter.From != nil {
		where += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		where += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	return where, args, pos
}

func (r *OperationRepo) insertLines(operationID string, lines []entity.OperationLine) error {
	query := `
		INSERT INTO operation_lines (id, operation_id, product_id, quantity, unit_measure,
		                             source_location_id, destination_location_id, remarks, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i, line := range lines {
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		if _, err := r.q.Exec(context.Background(), query,
			line.ID, operationID, line.ProductID, line.Quantity, line.UnitMeasure,
			line.SourceLocationID, line.DestinationLocationID, line.Remarks, i,
		); err != nil {
			return fmt.Errorf("insert operation line: %w", err)
		}
	}
	return nil
}

func (r *OperationRepo) loadLines(operationID string) ([]entity.OperationLine, error) {
	query := `
		SELECT id, operation_id, product_id, quantity, unit_measure,
		       source_location_id, destination_location_id, remarks
		FROM operation_lines WHERE operation_id = $1
		ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, operationID)
	if err != nil {
		return nil, fmt.Errorf("load operation lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.OperationLine
	for rows.Next() {
		var l entity.OperationLine
		if err := rows.Scan(&l.ID, &l.OperationID, &l.ProductID, &l.Quantity, &l.UnitMeasure,
			&l.SourceLocationID, &l.DestinationLocationID, &l.Remarks); err != nil {
			return nil, fmt.Errorf("scan operation line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
