package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo implementación del secuenciador de documentos sobre PostgreSQL.
// El UPSERT con RETURNING incrementa el contador de forma atómica: dos
// llamadas concurrentes con el mismo prefijo nunca reciben el mismo valor.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador del secuenciador.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el siguiente valor del contador para el prefijo.
func (r *SequenceRepo) Next(prefix string) (int64, error) {
	query := `
		INSERT INTO sequences (prefix, value)
		VALUES ($1, 1)
		ON CONFLICT (prefix)
		DO UPDATE SET value = sequences.value + 1
		RETURNING value`
	var value int64
	if err := r.q.QueryRow(context.Background(), query, prefix).Scan(&value); err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", prefix, err)
	}
	return value, nil
}
