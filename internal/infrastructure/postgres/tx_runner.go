package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/almacen-api/internal/application/operations"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// Ensure TxRunner implements operations.TxRunner.
var _ operations.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Es la
// unidad de atomicidad del motor de validación: documento, saldos y libro
// de movimientos cambian juntos o se revierte todo.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	opRepo repository.OperationRepository,
	quantRepo repository.StockQuantRepository,
	moveRepo repository.StockMoveRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	opRepo := NewOperationRepository(tx)
	quantRepo := NewStockQuantRepository(tx)
	moveRepo := NewStockMoveRepository(tx)

	if err := fn(opRepo, quantRepo, moveRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
