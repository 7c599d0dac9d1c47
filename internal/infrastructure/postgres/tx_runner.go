package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmabem/farmastock-api/internal/application/ledger"
	"github.com/farmabem/farmastock-api/internal/domain/repository"
)

// Ensure TxRunner implements ledger.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	medRepo repository.MedicationRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storeError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewStockMovementRepository(tx)
	medRepo := NewMedicationRepository(tx)

	if err := fn(movRepo, medRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return storeError("commit transaction", err)
	}
	return nil
}
