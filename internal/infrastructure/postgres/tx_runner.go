package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/facturas-ledger/internal/application/billing"
	"github.com/jhoicas/facturas-ledger/internal/application/inventory"
	"github.com/jhoicas/facturas-ledger/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and billing.LedgerTxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ billing.LedgerTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED + SELECT FOR UPDATE).
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunLedger inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Si ctx se cancela antes del commit, pgx aborta la tx y nada queda persistido.
func (r *TxRunner) RunLedger(ctx context.Context, fn func(repos repository.LedgerRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(NewLedgerRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("commit transaction: %w", errDuplicateFrom(err))
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewLedgerRepos construye los repositorios del libro sobre pool o tx.
func NewLedgerRepos(q Querier) repository.LedgerRepos {
	return repository.LedgerRepos{
		Sequences: NewSequenceRepository(q),
		Products:  NewProductRepository(q),
		Movements: NewStockMovementRepository(q),
		Invoices:  NewInvoiceRepository(q),
	}
}
