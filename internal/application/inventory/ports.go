package inventory

import (
	"context"

	"github.com/jhoicas/facturas-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error (o el contexto vence antes del commit) se hace rollback completo.
type TxRunner interface {
	RunLedger(ctx context.Context, fn func(repos repository.LedgerRepos) error) error
}
