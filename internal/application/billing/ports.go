package billing

import (
	"context"
	"time"

	"github.com/jhoicas/facturas-ledger/internal/domain/entity"
	"github.com/jhoicas/facturas-ledger/internal/domain/repository"
)

// LedgerTxRunner ejecuta una función dentro de una transacción con los repos del libro atados a ella.
type LedgerTxRunner interface {
	RunLedger(ctx context.Context, fn func(repos repository.LedgerRepos) error) error
}

// NumberAllocator emite el número del documento dentro de la transacción del llamador.
type NumberAllocator interface {
	NextNumber(ctx context.Context, seqs repository.SequenceRepository, kind entity.DocKind, date time.Time) (string, error)
}

// NumberPreviewer consulta el próximo número sin consumirlo.
type NumberPreviewer interface {
	PreviewNextNumber(ctx context.Context, kind entity.DocKind, date time.Time) (string, error)
}

// StockReserver integra facturación con inventario. Ambos métodos usan los repositorios del caller
// (misma transacción); si alguno retorna error (ej: StockInsufficientError) el caller hace rollback.
// ReserveAndDecrement bloquea y descuenta antes de insertar la factura; RecordSales anota los
// movimientos cuando ya existe su id.
type StockReserver interface {
	ReserveAndDecrement(ctx context.Context, repos repository.LedgerRepos, items []entity.InvoiceItem) error
	RecordSales(ctx context.Context, repos repository.LedgerRepos, invoiceID int64, items []entity.InvoiceItem) error
}

// Options parámetros operativos de las transacciones de emisión.
type Options struct {
	TxTimeout        time.Duration // plazo por intento; <= 0 sin plazo
	DuplicateRetries int           // reintentos completos ante ErrDuplicateNumber
}
