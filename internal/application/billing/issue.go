package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/facturas-ledger/internal/domain"
	"github.com/jhoicas/facturas-ledger/internal/domain/entity"
	"github.com/jhoicas/facturas-ledger/internal/domain/repository"
	"github.com/jhoicas/facturas-ledger/pkg/logger"
)

// buildFunc construye el borrador del documento dentro de la transacción.
// Se invoca de nuevo en cada reintento, por lo que debe devolver un valor nuevo.
type buildFunc func(ctx context.Context, repos repository.LedgerRepos) (*entity.Invoice, error)

// issuer ejecuta la secuencia atómica común a creación y conversión.
type issuer struct {
	txRunner  LedgerTxRunner
	allocator NumberAllocator
	stock     StockReserver
	log       *logger.Logger
	opts      Options
}

// issue emite el documento y reintenta la operación completa ante ErrDuplicateNumber.
// sourceID solo se usa en los logs (proforma de origen en conversiones).
func (is *issuer) issue(ctx context.Context, op string, sourceID int64, build buildFunc) (*entity.Invoice, error) {
	zc := is.log.With().Str("op_id", uuid.NewString()).Str("op", op)
	if sourceID > 0 {
		zc = zc.Int64("source_id", sourceID)
	}
	zl := zc.Logger()

	var err error
	for attempt := 1; attempt <= is.opts.DuplicateRetries+1; attempt++ {
		var inv *entity.Invoice
		inv, err = is.issueOnce(ctx, build)
		if err == nil {
			zl.Info().
				Int64("invoice_id", inv.ID).
				Str("number", inv.Number).
				Str("doc_kind", string(inv.Kind)).
				Int("attempt", attempt).
				Msg("documento emitido")
			return inv, nil
		}
		if !errors.Is(err, domain.ErrDuplicateNumber) || ctx.Err() != nil {
			break
		}
		zl.Warn().Err(err).Int("attempt", attempt).Msg("número duplicado; se repite la operación")
	}
	zl.Warn().Err(err).Msg("emisión revertida")
	return nil, err
}

// issueOnce, en una transacción: contador → productos (solo facturas) → cabecera y líneas →
// movimientos → commit. Los bloqueos siguen siempre ese orden.
func (is *issuer) issueOnce(ctx context.Context, build buildFunc) (*entity.Invoice, error) {
	ctx, cancel := withTimeout(ctx, is.opts.TxTimeout)
	defer cancel()

	var inv *entity.Invoice
	err := is.txRunner.RunLedger(ctx, func(repos repository.LedgerRepos) error {
		draft, err := build(ctx, repos)
		if err != nil {
			return err
		}
		number, err := is.allocator.NextNumber(ctx, repos.Sequences, draft.Kind, draft.Date)
		if err != nil {
			return err
		}
		sale := draft.Kind == entity.DocKindInvoice
		if sale {
			if err := is.stock.ReserveAndDecrement(ctx, repos, draft.Items); err != nil {
				return err
			}
		}
		draft.Number = number
		if err := repos.Invoices.Create(ctx, draft); err != nil {
			return err
		}
		for i := range draft.Items {
			draft.Items[i].InvoiceID = draft.ID
			if err := repos.Invoices.CreateItem(ctx, &draft.Items[i]); err != nil {
				return fmt.Errorf("insertar línea %d: %w", i, err)
			}
		}
		if sale {
			if err := is.stock.RecordSales(ctx, repos, draft.ID, draft.Items); err != nil {
				return err
			}
		}
		inv = draft
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// dateOnly normaliza a medianoche UTC; los documentos no guardan hora.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
