package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/facturas-ledger/internal/application/dto"
	"github.com/jhoicas/facturas-ledger/internal/domain"
	rules "github.com/jhoicas/facturas-ledger/internal/domain/billing"
	"github.com/jhoicas/facturas-ledger/internal/domain/entity"
	"github.com/jhoicas/facturas-ledger/internal/domain/repository"
	"github.com/jhoicas/facturas-ledger/pkg/logger"
)

// ConvertProformaUseCase crea una factura nueva a partir de una proforma. La proforma no se modifica
// ni se borra, y puede convertirse más de una vez.
type ConvertProformaUseCase struct {
	issuer *issuer
	now    func() time.Time
}

// NewConvertProformaUseCase construye el caso de uso.
func NewConvertProformaUseCase(
	txRunner LedgerTxRunner,
	allocator NumberAllocator,
	stock StockReserver,
	log *logger.Logger,
	opts Options,
) *ConvertProformaUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ConvertProformaUseCase{
		issuer: &issuer{
			txRunner:  txRunner,
			allocator: allocator,
			stock:     stock,
			log:       log.Named("conversion_tx"),
			opts:      opts,
		},
		now: time.Now,
	}
}

// ConvertFromRequest adapta el request HTTP a ConvertToInvoice.
func (uc *ConvertProformaUseCase) ConvertFromRequest(ctx context.Context, proformaID int64, in dto.ConvertProformaRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.ConvertToInvoice(ctx, proformaID, in.PaymentMethod)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// ConvertToInvoice copia las líneas de la proforma (descripción, unidades, precio, IVA y producto)
// a una factura fechada hoy, con número nuevo. El stock se comprueba ahora, no al crear la proforma.
func (uc *ConvertProformaUseCase) ConvertToInvoice(ctx context.Context, proformaID int64, paymentMethod *string) (*entity.Invoice, error) {
	if proformaID <= 0 {
		return nil, domain.Invalid("id", "identificador inválido")
	}
	return uc.issuer.issue(ctx, "convert", proformaID, func(ctx context.Context, repos repository.LedgerRepos) (*entity.Invoice, error) {
		src, err := repos.Invoices.GetByID(ctx, proformaID)
		if err != nil {
			return nil, fmt.Errorf("leer proforma %d: %w", proformaID, err)
		}
		if src == nil {
			return nil, fmt.Errorf("proforma %d: %w", proformaID, domain.ErrNotFound)
		}
		if src.Kind != entity.DocKindProforma {
			return nil, fmt.Errorf("documento %s: %w", src.Number, domain.ErrNotProforma)
		}
		srcItems, err := repos.Invoices.GetItems(ctx, proformaID)
		if err != nil {
			return nil, fmt.Errorf("leer líneas de la proforma %d: %w", proformaID, err)
		}
		lines := rules.LinesFromItems(srcItems)
		if err := rules.ValidateLines(lines); err != nil {
			return nil, err
		}
		items, totals := rules.BuildItems(lines)
		now := uc.now().UTC()
		return &entity.Invoice{
			Date:          dateOnly(now),
			Kind:          entity.DocKindInvoice,
			ClientID:      src.ClientID,
			Notes:         src.Notes,
			PaymentMethod: rules.NormalizePaymentMethod(entity.DocKindInvoice, paymentMethod),
			Subtotal:      totals.Subtotal,
			TaxTotal:      totals.TaxTotal,
			Total:         totals.Total,
			Items:         items,
			CreatedAt:     now,
			UpdatedAt:     now,
		}, nil
	})
}
