package billing

import (
	"context"
	"time"

	"github.com/jhoicas/facturas-ledger/internal/application/dto"
	"github.com/jhoicas/facturas-ledger/internal/domain"
	rules "github.com/jhoicas/facturas-ledger/internal/domain/billing"
	"github.com/jhoicas/facturas-ledger/internal/domain/entity"
	"github.com/jhoicas/facturas-ledger/internal/domain/repository"
	"github.com/jhoicas/facturas-ledger/pkg/logger"
)

// Draft es la entrada validada de una creación.
type Draft struct {
	Kind          entity.DocKind
	Date          time.Time
	ClientID      int64
	Notes         string
	PaymentMethod *string
	Paid          bool
	Lines         []rules.Line
}

// CreateInvoiceUseCase crea facturas y proformas; en facturas descuenta el inventario en la misma transacción.
type CreateInvoiceUseCase struct {
	issuer *issuer
	now    func() time.Time
}

// NewCreateInvoiceUseCase construye el caso de uso.
func NewCreateInvoiceUseCase(
	txRunner LedgerTxRunner,
	allocator NumberAllocator,
	stock StockReserver,
	log *logger.Logger,
	opts Options,
) *CreateInvoiceUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CreateInvoiceUseCase{
		issuer: &issuer{
			txRunner:  txRunner,
			allocator: allocator,
			stock:     stock,
			log:       log.Named("invoice_tx"),
			opts:      opts,
		},
		now: time.Now,
	}
}

// CreateInvoice adapta el request HTTP a Create.
func (uc *CreateInvoiceUseCase) CreateInvoice(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	date, err := parseDate("date", in.Date)
	if err != nil {
		return nil, err
	}
	inv, err := uc.Create(ctx, Draft{
		Kind:          entity.DocKind(in.Kind),
		Date:          date,
		ClientID:      in.ClientID,
		Notes:         in.Notes,
		PaymentMethod: in.PaymentMethod,
		Paid:          in.Paid,
		Lines:         linesFromRequest(in.Items),
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// Create valida las líneas, calcula totales y emite el documento. Devuelve la factura confirmada
// o un error tipado (ValidationError, StockInsufficientError, ErrDuplicateNumber) sin nada persistido.
func (uc *CreateInvoiceUseCase) Create(ctx context.Context, d Draft) (*entity.Invoice, error) {
	if !d.Kind.Valid() {
		return nil, domain.Invalid("kind", "debe ser invoice o proforma")
	}
	if d.ClientID <= 0 {
		return nil, domain.Invalid("client_id", "requerido")
	}
	if d.Date.IsZero() {
		return nil, domain.Invalid("date", "requerida")
	}
	if err := rules.ValidateLines(d.Lines); err != nil {
		return nil, err
	}

	items, totals := rules.BuildItems(d.Lines)
	now := uc.now().UTC()
	draft := entity.Invoice{
		Date:          dateOnly(d.Date),
		Kind:          d.Kind,
		ClientID:      d.ClientID,
		Notes:         d.Notes,
		PaymentMethod: rules.NormalizePaymentMethod(d.Kind, d.PaymentMethod),
		Subtotal:      totals.Subtotal,
		TaxTotal:      totals.TaxTotal,
		Total:         totals.Total,
		Paid:          d.Paid && d.Kind == entity.DocKindInvoice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	return uc.issuer.issue(ctx, "create", 0, func(context.Context, repository.LedgerRepos) (*entity.Invoice, error) {
		inv := draft
		inv.Items = append([]entity.InvoiceItem(nil), items...)
		return &inv, nil
	})
}
