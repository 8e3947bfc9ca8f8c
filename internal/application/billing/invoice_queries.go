package billing

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/facturas-ledger/internal/application/dto"
	"github.com/jhoicas/facturas-ledger/internal/domain"
	"github.com/jhoicas/facturas-ledger/internal/domain/entity"
	"github.com/jhoicas/facturas-ledger/internal/domain/repository"
)

// InvoiceQueryUseCase lecturas de documentos confirmados, fuera de transacción.
type InvoiceQueryUseCase struct {
	invoices repository.InvoiceRepository
	preview  NumberPreviewer
	now      func() time.Time
}

// NewInvoiceQueryUseCase construye el caso de uso.
func NewInvoiceQueryUseCase(invoices repository.InvoiceRepository, preview NumberPreviewer) *InvoiceQueryUseCase {
	return &InvoiceQueryUseCase{invoices: invoices, preview: preview, now: time.Now}
}

// GetInvoice devuelve el documento con sus líneas o domain.ErrNotFound.
func (uc *InvoiceQueryUseCase) GetInvoice(ctx context.Context, id int64) (*dto.InvoiceResponse, error) {
	inv, err := loadWithItems(ctx, uc.invoices, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// ListInvoices pagina por id descendente, con filtro opcional de año y mes de la fecha del documento.
func (uc *InvoiceQueryUseCase) ListInvoices(ctx context.Context, in dto.ListInvoicesRequest) (*dto.InvoiceListResponse, error) {
	in.DefaultPage()
	if in.Limit > 100 {
		in.Limit = 100
	}
	f := repository.InvoiceFilter{Limit: in.Limit, Offset: in.Offset}
	if in.Year != 0 {
		y := in.Year
		f.Year = &y
	}
	if in.Month != 0 {
		if in.Month < 1 || in.Month > 12 {
			return nil, domain.Invalid("month", "debe estar entre 1 y 12")
		}
		m := in.Month
		f.Month = &m
	}
	list, total, err := uc.invoices.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.InvoiceListResponse{
		Invoices: make([]dto.InvoiceResponse, 0, len(list)),
		Page:     dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}
	for _, inv := range list {
		out.Invoices = append(out.Invoices, *toInvoiceResponse(inv))
	}
	return out, nil
}

// NextNumber vista previa del número para kind en la fecha dada (hoy si date está vacío).
func (uc *InvoiceQueryUseCase) NextNumber(ctx context.Context, kind, date string) (*dto.NextNumberResponse, error) {
	k := entity.DocKind(strings.TrimSpace(kind))
	if k == "" {
		k = entity.DocKindInvoice
	}
	if !k.Valid() {
		return nil, domain.Invalid("kind", "debe ser invoice o proforma")
	}
	d := dateOnly(uc.now().UTC())
	if date != "" {
		var err error
		if d, err = parseDate("date", date); err != nil {
			return nil, err
		}
	}
	number, err := uc.preview.PreviewNextNumber(ctx, k, d)
	if err != nil {
		return nil, err
	}
	return &dto.NextNumberResponse{Kind: string(k), Date: d.Format(dto.DateLayout), Number: number}, nil
}
