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

// CanEditItems es false si alguna línea referencia un producto: el documento participó
// (o participará al convertirse) en una venta y sus líneas quedan congeladas.
// inv.Items debe estar cargado.
func CanEditItems(inv *entity.Invoice) bool {
	return !inv.HasStockLinkedItems()
}

// Patch cambios de cabecera; nil = sin cambio. Number nunca cambia, aunque cambie el periodo de Date.
type Patch struct {
	Date          *time.Time
	ClientID      *int64
	Notes         *string
	PaymentMethod *string
	Items         *[]rules.Line
}

// EditGuard aplica las reglas de modificación y borrado de documentos emitidos.
type EditGuard struct {
	txRunner LedgerTxRunner
	log      *logger.Logger
	timeout  time.Duration
	now      func() time.Time
}

// NewEditGuard construye el guard.
func NewEditGuard(txRunner LedgerTxRunner, log *logger.Logger, timeout time.Duration) *EditGuard {
	if log == nil {
		log = logger.Nop()
	}
	return &EditGuard{txRunner: txRunner, log: log.Named("edit_guard"), timeout: timeout, now: time.Now}
}

// UpdateInvoice aplica el patch. Sustituir líneas exige CanEditItems; en facturas, además, las
// líneas nuevas no pueden llevar producto porque no pasarían por el libro de inventario.
func (g *EditGuard) UpdateInvoice(ctx context.Context, id int64, p Patch) (*entity.Invoice, error) {
	if p.ClientID != nil && *p.ClientID <= 0 {
		return nil, domain.Invalid("client_id", "identificador inválido")
	}
	if p.Date != nil && p.Date.IsZero() {
		return nil, domain.Invalid("date", "requerida")
	}
	if p.Items != nil {
		if err := rules.ValidateLines(*p.Items); err != nil {
			return nil, err
		}
	}

	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	var inv *entity.Invoice
	err := g.txRunner.RunLedger(ctx, func(repos repository.LedgerRepos) error {
		var err error
		inv, err = loadWithItems(ctx, repos.Invoices, id)
		if err != nil {
			return err
		}
		if p.Items != nil {
			if !CanEditItems(inv) {
				return &domain.EditForbiddenError{InvoiceID: id, Reason: "las líneas están ligadas a inventario"}
			}
			if inv.Kind == entity.DocKindInvoice {
				for i, l := range *p.Items {
					if l.ProductID != nil {
						return domain.Invalid(fmt.Sprintf("items[%d].product_id", i), "no se puede ligar a inventario una factura ya emitida")
					}
				}
			}
			items, totals := rules.BuildItems(*p.Items)
			if err := repos.Invoices.DeleteItems(ctx, id); err != nil {
				return err
			}
			for i := range items {
				items[i].InvoiceID = id
				if err := repos.Invoices.CreateItem(ctx, &items[i]); err != nil {
					return fmt.Errorf("insertar línea %d: %w", i, err)
				}
			}
			inv.Items = items
			inv.Subtotal, inv.TaxTotal, inv.Total = totals.Subtotal, totals.TaxTotal, totals.Total
		}
		if p.Date != nil {
			inv.Date = dateOnly(*p.Date)
		}
		if p.ClientID != nil {
			inv.ClientID = *p.ClientID
		}
		if p.Notes != nil {
			inv.Notes = *p.Notes
		}
		if p.PaymentMethod != nil {
			inv.PaymentMethod = rules.NormalizePaymentMethod(inv.Kind, p.PaymentMethod)
		}
		inv.UpdatedAt = g.now().UTC()
		return repos.Invoices.Update(ctx, inv)
	})
	if err != nil {
		g.log.Warn().Err(err).Int64("invoice_id", id).Msg("actualización rechazada")
		return nil, err
	}
	g.log.Info().Int64("invoice_id", id).Bool("items_replaced", p.Items != nil).Msg("documento actualizado")
	return inv, nil
}

// SetPaid marca o desmarca una factura como pagada. Independiente de las líneas; en proformas es ValidationError.
func (g *EditGuard) SetPaid(ctx context.Context, id int64, paid bool) (*entity.Invoice, error) {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	var inv *entity.Invoice
	err := g.txRunner.RunLedger(ctx, func(repos repository.LedgerRepos) error {
		var err error
		inv, err = loadWithItems(ctx, repos.Invoices, id)
		if err != nil {
			return err
		}
		if inv.Kind != entity.DocKindInvoice {
			return domain.Invalid("paid", "solo aplica a facturas")
		}
		inv.Paid = paid
		inv.UpdatedAt = g.now().UTC()
		return repos.Invoices.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	g.log.Info().Int64("invoice_id", id).Bool("paid", paid).Msg("estado de pago actualizado")
	return inv, nil
}

// DeleteInvoice borra el documento y sus líneas salvo que tenga líneas ligadas a inventario o
// movimientos asociados.
func (g *EditGuard) DeleteInvoice(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	err := g.txRunner.RunLedger(ctx, func(repos repository.LedgerRepos) error {
		inv, err := loadWithItems(ctx, repos.Invoices, id)
		if err != nil {
			return err
		}
		if !CanEditItems(inv) {
			return &domain.EditForbiddenError{InvoiceID: id, Reason: "tiene líneas ligadas a inventario"}
		}
		n, err := repos.Movements.CountByInvoice(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return &domain.EditForbiddenError{InvoiceID: id, Reason: "tiene movimientos de inventario"}
		}
		return repos.Invoices.Delete(ctx, id)
	})
	if err != nil {
		g.log.Warn().Err(err).Int64("invoice_id", id).Msg("borrado rechazado")
		return err
	}
	g.log.Info().Int64("invoice_id", id).Msg("documento borrado")
	return nil
}

// UpdateFromRequest adapta el request HTTP a UpdateInvoice.
func (g *EditGuard) UpdateFromRequest(ctx context.Context, id int64, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	var p Patch
	if in.Date != nil {
		d, err := parseDate("date", *in.Date)
		if err != nil {
			return nil, err
		}
		p.Date = &d
	}
	p.ClientID = in.ClientID
	p.Notes = in.Notes
	p.PaymentMethod = in.PaymentMethod
	if in.Items != nil {
		lines := linesFromRequest(*in.Items)
		p.Items = &lines
	}
	inv, err := g.UpdateInvoice(ctx, id, p)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// SetPaidFromRequest adapta el request HTTP a SetPaid.
func (g *EditGuard) SetPaidFromRequest(ctx context.Context, id int64, in dto.SetPaidRequest) (*dto.InvoiceResponse, error) {
	if in.Paid == nil {
		return nil, domain.Invalid("paid", "requerido")
	}
	inv, err := g.SetPaid(ctx, id, *in.Paid)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

func loadWithItems(ctx context.Context, invoices repository.InvoiceRepository, id int64) (*entity.Invoice, error) {
	inv, err := invoices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("leer documento %d: %w", id, err)
	}
	if inv == nil {
		return nil, fmt.Errorf("documento %d: %w", id, domain.ErrNotFound)
	}
	inv.Items, err = invoices.GetItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("leer líneas del documento %d: %w", id, err)
	}
	return inv, nil
}
