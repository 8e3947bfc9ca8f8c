package billing

import (
	"time"

	"github.com/jhoicas/facturas-ledger/internal/application/dto"
	"github.com/jhoicas/facturas-ledger/internal/domain"
	rules "github.com/jhoicas/facturas-ledger/internal/domain/billing"
	"github.com/jhoicas/facturas-ledger/internal/domain/entity"
)

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return time.Time{}, domain.Invalid(field, "formato esperado AAAA-MM-DD")
	}
	return t, nil
}

func linesFromRequest(items []dto.InvoiceItemRequest) []rules.Line {
	lines := make([]rules.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, rules.Line{
			ProductID:   it.ProductID,
			Description: it.Description,
			Units:       it.Units,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
		})
	}
	return lines
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	out := &dto.InvoiceResponse{
		ID:            inv.ID,
		Number:        inv.Number,
		Date:          inv.Date.Format(dto.DateLayout),
		Kind:          string(inv.Kind),
		ClientID:      inv.ClientID,
		Notes:         inv.Notes,
		PaymentMethod: inv.PaymentMethod,
		Subtotal:      inv.Subtotal,
		TaxTotal:      inv.TaxTotal,
		Total:         inv.Total,
		Paid:          inv.Paid,
		Items:         make([]dto.InvoiceItemResponse, 0, len(inv.Items)),
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
	for _, it := range inv.Items {
		out.Items = append(out.Items, dto.InvoiceItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Description: it.Description,
			Units:       it.Units,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Subtotal:    it.Subtotal,
			Total:       it.Total,
		})
	}
	return out
}
