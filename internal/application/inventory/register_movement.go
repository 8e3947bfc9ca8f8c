package inventory

import (
	"context"

	"github.com/jhoicas/facturas-ledger/internal/application/dto"
	"github.com/jhoicas/facturas-ledger/internal/domain/entity"
)

// AdjustFromRequest adapta el request HTTP al ajuste manual Adjust(ctx, productID, delta, kind).
func (l *StockLedger) AdjustFromRequest(ctx context.Context, productID int64, in dto.AdjustStockRequest) (*dto.StockMovementResponse, error) {
	mov, err := l.Adjust(ctx, productID, in.Delta, in.Kind)
	if err != nil {
		return nil, err
	}
	out := toMovementResponse(mov)
	return &out, nil
}

func toMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Qty:       m.Qty,
		Kind:      m.Kind,
		InvoiceID: m.InvoiceID,
		CreatedAt: m.CreatedAt,
	}
}
