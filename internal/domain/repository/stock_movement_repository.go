package repository

import (
	"context"

	"github.com/jhoicas/facturas-ledger/internal/domain/entity"
)

// StockMovementRepository define el puerto del registro append-only de movimientos.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListByProduct devuelve los movimientos en orden de inserción.
	ListByProduct(ctx context.Context, productID int64) ([]*entity.StockMovement, error)
	SumByProduct(ctx context.Context, productID int64) (int64, error)
	CountByInvoice(ctx context.Context, invoiceID int64) (int, error)
}
