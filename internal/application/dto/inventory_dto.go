package dto

import "time"

// AdjustStockRequest body para POST /api/products/:id/adjust.
// Delta con signo: negativo = salida.
type AdjustStockRequest struct {
	Delta int64  `json:"delta" validate:"required"`
	Kind  string `json:"kind" validate:"required,oneof=manual adjust"`
}

// StockMovementResponse fila del registro de movimientos.
type StockMovementResponse struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Qty       int64     `json:"qty"`
	Kind      string    `json:"movement_kind"`
	InvoiceID *int64    `json:"invoice_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LedgerBalanceResponse resultado de la auditoría de un producto.
// Consistent = (InitialStockQty + MovementSum == StockQty).
type LedgerBalanceResponse struct {
	ProductID       int64 `json:"product_id"`
	StockQty        int64 `json:"stock_qty"`
	InitialStockQty int64 `json:"initial_stock_qty"`
	MovementSum     int64 `json:"movement_sum"`
	Consistent      bool  `json:"consistent"`
}
