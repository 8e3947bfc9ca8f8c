package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// InitialStock es la base de la ecuación stock = inicial + Σ movimientos.
type CreateProductRequest struct {
	SKU          string          `json:"sku" validate:"required,min=1,max=100"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	PriceNet     decimal.Decimal `json:"price_net"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	InitialStock int64           `json:"initial_stock" validate:"min=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              int64           `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	StockQty        int64           `json:"stock_qty"`
	InitialStockQty int64           `json:"initial_stock_qty"`
	PriceNet        decimal.Decimal `json:"price_net"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
}
