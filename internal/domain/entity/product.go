package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo con existencias.
// StockQty solo cambia a través del libro de inventario; InitialStockQty es la base de la
// ecuación StockQty == InitialStockQty + Σ movimientos.
type Product struct {
	ID              int64
	SKU             string
	Name            string
	StockQty        int64
	InitialStockQty int64
	PriceNet        decimal.Decimal
	TaxRate         decimal.Decimal
	IsActive        bool
	CreatedAt       time.Time
}
