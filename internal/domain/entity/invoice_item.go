package entity

import "github.com/shopspring/decimal"

// InvoiceItem representa una línea de detalle de una factura o proforma.
// Subtotal = Units * UnitPrice; Total = Subtotal * (1 + TaxRate/100).
type InvoiceItem struct {
	ID          int64
	InvoiceID   int64
	ProductID   *int64 // nil = línea libre, sin efecto en inventario
	Description string
	Units       int64
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal // porcentaje 0..100
	Subtotal    decimal.Decimal
	Total       decimal.Decimal
}
