package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocKind distingue facturas de proformas; ambas comparten tabla y numeración por tipo.
type DocKind string

const (
	DocKindInvoice  DocKind = "invoice"
	DocKindProforma DocKind = "proforma"
)

// Valid indica si el tipo es conocido.
func (k DocKind) Valid() bool {
	return k == DocKindInvoice || k == DocKindProforma
}

// Métodos de pago aceptados (solo facturas).
const (
	PaymentCash     = "efectivo"
	PaymentBizum    = "bizum"
	PaymentTransfer = "transferencia"
)

// Invoice representa la cabecera de una factura o proforma.
// Number es inmutable una vez asignado; Items con ProductID tampoco pueden cambiar.
type Invoice struct {
	ID            int64
	Number        string
	Date          time.Time
	Kind          DocKind
	ClientID      int64
	Notes         string
	PaymentMethod *string // nil en proformas
	Subtotal      decimal.Decimal
	TaxTotal      decimal.Decimal
	Total         decimal.Decimal
	Paid          bool
	Items         []InvoiceItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasStockLinkedItems indica si alguna línea referencia un producto.
func (inv *Invoice) HasStockLinkedItems() bool {
	for _, it := range inv.Items {
		if it.ProductID != nil {
			return true
		}
	}
	return false
}
