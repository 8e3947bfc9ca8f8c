package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout formato de fecha de los documentos (ISO-8601, sin hora).
const DateLayout = "2006-01-02"

// CreateInvoiceRequest body para POST /api/invoices.
// Paid solo se respeta en facturas; PaymentMethod se normaliza (ver billing.NormalizePaymentMethod).
type CreateInvoiceRequest struct {
	Date          string               `json:"date" validate:"required,datetime=2006-01-02"`
	Kind          string               `json:"kind" validate:"required,oneof=invoice proforma"`
	ClientID      int64                `json:"client_id" validate:"required,gt=0"`
	Notes         string               `json:"notes,omitempty" validate:"max=2000"`
	PaymentMethod *string              `json:"payment_method,omitempty"`
	Paid          bool                 `json:"paid,omitempty"`
	Items         []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// InvoiceItemRequest línea de factura. ProductID opcional: sin él la línea no toca inventario.
type InvoiceItemRequest struct {
	ProductID   *int64          `json:"product_id,omitempty" validate:"omitempty,gt=0"`
	Description string          `json:"description" validate:"max=500"`
	Units       int64           `json:"units" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// UpdateInvoiceRequest body para PUT /api/invoices/:id. Campos nil no cambian.
type UpdateInvoiceRequest struct {
	Date          *string               `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ClientID      *int64                `json:"client_id,omitempty" validate:"omitempty,gt=0"`
	Notes         *string               `json:"notes,omitempty" validate:"omitempty,max=2000"`
	PaymentMethod *string               `json:"payment_method,omitempty"`
	Items         *[]InvoiceItemRequest `json:"items,omitempty" validate:"omitempty,min=1,dive"`
}

// SetPaidRequest body para PATCH /api/invoices/:id/paid.
type SetPaidRequest struct {
	Paid *bool `json:"paid" validate:"required"`
}

// ConvertProformaRequest body opcional para PATCH /api/invoices/:id/convert.
type ConvertProformaRequest struct {
	PaymentMethod *string `json:"payment_method,omitempty"`
}

// ListInvoicesRequest filtros de GET /api/invoices. Year/Month en 0 = sin filtro.
type ListInvoicesRequest struct {
	Year  int `query:"year" validate:"omitempty,min=2000,max=2099"`
	Month int `query:"month" validate:"omitempty,min=1,max=12"`
	PageRequest
}

// InvoiceResponse factura o proforma con sus líneas.
type InvoiceResponse struct {
	ID            int64                 `json:"id"`
	Number        string                `json:"number"`
	Date          string                `json:"date"`
	Kind          string                `json:"kind"`
	ClientID      int64                 `json:"client_id"`
	Notes         string                `json:"notes,omitempty"`
	PaymentMethod *string               `json:"payment_method"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	TaxTotal      decimal.Decimal       `json:"tax_total"`
	Total         decimal.Decimal       `json:"total"`
	Paid          bool                  `json:"paid"`
	Items         []InvoiceItemResponse `json:"items"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// InvoiceItemResponse línea de detalle en la respuesta.
type InvoiceItemResponse struct {
	ID          int64           `json:"id"`
	ProductID   *int64          `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Units       int64           `json:"units"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceListResponse página de documentos (sin líneas).
type InvoiceListResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
	Page     PageResponse      `json:"page"`
}

// NextNumberResponse vista previa del próximo número (no lo reserva).
type NextNumberResponse struct {
	Kind   string `json:"kind"`
	Date   string `json:"date"`
	Number string `json:"number"`
}
