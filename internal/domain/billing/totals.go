// Package billing contiene las reglas puras de facturación: validación de líneas y cálculo de totales.
package billing

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturas-ledger/internal/domain"
	"github.com/jhoicas/facturas-ledger/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Line es una línea de entrada antes de calcular importes.
type Line struct {
	ProductID   *int64
	Description string
	Units       int64
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
}

// Totals agrupa los importes de cabecera.
type Totals struct {
	Subtotal decimal.Decimal
	TaxTotal decimal.Decimal
	Total    decimal.Decimal
}

// ValidateLines comprueba la forma de las líneas: al menos una, unidades > 0,
// precio >= 0 e IVA en [0, 100].
func ValidateLines(lines []Line) error {
	if len(lines) == 0 {
		return domain.Invalid("items", "se requiere al menos una línea")
	}
	for i, l := range lines {
		if l.Units <= 0 {
			return domain.Invalid(field(i, "units"), "debe ser mayor que cero")
		}
		if l.UnitPrice.IsNegative() {
			return domain.Invalid(field(i, "unit_price"), "no puede ser negativo")
		}
		if l.TaxRate.IsNegative() || l.TaxRate.GreaterThan(hundred) {
			return domain.Invalid(field(i, "tax_rate"), "debe estar entre 0 y 100")
		}
		if l.ProductID != nil && *l.ProductID <= 0 {
			return domain.Invalid(field(i, "product_id"), "identificador inválido")
		}
	}
	return nil
}

// BuildItems calcula subtotal y total exactos de cada línea (sin redondeo) y la cabecera con TotalsOf.
func BuildItems(lines []Line) ([]entity.InvoiceItem, Totals) {
	items := make([]entity.InvoiceItem, 0, len(lines))
	for _, l := range lines {
		subtotal := decimal.NewFromInt(l.Units).Mul(l.UnitPrice)
		items = append(items, entity.InvoiceItem{
			ProductID:   copyID(l.ProductID),
			Description: l.Description,
			Units:       l.Units,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
			Subtotal:    subtotal,
			Total:       subtotal.Add(taxOf(subtotal, l.TaxRate)),
		})
	}
	return items, TotalsOf(items)
}

// TotalsOf suma los importes exactos de las líneas y redondea a céntimos solo la cabecera:
// subtotal = Σ unidades×precio, iva = Σ unidades×precio×tipo/100, total = subtotal + iva.
func TotalsOf(items []entity.InvoiceItem) Totals {
	var sub, tax decimal.Decimal
	for _, it := range items {
		sub = sub.Add(it.Subtotal)
		tax = tax.Add(it.Total.Sub(it.Subtotal))
	}
	t := Totals{Subtotal: sub.Round(2), TaxTotal: tax.Round(2)}
	t.Total = t.Subtotal.Add(t.TaxTotal)
	return t
}

// taxOf es exacto: dividir entre 100 solo desplaza la coma.
func taxOf(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(rate).Shift(-2)
}

// LinesFromItems reconstruye líneas de entrada copiando literalmente las de otro documento.
func LinesFromItems(items []entity.InvoiceItem) []Line {
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, Line{
			ProductID:   copyID(it.ProductID),
			Description: it.Description,
			Units:       it.Units,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
		})
	}
	return lines
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func field(i int, name string) string {
	return "items[" + strconv.Itoa(i) + "]." + name
}
