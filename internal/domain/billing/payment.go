package billing

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/facturas-ledger/internal/domain/entity"
)

// NormalizePaymentMethod aplica la regla de métodos de pago: las proformas no llevan método;
// en facturas, un valor desconocido o vacío pasa a "efectivo". Ignora mayúsculas y tildes.
func NormalizePaymentMethod(kind entity.DocKind, raw *string) *string {
	if kind != entity.DocKindInvoice {
		return nil
	}
	pm := entity.PaymentCash
	if raw != nil {
		switch v := foldPayment(*raw); v {
		case entity.PaymentCash, entity.PaymentBizum, entity.PaymentTransfer:
			pm = v
		}
	}
	return &pm
}

func foldPayment(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = strings.TrimSpace(s)
	}
	// un Caser no se comparte entre goroutines
	return cases.Lower(language.Spanish).String(out)
}
