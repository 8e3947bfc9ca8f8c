// Package numbering formatea los números de documento {F|P}AAMM###.
package numbering

import (
	"fmt"
	"time"

	"github.com/jhoicas/facturas-ledger/internal/domain/entity"
)

// Period es el par (año, mes) que delimita un contador.
type Period struct {
	Year  int
	Month int
}

// PeriodOf deriva el periodo de la fecha efectiva del documento (no del reloj).
func PeriodOf(date time.Time) Period {
	return Period{Year: date.Year(), Month: int(date.Month())}
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Prefix devuelve la letra del tipo de documento.
func Prefix(kind entity.DocKind) string {
	if kind == entity.DocKindInvoice {
		return "F"
	}
	return "P"
}

// Format construye el número a partir del contador: F2501003.
func Format(kind entity.DocKind, p Period, seq int) string {
	return fmt.Sprintf("%s%02d%02d%03d", Prefix(kind), p.Year%100, p.Month%100, seq)
}
