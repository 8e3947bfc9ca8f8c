// Package numbering asigna los números de documento a partir de contadores persistidos.
package numbering

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/facturas-ledger/internal/domain"
	"github.com/jhoicas/facturas-ledger/internal/domain/entity"
	docnum "github.com/jhoicas/facturas-ledger/internal/domain/numbering"
	"github.com/jhoicas/facturas-ledger/internal/domain/repository"
)

// SequenceAllocator es el único emisor de números de factura y proforma.
// No guarda estado en memoria: el contador es siempre una fila bloqueable.
type SequenceAllocator struct {
	seqs repository.SequenceRepository
}

// NewSequenceAllocator construye el allocator. seqs se usa solo para la vista previa (sin transacción).
func NewSequenceAllocator(seqs repository.SequenceRepository) *SequenceAllocator {
	return &SequenceAllocator{seqs: seqs}
}

// NextNumber bloquea el contador del periodo de date, lo incrementa y devuelve el número formateado.
// seqs debe estar atado a la transacción del documento: si esta hace rollback, el avance también.
func (a *SequenceAllocator) NextNumber(ctx context.Context, seqs repository.SequenceRepository, kind entity.DocKind, date time.Time) (string, error) {
	if !kind.Valid() {
		return "", domain.Invalid("kind", "tipo de documento desconocido")
	}
	p := docnum.PeriodOf(date)
	seq, err := seqs.LockOrCreate(ctx, kind, p.Year, p.Month)
	if err != nil {
		return "", fmt.Errorf("bloquear contador %s %s: %w", kind, p, err)
	}
	seq.LastNumber++
	if err := seqs.Save(ctx, seq); err != nil {
		return "", fmt.Errorf("guardar contador %s %s: %w", kind, p, err)
	}
	return docnum.Format(kind, p, seq.LastNumber), nil
}

// PreviewNextNumber devuelve el número que recibiría el próximo documento confirmado.
// No bloquea ni consume: dos vistas previas concurrentes pueden ver el mismo número.
func (a *SequenceAllocator) PreviewNextNumber(ctx context.Context, kind entity.DocKind, date time.Time) (string, error) {
	if !kind.Valid() {
		return "", domain.Invalid("kind", "tipo de documento desconocido")
	}
	p := docnum.PeriodOf(date)
	seq, err := a.seqs.Get(ctx, kind, p.Year, p.Month)
	if err != nil {
		return "", fmt.Errorf("leer contador %s %s: %w", kind, p, err)
	}
	next := 1
	if seq != nil {
		next = seq.LastNumber + 1
	}
	return docnum.Format(kind, p, next), nil
}
