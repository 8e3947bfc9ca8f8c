package repository

import (
	"context"

	"github.com/jhoicas/facturas-ledger/internal/domain/entity"
)

// SequenceRepository define el puerto de los contadores por (tipo, año, mes).
type SequenceRepository interface {
	// LockOrCreate crea la fila con last_number = 0 si no existe y la bloquea (FOR UPDATE).
	// Un segundo llamador sobre la misma fila espera al commit o rollback del primero.
	LockOrCreate(ctx context.Context, kind entity.DocKind, year, month int) (*entity.DocumentSequence, error)
	// Save persiste LastNumber de una fila previamente bloqueada.
	Save(ctx context.Context, seq *entity.DocumentSequence) error
	// Get lee sin bloquear; nil, nil si el periodo aún no tiene contador.
	Get(ctx context.Context, kind entity.DocKind, year, month int) (*entity.DocumentSequence, error)
}
