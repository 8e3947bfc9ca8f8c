package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturas-ledger/internal/domain/entity"
	"github.com/jhoicas/facturas-ledger/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo implementación de SequenceRepository sobre PostgreSQL (usable con pool o tx).
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// LockOrCreate inserta la fila si falta y la bloquea. Si otra tx insertó la misma fila sin confirmar,
// el INSERT ... ON CONFLICT espera a que termine; después el SELECT FOR UPDATE lee el valor confirmado.
func (r *SequenceRepo) LockOrCreate(ctx context.Context, kind entity.DocKind, year, month int) (*entity.DocumentSequence, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO document_sequences (doc_type, year, month, last_number)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (doc_type, year, month) DO NOTHING`,
		string(kind), year, month,
	)
	if err != nil {
		return nil, fmt.Errorf("insert document sequence: %w", err)
	}

	seq := entity.DocumentSequence{DocType: kind, Year: year, Month: month}
	err = r.q.QueryRow(ctx, `
		SELECT last_number FROM document_sequences
		WHERE doc_type = $1 AND year = $2 AND month = $3
		FOR UPDATE`,
		string(kind), year, month,
	).Scan(&seq.LastNumber)
	if err != nil {
		return nil, fmt.Errorf("lock document sequence: %w", err)
	}
	return &seq, nil
}

// Save persiste last_number de una fila bloqueada por LockOrCreate.
func (r *SequenceRepo) Save(ctx context.Context, seq *entity.DocumentSequence) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE document_sequences SET last_number = $4
		WHERE doc_type = $1 AND year = $2 AND month = $3`,
		string(seq.DocType), seq.Year, seq.Month, seq.LastNumber,
	)
	if err != nil {
		return fmt.Errorf("update document sequence: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("update document sequence: fila %s %d-%02d inexistente", seq.DocType, seq.Year, seq.Month)
	}
	return nil
}

// Get lee el contador sin bloquear.
func (r *SequenceRepo) Get(ctx context.Context, kind entity.DocKind, year, month int) (*entity.DocumentSequence, error) {
	seq := entity.DocumentSequence{DocType: kind, Year: year, Month: month}
	err := r.q.QueryRow(ctx, `
		SELECT last_number FROM document_sequences
		WHERE doc_type = $1 AND year = $2 AND month = $3`,
		string(kind), year, month,
	).Scan(&seq.LastNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document sequence: %w", err)
	}
	return &seq, nil
}
