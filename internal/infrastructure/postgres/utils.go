package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/facturas-ledger/internal/domain"
)

const (
	uqInvoiceNumber = "invoices_number_key"
	uqProductSKU    = "products_sku_key"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation verifica si un error es una violación de clave foránea (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// errDuplicateFrom traduce la violación de unicidad al error de dominio según la restricción.
func errDuplicateFrom(err error) error {
	switch constraintName(err) {
	case uqInvoiceNumber:
		return domain.ErrDuplicateNumber
	default:
		return domain.ErrDuplicate
	}
}
