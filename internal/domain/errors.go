package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrDuplicate         = errors.New("el recurso ya existe")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrDuplicateNumber   = errors.New("el número de documento ya existe")
	ErrEditForbidden     = errors.New("edición no permitida")
	ErrProductArchived   = errors.New("producto archivado")
	ErrNotProforma       = errors.New("el documento no es una proforma")
)

// ValidationError detalla qué campo de la entrada es inválido. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StockInsufficientError identifica el producto sin existencias suficientes.
// errors.Is(err, ErrInsufficientStock) es true.
type StockInsufficientError struct {
	ProductID int64
	Requested int64
	Available int64
}

func (e *StockInsufficientError) Error() string {
	return fmt.Sprintf("%s: producto %d (solicitado %d, disponible %d)",
		ErrInsufficientStock, e.ProductID, e.Requested, e.Available)
}

func (e *StockInsufficientError) Unwrap() error { return ErrInsufficientStock }

// EditForbiddenError explica por qué el documento no admite la modificación.
type EditForbiddenError struct {
	InvoiceID int64
	Reason    string
}

func (e *EditForbiddenError) Error() string {
	return fmt.Sprintf("%s: documento %d: %s", ErrEditForbidden, e.InvoiceID, e.Reason)
}

func (e *EditForbiddenError) Unwrap() error { return ErrEditForbidden }
