package entity

import "time"

// Tipos de movimiento del libro de inventario.
const (
	MovementKindSale   = "sale"   // salida por factura
	MovementKindManual = "manual" // entrada/salida manual
	MovementKindAdjust = "adjust" // ajuste de inventario
)

// ValidMovementKind indica si el tipo de movimiento es conocido.
func ValidMovementKind(kind string) bool {
	switch kind {
	case MovementKindSale, MovementKindManual, MovementKindAdjust:
		return true
	}
	return false
}

// StockMovement es una fila del registro append-only de inventario.
// Qty con signo: negativo = salida.
type StockMovement struct {
	ID        int64
	ProductID int64
	Qty       int64
	Kind      string
	InvoiceID *int64
	CreatedAt time.Time
}
