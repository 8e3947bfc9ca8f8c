package repository

import (
	"context"

	"github.com/jhoicas/facturas-ledger/internal/domain/entity"
)

// InvoiceFilter acota el listado de documentos. Year/Month nil = sin filtro.
type InvoiceFilter struct {
	Year   *int
	Month  *int
	Limit  int
	Offset int
}

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	// Create inserta la cabecera y asigna ID. Un número repetido devuelve domain.ErrDuplicateNumber.
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateItem(ctx context.Context, item *entity.InvoiceItem) error
	// Update actualiza los campos mutables de cabecera (fecha, cliente, notas, pago, pagada y totales).
	Update(ctx context.Context, invoice *entity.Invoice) error
	DeleteItems(ctx context.Context, invoiceID int64) error
	// Delete borra la factura y sus líneas.
	Delete(ctx context.Context, id int64) error
	// GetByID devuelve nil, nil si no existe. No carga Items.
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)
	GetItems(ctx context.Context, invoiceID int64) ([]entity.InvoiceItem, error)
	// List devuelve la página pedida (id descendente) y el total de filas del filtro.
	List(ctx context.Context, filter InvoiceFilter) ([]*entity.Invoice, int, error)
}
