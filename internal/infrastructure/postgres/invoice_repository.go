package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturas-ledger/internal/domain"
	"github.com/jhoicas/facturas-ledger/internal/domain/entity"
	"github.com/jhoicas/facturas-ledger/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, number, date, doc_kind, client_id, notes, payment_method,
	subtotal, tax_total, total, paid, created_at, updated_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera y asigna ID. Un número repetido devuelve domain.ErrDuplicateNumber.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO invoices (number, date, doc_kind, client_id, notes, payment_method,
		                      subtotal, tax_total, total, paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		inv.Number, inv.Date, string(inv.Kind), inv.ClientID, inv.Notes, inv.PaymentMethod,
		inv.Subtotal, inv.TaxTotal, inv.Total, inv.Paid, inv.CreatedAt, inv.UpdatedAt,
	).Scan(&inv.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number %s: %w", inv.Number, domain.ErrDuplicateNumber)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de detalle.
func (r *InvoiceRepo) CreateItem(ctx context.Context, it *entity.InvoiceItem) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO invoice_items (invoice_id, product_id, description, units, unit_price, tax_rate, subtotal, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		it.InvoiceID, it.ProductID, it.Description, it.Units, it.UnitPrice, it.TaxRate, it.Subtotal, it.Total,
	).Scan(&it.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert invoice item: producto inexistente: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// Update actualiza los campos mutables de cabecera. number y doc_kind no se tocan.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE invoices
		SET date           = $2,
		    client_id      = $3,
		    notes          = $4,
		    payment_method = $5,
		    subtotal       = $6,
		    tax_total      = $7,
		    total          = $8,
		    paid           = $9,
		    updated_at     = $10
		WHERE id = $1`,
		inv.ID, inv.Date, inv.ClientID, inv.Notes, inv.PaymentMethod,
		inv.Subtotal, inv.TaxTotal, inv.Total, inv.Paid, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteItems borra todas las líneas del documento.
func (r *InvoiceRepo) DeleteItems(ctx context.Context, invoiceID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	return nil
}

// Delete borra la cabecera; las líneas caen por ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene la cabecera por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	row := r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetItems obtiene todas las líneas de un documento en orden de inserción.
func (r *InvoiceRepo) GetItems(ctx context.Context, invoiceID int64) ([]entity.InvoiceItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, invoice_id, product_id, description, units, unit_price, tax_rate, subtotal, total
		FROM invoice_items WHERE invoice_id = $1 ORDER BY id`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	var list []entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.Description, &it.Units,
			&it.UnitPrice, &it.TaxRate, &it.Subtotal, &it.Total); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// List pagina por id descendente con filtros opcionales de año y mes.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	var where []string
	var args []any
	if f.Year != nil {
		args = append(args, *f.Year)
		where = append(where, fmt.Sprintf("EXTRACT(YEAR FROM date) = $%d", len(args)))
	}
	if f.Month != nil {
		args = append(args, *f.Month)
		where = append(where, fmt.Sprintf("EXTRACT(MONTH FROM date) = $%d", len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM invoices%s ORDER BY id DESC LIMIT $%d OFFSET $%d`,
		invoiceColumns, cond, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, total, rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var kind string
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.Date, &kind, &inv.ClientID, &inv.Notes, &inv.PaymentMethod,
		&inv.Subtotal, &inv.TaxTotal, &inv.Total, &inv.Paid, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Kind = entity.DocKind(kind)
	return &inv, nil
}
