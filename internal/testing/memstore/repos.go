package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/facturas-ledger/internal/domain"
	"github.com/jhoicas/facturas-ledger/internal/domain/entity"
	"github.com/jhoicas/facturas-ledger/internal/domain/repository"
)

var (
	_ repository.SequenceRepository      = (*sequenceRepo)(nil)
	_ repository.ProductRepository       = (*productRepo)(nil)
	_ repository.StockMovementRepository = (*movementRepo)(nil)
	_ repository.InvoiceRepository       = (*invoiceRepo)(nil)
)

type sequenceRepo struct{ c *conn }

func (r *sequenceRepo) LockOrCreate(ctx context.Context, kind entity.DocKind, year, month int) (*entity.DocumentSequence, error) {
	var out entity.DocumentSequence
	err := r.c.do(ctx, func(st *state) error {
		k := seqKey{kind, year, month}
		seq, ok := st.sequences[k]
		if !ok {
			seq = entity.DocumentSequence{DocType: kind, Year: year, Month: month}
			st.sequences[k] = seq
		}
		out = seq
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *sequenceRepo) Save(ctx context.Context, seq *entity.DocumentSequence) error {
	return r.c.do(ctx, func(st *state) error {
		k := seqKey{seq.DocType, seq.Year, seq.Month}
		if _, ok := st.sequences[k]; !ok {
			return fmt.Errorf("contador %s %d-%02d: %w", seq.DocType, seq.Year, seq.Month, domain.ErrNotFound)
		}
		st.sequences[k] = *seq
		return nil
	})
}

func (r *sequenceRepo) Get(ctx context.Context, kind entity.DocKind, year, month int) (*entity.DocumentSequence, error) {
	var out *entity.DocumentSequence
	err := r.c.do(ctx, func(st *state) error {
		if seq, ok := st.sequences[seqKey{kind, year, month}]; ok {
			out = &seq
		}
		return nil
	})
	return out, err
}

type productRepo struct{ c *conn }

func (r *productRepo) Create(ctx context.Context, p *entity.Product) error {
	return r.c.do(ctx, func(st *state) error {
		for _, other := range st.products {
			if other.SKU == p.SKU {
				return fmt.Errorf("sku %q: %w", p.SKU, domain.ErrDuplicate)
			}
		}
		if p.StockQty < 0 {
			return fmt.Errorf("stock negativo para %q", p.SKU)
		}
		st.lastProduct++
		p.ID = st.lastProduct
		st.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.c.do(ctx, func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// GetForUpdate: el mutex de la transacción ya serializa el acceso.
func (r *productRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) UpdateStock(ctx context.Context, id int64, stockQty int64) error {
	return r.c.do(ctx, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		// equivalente al CHECK (stock_qty >= 0) de la tabla
		if stockQty < 0 {
			return fmt.Errorf("producto %d: stock_qty negativo (%d)", id, stockQty)
		}
		p.StockQty = stockQty
		st.products[id] = p
		return nil
	})
}

func (r *productRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return r.c.do(ctx, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.IsActive = active
		st.products[id] = p
		return nil
	})
}

type movementRepo struct{ c *conn }

func (r *movementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	return r.c.do(ctx, func(st *state) error {
		if m.Qty == 0 {
			return fmt.Errorf("movimiento con qty 0")
		}
		if _, ok := st.products[m.ProductID]; !ok {
			return fmt.Errorf("producto %d: %w", m.ProductID, domain.ErrNotFound)
		}
		st.lastMovement++
		m.ID = st.lastMovement
		row := *m
		row.InvoiceID = copyID(m.InvoiceID)
		st.movements = append(st.movements, row)
		return nil
	})
}

func (r *movementRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.c.do(ctx, func(st *state) error {
		for _, m := range st.movements {
			if m.ProductID == productID {
				m := m
				m.InvoiceID = copyID(m.InvoiceID)
				out = append(out, &m)
			}
		}
		return nil
	})
	return out, err
}

func (r *movementRepo) SumByProduct(ctx context.Context, productID int64) (int64, error) {
	var sum int64
	err := r.c.do(ctx, func(st *state) error {
		for _, m := range st.movements {
			if m.ProductID == productID {
				sum += m.Qty
			}
		}
		return nil
	})
	return sum, err
}

func (r *movementRepo) CountByInvoice(ctx context.Context, invoiceID int64) (int, error) {
	var n int
	err := r.c.do(ctx, func(st *state) error {
		for _, m := range st.movements {
			if m.InvoiceID != nil && *m.InvoiceID == invoiceID {
				n++
			}
		}
		return nil
	})
	return n, err
}

type invoiceRepo struct{ c *conn }

func (r *invoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	return r.c.do(ctx, func(st *state) error {
		if q := r.c.store.invoiceInsertFailures; len(q) > 0 {
			r.c.store.invoiceInsertFailures = q[1:]
			return q[0]
		}
		for _, other := range st.invoices {
			if other.Number == inv.Number {
				return fmt.Errorf("número %s: %w", inv.Number, domain.ErrDuplicateNumber)
			}
		}
		st.lastInvoice++
		inv.ID = st.lastInvoice
		st.invoices[inv.ID] = header(inv)
		return nil
	})
}

func (r *invoiceRepo) CreateItem(ctx context.Context, it *entity.InvoiceItem) error {
	return r.c.do(ctx, func(st *state) error {
		if _, ok := st.invoices[it.InvoiceID]; !ok {
			return fmt.Errorf("documento %d: %w", it.InvoiceID, domain.ErrNotFound)
		}
		// misma semántica que la FK invoice_items.product_id
		if it.ProductID != nil {
			if _, ok := st.products[*it.ProductID]; !ok {
				return fmt.Errorf("producto %d: %w", *it.ProductID, domain.ErrNotFound)
			}
		}
		st.lastItem++
		it.ID = st.lastItem
		row := *it
		row.ProductID = copyID(it.ProductID)
		st.items[it.InvoiceID] = append(st.items[it.InvoiceID], row)
		return nil
	})
}

func (r *invoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	return r.c.do(ctx, func(st *state) error {
		cur, ok := st.invoices[inv.ID]
		if !ok {
			return domain.ErrNotFound
		}
		next := header(inv)
		// el número y el tipo no se actualizan
		next.Number, next.Kind, next.CreatedAt = cur.Number, cur.Kind, cur.CreatedAt
		st.invoices[inv.ID] = next
		return nil
	})
}

func (r *invoiceRepo) DeleteItems(ctx context.Context, invoiceID int64) error {
	return r.c.do(ctx, func(st *state) error {
		delete(st.items, invoiceID)
		return nil
	})
}

func (r *invoiceRepo) Delete(ctx context.Context, id int64) error {
	return r.c.do(ctx, func(st *state) error {
		if _, ok := st.invoices[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.invoices, id)
		delete(st.items, id)
		return nil
	})
}

func (r *invoiceRepo) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.c.do(ctx, func(st *state) error {
		if inv, ok := st.invoices[id]; ok {
			inv.PaymentMethod = copyStr(inv.PaymentMethod)
			out = &inv
		}
		return nil
	})
	return out, err
}

func (r *invoiceRepo) GetItems(ctx context.Context, invoiceID int64) ([]entity.InvoiceItem, error) {
	var out []entity.InvoiceItem
	err := r.c.do(ctx, func(st *state) error {
		for _, it := range st.items[invoiceID] {
			it.ProductID = copyID(it.ProductID)
			out = append(out, it)
		}
		return nil
	})
	return out, err
}

func (r *invoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	var page []*entity.Invoice
	var total int
	err := r.c.do(ctx, func(st *state) error {
		var all []entity.Invoice
		for _, inv := range st.invoices {
			if f.Year != nil && inv.Date.Year() != *f.Year {
				continue
			}
			if f.Month != nil && int(inv.Date.Month()) != *f.Month {
				continue
			}
			all = append(all, inv)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
		total = len(all)
		for i := f.Offset; i < len(all) && (f.Limit <= 0 || len(page) < f.Limit); i++ {
			inv := all[i]
			inv.PaymentMethod = copyStr(inv.PaymentMethod)
			page = append(page, &inv)
		}
		return nil
	})
	return page, total, err
}

// header guarda la cabecera sin líneas.
func header(inv *entity.Invoice) entity.Invoice {
	h := *inv
	h.Items = nil
	h.PaymentMethod = copyStr(inv.PaymentMethod)
	return h
}
