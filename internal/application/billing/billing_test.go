package billing_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/facturas-ledger/internal/application/billing"
	"github.com/jhoicas/facturas-ledger/internal/application/dto"
	"github.com/jhoicas/facturas-ledger/internal/application/inventory"
	"github.com/jhoicas/facturas-ledger/internal/application/numbering"
	"github.com/jhoicas/facturas-ledger/internal/domain"
	rules "github.com/jhoicas/facturas-ledger/internal/domain/billing"
	"github.com/jhoicas/facturas-ledger/internal/domain/entity"
	docnum "github.com/jhoicas/facturas-ledger/internal/domain/numbering"
	"github.com/jhoicas/facturas-ledger/internal/domain/repository"
	"github.com/jhoicas/facturas-ledger/internal/testing/memstore"
	"github.com/jhoicas/facturas-ledger/pkg/logger"
)

var jan2025 = time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC)

type LedgerSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memstore.Store
	ledger  *inventory.StockLedger
	alloc   *numbering.SequenceAllocator
	create  *billing.CreateInvoiceUseCase
	convert *billing.ConvertProformaUseCase
	guard   *billing.EditGuard
	queries *billing.InvoiceQueryUseCase
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memstore.New()
	reads := s.store.Repos()
	log := logger.Nop()
	opts := billing.Options{TxTimeout: 5 * time.Second, DuplicateRetries: 1}

	s.ledger = inventory.NewStockLedger(s.store, reads, log, opts.TxTimeout)
	s.alloc = numbering.NewSequenceAllocator(reads.Sequences)
	s.create = billing.NewCreateInvoiceUseCase(s.store, s.alloc, s.ledger, log, opts)
	s.convert = billing.NewConvertProformaUseCase(s.store, s.alloc, s.ledger, log, opts)
	s.guard = billing.NewEditGuard(s.store, log, opts.TxTimeout)
	s.queries = billing.NewInvoiceQueryUseCase(reads.Invoices, s.alloc)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func ptr[T any](v T) *T { return &v }

func (s *LedgerSuite) product(sku string, stock int64) int64 {
	p, err := s.ledger.CreateProduct(s.ctx, dto.CreateProductRequest{
		SKU: sku, Name: sku, PriceNet: dec("10"), TaxRate: dec("21"), InitialStock: stock,
	})
	s.Require().NoError(err)
	return p.ID
}

func (s *LedgerSuite) stock(id int64) int64 {
	p, err := s.store.Repos().Products.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(p)
	return p.StockQty
}

func (s *LedgerSuite) movements(id int64) []*entity.StockMovement {
	list, err := s.store.Repos().Movements.ListByProduct(s.ctx, id)
	s.Require().NoError(err)
	return list
}

func (s *LedgerSuite) invoiceCount() int {
	out, err := s.queries.ListInvoices(s.ctx, dto.ListInvoicesRequest{})
	s.Require().NoError(err)
	return out.Page.Total
}

func (s *LedgerSuite) draft(kind entity.DocKind, lines ...rules.Line) billing.Draft {
	return billing.Draft{Kind: kind, Date: jan2025, ClientID: 1, Lines: lines}
}

func freeLine(units int64, price, tax string) rules.Line {
	return rules.Line{Description: "servicio", Units: units, UnitPrice: dec(price), TaxRate: dec(tax)}
}

func stockLine(productID, units int64) rules.Line {
	return rules.Line{ProductID: ptr(productID), Description: "artículo", Units: units, UnitPrice: dec("10"), TaxRate: dec("21")}
}

func (s *LedgerSuite) assertBalanced(ids ...int64) {
	for _, id := range ids {
		bal, err := s.ledger.LedgerBalance(s.ctx, id)
		s.Require().NoError(err)
		s.True(bal.Consistent, "producto %d descuadrado", id)
		s.GreaterOrEqual(bal.StockQty, int64(0))
	}
}

// ── InvoiceTransaction ───────────────────────────────────────────────────────

func (s *LedgerSuite) TestCreate_ComputesTotalsAndNumber() {
	inv, err := s.create.Create(s.ctx, s.draft(entity.DocKindInvoice,
		freeLine(3, "10", "21"),
		freeLine(1, "5", "21"),
	))
	s.Require().NoError(err)

	s.Equal("F2501001", inv.Number)
	s.True(dec("35.00").Equal(inv.Subtotal), inv.Subtotal.String())
	s.True(dec("7.35").Equal(inv.TaxTotal), inv.TaxTotal.String())
	s.True(dec("42.35").Equal(inv.Total), inv.Total.String())
	s.Require().NotNil(inv.PaymentMethod)
	s.Equal(entity.PaymentCash, *inv.PaymentMethod)
	s.Len(inv.Items, 2)

	got, err := s.queries.GetInvoice(s.ctx, inv.ID)
	s.Require().NoError(err)
	s.Equal("F2501001", got.Number)
	s.Equal("2025-01-20", got.Date)
	s.Len(got.Items, 2)
}

func (s *LedgerSuite) TestCreate_InvoiceDecrementsStockWithSaleMovements() {
	a := s.product("A", 10)
	inv, err := s.create.Create(s.ctx, s.draft(entity.DocKindInvoice, stockLine(a, 3), freeLine(1, "5", "0")))
	s.Require().NoError(err)

	s.Equal(int64(7), s.stock(a))
	movs := s.movements(a)
	s.Require().Len(movs, 1)
	s.Equal(int64(-3), movs[0].Qty)
	s.Equal(entity.MovementKindSale, movs[0].Kind)
	s.Require().NotNil(movs[0].InvoiceID)
	s.Equal(inv.ID, *movs[0].InvoiceID)
	s.assertBalanced(a)
}

func (s *LedgerSuite) TestCreate_ProformaDoesNotTouchStock() {
	a := s.product("A", 1)
	inv, err := s.create.Create(s.ctx, billing.Draft{
		Kind: entity.DocKindProforma, Date: jan2025, ClientID: 1,
		PaymentMethod: ptr("bizum"), Paid: true,
		Lines: []rules.Line{stockLine(a, 5)},
	})
	s.Require().NoError(err)
	s.Equal("P2501001", inv.Number)
	s.Nil(inv.PaymentMethod)
	s.False(inv.Paid)
	s.Equal(int64(1), s.stock(a))
	s.Empty(s.movements(a))
}

func (s *LedgerSuite) TestCreate_InsufficientStockLeavesNoTrace() {
	a := s.product("A", 2)
	_, err := s.create.Create(s.ctx, s.draft(entity.DocKindInvoice, stockLine(a, 3)))

	var se *domain.StockInsufficientError
	s.Require().ErrorAs(err, &se)
	s.Equal(a, se.ProductID)
	s.Equal(int64(2), s.stock(a))
	s.Empty(s.movements(a))
	s.Zero(s.invoiceCount())

	next, err := s.queries.NextNumber(s.ctx, "invoice", "2025-01-05")
	s.Require().NoError(err)
	s.Equal("F2501001", next.Number, "el contador no debe avanzar")
}

func (s *LedgerSuite) TestCreate_FailureOnLaterLineRollsBackEarlierLines() {
	a := s.product("A", 10)
	b := s.product("B", 10)
	c := s.product("C", 1)

	_, err := s.create.Create(s.ctx, s.draft(entity.DocKindInvoice, stockLine(a, 1), stockLine(b, 2), stockLine(c, 2)))
	s.Require().ErrorIs(err, domain.ErrInsufficientStock)

	for _, id := range []int64{a, b} {
		s.Equal(int64(10), s.stock(id))
		s.Empty(s.movements(id))
	}
	s.Equal(int64(1), s.stock(c))

	inv, err := s.create.Create(s.ctx, s.draft(entity.DocKindInvoice, stockLine(a, 1)))
	s.Require().NoError(err)
	s.Equal("F2501001", inv.Number)
}

func (s *LedgerSuite) TestCreate_ValidationErrorsPersistNothing() {
	commitsBefore, _ := s.store.Stats()
	cases := map[string]billing.Draft{
		"sin líneas":    s.draft(entity.DocKindInvoice),
		"unidades cero": s.draft(entity.DocKindInvoice, freeLine(0, "1", "21")),
		"iva > 100":     s.draft(entity.DocKindInvoice, freeLine(1, "1", "121")),
		"tipo":          s.draft(entity.DocKind("ticket"), freeLine(1, "1", "21")),
		"cliente":       {Kind: entity.DocKindInvoice, Date: jan2025, Lines: []rules.Line{freeLine(1, "1", "21")}},
	}
	for name, d := range cases {
		_, err := s.create.Create(s.ctx, d)
		s.ErrorIs(err, domain.ErrInvalidInput, name)
	}
	commitsAfter, _ := s.store.Stats()
	s.Equal(commitsBefore, commitsAfter)
	s.Zero(s.invoiceCount())
}

func (s *LedgerSuite) TestCreate_SequentialNumbersAndRollover() {
	for i := 1; i <= 3; i++ {
		inv, err := s.create.Create(s.ctx, s.draft(entity.DocKindInvoice, freeLine(1, "1", "21")))
		s.Require().NoError(err)
		s.Equal("F250100"+string(rune('0'+i)), inv.Number)
	}
	feb := s.draft(entity.DocKindInvoice, freeLine(1, "1", "21"))
	feb.Date = time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	inv, err := s.create.Create(s.ctx, feb)
	s.Require().NoError(err)
	s.Equal("F2502001", inv.Number)
}

func (s *LedgerSuite) TestCreate_ConcurrentCreationsGetDistinctNumbers() {
	a := s.product("A", 100)
	const n = 12
	var mu sync.Mutex
	var numbers []string
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			inv, err := s.create.Create(s.ctx, s.draft(entity.DocKindInvoice, stockLine(a, 2)))
			if err != nil {
				return err
			}
			mu.Lock()
			numbers = append(numbers, inv.Number)
			mu.Unlock()
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	sort.Strings(numbers)
	s.Require().Len(numbers, n)
	s.Equal("F2501001", numbers[0])
	s.Equal("F2501012", numbers[n-1])
	for i := 1; i < n; i++ {
		s.NotEqual(numbers[i-1], numbers[i])
	}
	s.Equal(int64(100-2*n), s.stock(a))
	s.Len(s.movements(a), n)
	s.assertBalanced(a)
}

func (s *LedgerSuite) TestCreate_RetriesOnceOnDuplicateNumber() {
	a := s.product("A", 5)
	s.store.FailNextInvoiceInsert(domain.ErrDuplicateNumber)

	inv, err := s.create.Create(s.ctx, s.draft(entity.DocKindInvoice, stockLine(a, 1)))
	s.Require().NoError(err)
	s.Equal("F2501001", inv.Number)
	s.Equal(int64(4), s.stock(a))
	s.Len(s.movements(a), 1)
}

func (s *LedgerSuite) TestCreate_DuplicateNumberSurfacesWhenRetriesExhausted() {
	noRetry := billing.NewCreateInvoiceUseCase(s.store, s.alloc, s.ledger, logger.Nop(), billing.Options{TxTimeout: time.Second})
	a := s.product("A", 5)
	s.store.FailNextInvoiceInsert(domain.ErrDuplicateNumber)

	_, err := noRetry.Create(s.ctx, s.draft(entity.DocKindInvoice, stockLine(a, 1)))
	s.Require().ErrorIs(err, domain.ErrDuplicateNumber)
	s.Equal(int64(5), s.stock(a))
	s.Zero(s.invoiceCount())
}

func (s *LedgerSuite) TestCreate_LegacyNumberCollisionIsDuplicate() {
	// número importado fuera del contador
	legacy := &entity.Invoice{Number: "F2501001", Kind: entity.DocKindInvoice, Date: jan2025, ClientID: 9}
	s.Require().NoError(s.store.Repos().Invoices.Create(s.ctx, legacy))

	_, err := s.create.Create(s.ctx, s.draft(entity.DocKindInvoice, freeLine(1, "1", "21")))
	s.ErrorIs(err, domain.ErrDuplicateNumber)
	s.Equal(1, s.invoiceCount())
}

// cancelingReserver cancela el contexto del llamador después de descontar stock, antes del commit.
type cancelingReserver struct {
	inner  billing.StockReserver
	cancel context.CancelFunc
}

func (r cancelingReserver) ReserveAndDecrement(ctx context.Context, repos repository.LedgerRepos, items []entity.InvoiceItem) error {
	if err := r.inner.ReserveAndDecrement(ctx, repos, items); err != nil {
		return err
	}
	r.cancel()
	return nil
}

func (r cancelingReserver) RecordSales(ctx context.Context, repos repository.LedgerRepos, invoiceID int64, items []entity.InvoiceItem) error {
	return r.inner.RecordSales(ctx, repos, invoiceID, items)
}

func (s *LedgerSuite) TestCreate_CancellationBeforeCommitRollsBack() {
	a := s.product("A", 5)
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	uc := billing.NewCreateInvoiceUseCase(s.store, s.alloc, cancelingReserver{inner: s.ledger, cancel: cancel}, logger.Nop(),
		billing.Options{TxTimeout: time.Second, DuplicateRetries: 1})

	_, err := uc.Create(ctx, s.draft(entity.DocKindInvoice, stockLine(a, 2)))
	s.Require().ErrorIs(err, context.Canceled)
	s.Equal(int64(5), s.stock(a))
	s.Empty(s.movements(a))
	s.Zero(s.invoiceCount())

	next, err := s.queries.NextNumber(s.ctx, "invoice", "2025-01-01")
	s.Require().NoError(err)
	s.Equal("F2501001", next.Number)
}

func (s *LedgerSuite) TestCreate_UnknownProductIsNotFoundForBothKinds() {
	for _, kind := range []entity.DocKind{entity.DocKindInvoice, entity.DocKindProforma} {
		_, err := s.create.Create(s.ctx, s.draft(kind, stockLine(404, 1)))
		s.ErrorIs(err, domain.ErrNotFound, string(kind))
	}
	s.Zero(s.invoiceCount())

	next, err := s.queries.NextNumber(s.ctx, "proforma", "2025-01-01")
	s.Require().NoError(err)
	s.Equal("P2501001", next.Number)
}

func (s *LedgerSuite) TestCreateInvoice_FromRequest() {
	out, err := s.create.CreateInvoice(s.ctx, dto.CreateInvoiceRequest{
		Date: "2025-03-10", Kind: "invoice", ClientID: 4, PaymentMethod: ptr(" Transferencia "), Paid: true,
		Items: []dto.InvoiceItemRequest{{Description: "x", Units: 2, UnitPrice: dec("1.50"), TaxRate: dec("10")}},
	})
	s.Require().NoError(err)
	s.Equal("F2503001", out.Number)
	s.Require().NotNil(out.PaymentMethod)
	s.Equal(entity.PaymentTransfer, *out.PaymentMethod)
	s.True(out.Paid)
	s.True(dec("3.30").Equal(out.Total))

	_, err = s.create.CreateInvoice(s.ctx, dto.CreateInvoiceRequest{Date: "10/03/2025", Kind: "invoice", ClientID: 4})
	s.ErrorIs(err, domain.ErrInvalidInput)
}

// ── ConversionTransaction ────────────────────────────────────────────────────

func (s *LedgerSuite) TestConvert_LeavesProformaUntouched() {
	a := s.product("A", 10)
	pro, err := s.create.Create(s.ctx, s.draft(entity.DocKindProforma, stockLine(a, 4), freeLine(1, "5", "21")))
	s.Require().NoError(err)
	before, err := s.queries.GetInvoice(s.ctx, pro.ID)
	s.Require().NoError(err)

	inv, err := s.convert.ConvertToInvoice(s.ctx, pro.ID, ptr("bizum"))
	s.Require().NoError(err)
	s.Equal(entity.DocKindInvoice, inv.Kind)
	s.NotEqual(pro.ID, inv.ID)
	// la factura se fecha hoy y abre el contador del mes en curso
	s.Equal(docnum.Format(entity.DocKindInvoice, docnum.PeriodOf(inv.Date), 1), inv.Number)
	s.Require().NotNil(inv.PaymentMethod)
	s.Equal(entity.PaymentBizum, *inv.PaymentMethod)
	s.True(pro.Total.Equal(inv.Total))
	s.Require().Len(inv.Items, 2)
	s.Require().NotNil(inv.Items[0].ProductID)
	s.Equal(a, *inv.Items[0].ProductID)
	s.Equal(pro.Items[0].Description, inv.Items[0].Description)
	s.Equal(pro.Items[0].Units, inv.Items[0].Units)

	after, err := s.queries.GetInvoice(s.ctx, pro.ID)
	s.Require().NoError(err)
	s.Equal(before, after)

	s.Equal(int64(6), s.stock(a))
	movs := s.movements(a)
	s.Require().Len(movs, 1)
	s.Equal(inv.ID, *movs[0].InvoiceID)
}

func (s *LedgerSuite) TestConvert_RepeatedConversionsAreAllowed() {
	a := s.product("A", 10)
	pro, err := s.create.Create(s.ctx, s.draft(entity.DocKindProforma, stockLine(a, 3)))
	s.Require().NoError(err)

	first, err := s.convert.ConvertToInvoice(s.ctx, pro.ID, nil)
	s.Require().NoError(err)
	second, err := s.convert.ConvertToInvoice(s.ctx, pro.ID, nil)
	s.Require().NoError(err)

	s.NotEqual(first.Number, second.Number)
	s.Equal(int64(4), s.stock(a))
	s.assertBalanced(a)
}

func (s *LedgerSuite) TestConvert_RevalidatesStock() {
	a := s.product("A", 5)
	pro, err := s.create.Create(s.ctx, s.draft(entity.DocKindProforma, stockLine(a, 4)))
	s.Require().NoError(err)
	_, err = s.ledger.Adjust(s.ctx, a, -3, entity.MovementKindAdjust)
	s.Require().NoError(err)

	_, err = s.convert.ConvertToInvoice(s.ctx, pro.ID, nil)
	s.Require().ErrorIs(err, domain.ErrInsufficientStock)
	s.Equal(int64(2), s.stock(a))
	s.Equal(1, s.invoiceCount())
}

func (s *LedgerSuite) TestConvert_RejectsInvoicesAndMissing() {
	inv, err := s.create.Create(s.ctx, s.draft(entity.DocKindInvoice, freeLine(1, "1", "21")))
	s.Require().NoError(err)

	_, err = s.convert.ConvertToInvoice(s.ctx, inv.ID, nil)
	s.ErrorIs(err, domain.ErrNotProforma)
	_, err = s.convert.ConvertToInvoice(s.ctx, 999, nil)
	s.ErrorIs(err, domain.ErrNotFound)
	_, err = s.convert.ConvertToInvoice(s.ctx, 0, nil)
	s.ErrorIs(err, domain.ErrInvalidInput)
}

// ── EditGuard ────────────────────────────────────────────────────────────────

func (s *LedgerSuite) TestCanEditItems() {
	a := s.product("A", 5)
	linked, err := s.create.Create(s.ctx, s.draft(entity.DocKindInvoice, stockLine(a, 1), freeLine(1, "1", "0")))
	s.Require().NoError(err)
	free, err := s.create.Create(s.ctx, s.draft(entity.DocKindInvoice, freeLine(1, "1", "0")))
	s.Require().NoError(err)

	s.False(billing.CanEditItems(linked))
	s.True(billing.CanEditItems(free))
}

func (s *LedgerSuite) TestUpdate_StockLinkedItemsAreFrozen() {
	a := s.product("A", 5)
	inv, err := s.create.Create(s.ctx, s.draft(entity.DocKindInvoice, stockLine(a, 1)))
	s.Require().NoError(err)

	lines := []rules.Line{freeLine(9, "9", "21")}
	_, err = s.guard.UpdateInvoice(s.ctx, inv.ID, billing.Patch{Items: &lines})
	var ef *domain.EditForbiddenError
	s.Require().ErrorAs(err, &ef)
	s.Equal(inv.ID, ef.InvoiceID)

	// la cabecera sí es editable
	notes := "entregado"
	newDate := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	upd, err := s.guard.UpdateInvoice(s.ctx, inv.ID, billing.Patch{Notes: &notes, Date: &newDate, PaymentMethod: ptr("BIZUM")})
	s.Require().NoError(err)
	s.Equal(inv.Number, upd.Number)
	s.Equal("entregado", upd.Notes)
	s.Equal(newDate, upd.Date)
	s.Equal(entity.PaymentBizum, *upd.PaymentMethod)
	s.True(inv.Total.Equal(upd.Total))
}

func (s *LedgerSuite) TestUpdate_ReplacesFreeItemsAndRecomputesTotals() {
	inv, err := s.create.Create(s.ctx, s.draft(entity.DocKindInvoice, freeLine(1, "100", "21")))
	s.Require().NoError(err)

	lines := []rules.Line{freeLine(3, "10", "21"), freeLine(1, "5", "21")}
	upd, err := s.guard.UpdateInvoice(s.ctx, inv.ID, billing.Patch{Items: &lines})
	s.Require().NoError(err)
	s.True(dec("42.35").Equal(upd.Total))

	got, err := s.queries.GetInvoice(s.ctx, inv.ID)
	s.Require().NoError(err)
	s.Len(got.Items, 2)
	s.True(dec("7.35").Equal(got.TaxTotal))
	s.Equal(inv.Number, got.Number)

	a := s.product("A", 5)
	linked := []rules.Line{stockLine(a, 1)}
	_, err = s.guard.UpdateInvoice(s.ctx, inv.ID, billing.Patch{Items: &linked})
	s.ErrorIs(err, domain.ErrInvalidInput)
	s.Equal(int64(5), s.stock(a))
}

func (s *LedgerSuite) TestSetPaid() {
	inv, err := s.create.Create(s.ctx, s.draft(entity.DocKindInvoice, freeLine(1, "1", "21")))
	s.Require().NoError(err)
	pro, err := s.create.Create(s.ctx, s.draft(entity.DocKindProforma, freeLine(1, "1", "21")))
	s.Require().NoError(err)

	out, err := s.guard.SetPaidFromRequest(s.ctx, inv.ID, dto.SetPaidRequest{Paid: ptr(true)})
	s.Require().NoError(err)
	s.True(out.Paid)

	_, err = s.guard.SetPaid(s.ctx, pro.ID, true)
	s.ErrorIs(err, domain.ErrInvalidInput)
	_, err = s.guard.SetPaid(s.ctx, 999, true)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *LedgerSuite) TestDelete() {
	a := s.product("A", 5)
	linked, err := s.create.Create(s.ctx, s.draft(entity.DocKindInvoice, stockLine(a, 1)))
	s.Require().NoError(err)
	free, err := s.create.Create(s.ctx, s.draft(entity.DocKindInvoice, freeLine(1, "1", "21")))
	s.Require().NoError(err)

	err = s.guard.DeleteInvoice(s.ctx, linked.ID)
	s.ErrorIs(err, domain.ErrEditForbidden)
	s.Len(s.movements(a), 1)

	s.Require().NoError(s.guard.DeleteInvoice(s.ctx, free.ID))
	_, err = s.queries.GetInvoice(s.ctx, free.ID)
	s.ErrorIs(err, domain.ErrNotFound)
	s.ErrorIs(s.guard.DeleteInvoice(s.ctx, free.ID), domain.ErrNotFound)
}

// ── consultas ────────────────────────────────────────────────────────────────

func (s *LedgerSuite) TestListInvoices_FiltersAndOrder() {
	for _, d := range []time.Time{jan2025, jan2025, time.Date(2025, time.February, 2, 0, 0, 0, 0, time.UTC)} {
		dr := s.draft(entity.DocKindInvoice, freeLine(1, "1", "21"))
		dr.Date = d
		_, err := s.create.Create(s.ctx, dr)
		s.Require().NoError(err)
	}

	all, err := s.queries.ListInvoices(s.ctx, dto.ListInvoicesRequest{})
	s.Require().NoError(err)
	s.Equal(3, all.Page.Total)
	s.Require().Len(all.Invoices, 3)
	s.Greater(all.Invoices[0].ID, all.Invoices[1].ID)

	jan, err := s.queries.ListInvoices(s.ctx, dto.ListInvoicesRequest{Year: 2025, Month: 1, PageRequest: dto.PageRequest{Limit: 1}})
	s.Require().NoError(err)
	s.Equal(2, jan.Page.Total)
	s.Len(jan.Invoices, 1)
	s.Equal("F2501002", jan.Invoices[0].Number)
}
