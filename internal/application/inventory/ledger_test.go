package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/facturas-ledger/internal/application/dto"
	"github.com/jhoicas/facturas-ledger/internal/application/inventory"
	"github.com/jhoicas/facturas-ledger/internal/domain"
	"github.com/jhoicas/facturas-ledger/internal/domain/entity"
	"github.com/jhoicas/facturas-ledger/internal/domain/repository"
	"github.com/jhoicas/facturas-ledger/internal/testing/memstore"
	"github.com/jhoicas/facturas-ledger/pkg/logger"
)

func newLedger(t *testing.T) (*inventory.StockLedger, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	return inventory.NewStockLedger(store, store.Repos(), logger.Nop(), 5*time.Second), store
}

func createProduct(t *testing.T, l *inventory.StockLedger, sku string, stock int64) int64 {
	t.Helper()
	p, err := l.CreateProduct(context.Background(), dto.CreateProductRequest{
		SKU:          sku,
		Name:         "Producto " + sku,
		PriceNet:     decimal.NewFromInt(10),
		TaxRate:      decimal.NewFromInt(21),
		InitialStock: stock,
	})
	require.NoError(t, err)
	require.True(t, p.IsActive)
	return p.ID
}

func stockOf(t *testing.T, store *memstore.Store, id int64) int64 {
	t.Helper()
	p, err := store.Repos().Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.StockQty
}

func movementsOf(t *testing.T, store *memstore.Store, id int64) []*entity.StockMovement {
	t.Helper()
	list, err := store.Repos().Movements.ListByProduct(context.Background(), id)
	require.NoError(t, err)
	return list
}

func lineFor(productID, units int64) entity.InvoiceItem {
	id := productID
	return entity.InvoiceItem{ProductID: &id, Units: units}
}

func TestCreateProduct_Validation(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	cases := map[string]dto.CreateProductRequest{
		"sin sku":         {Name: "x", InitialStock: 1},
		"sin nombre":      {SKU: "A", InitialStock: 1},
		"precio negativo": {SKU: "A", Name: "x", PriceNet: decimal.NewFromInt(-1)},
		"iva fuera":       {SKU: "A", Name: "x", TaxRate: decimal.NewFromInt(101)},
		"stock negativo":  {SKU: "A", Name: "x", InitialStock: -1},
	}
	for name, in := range cases {
		_, err := l.CreateProduct(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}

	createProduct(t, l, "A", 1)
	_, err := l.CreateProduct(ctx, dto.CreateProductRequest{SKU: "A", Name: "otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestAdjust(t *testing.T) {
	l, store := newLedger(t)
	ctx := context.Background()
	id := createProduct(t, l, "A", 5)

	mov, err := l.Adjust(ctx, id, 3, entity.MovementKindManual)
	require.NoError(t, err)
	assert.Equal(t, int64(3), mov.Qty)
	assert.Nil(t, mov.InvoiceID)
	assert.Equal(t, int64(8), stockOf(t, store, id))

	_, err = l.Adjust(ctx, id, -8, entity.MovementKindAdjust)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stockOf(t, store, id))

	t.Run("no deja stock negativo", func(t *testing.T) {
		_, err := l.Adjust(ctx, id, -1, entity.MovementKindManual)
		var se *domain.StockInsufficientError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, id, se.ProductID)
		assert.Equal(t, int64(0), se.Available)
		assert.Equal(t, int64(0), stockOf(t, store, id))
		assert.Len(t, movementsOf(t, store, id), 2)
	})

	t.Run("entrada inválida", func(t *testing.T) {
		_, err := l.Adjust(ctx, id, 0, entity.MovementKindManual)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = l.Adjust(ctx, id, 1, entity.MovementKindSale)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = l.Adjust(ctx, 999, 1, entity.MovementKindManual)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("producto archivado", func(t *testing.T) {
		_, err := l.ArchiveProduct(ctx, id)
		require.NoError(t, err)
		_, err = l.Adjust(ctx, id, 1, entity.MovementKindManual)
		assert.ErrorIs(t, err, domain.ErrProductArchived)
		assert.Equal(t, int64(0), stockOf(t, store, id))
	})
}

func TestReserveAndDecrement_AllOrNothing(t *testing.T) {
	l, store := newLedger(t)
	ctx := context.Background()
	a := createProduct(t, l, "A", 5)
	b := createProduct(t, l, "B", 1)

	items := []entity.InvoiceItem{lineFor(a, 2), {Description: "línea libre", Units: 4}, lineFor(b, 2)}
	err := store.RunLedger(ctx, func(repos repository.LedgerRepos) error {
		return l.ReserveAndDecrement(ctx, repos, items)
	})
	var se *domain.StockInsufficientError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, b, se.ProductID)
	assert.Equal(t, int64(2), se.Requested)
	assert.Equal(t, int64(1), se.Available)

	assert.Equal(t, int64(5), stockOf(t, store, a))
	assert.Equal(t, int64(1), stockOf(t, store, b))
	assert.Empty(t, movementsOf(t, store, a))
	assert.Empty(t, movementsOf(t, store, b))
}

func TestReserveAndDecrement_SumsUnitsPerProduct(t *testing.T) {
	l, store := newLedger(t)
	ctx := context.Background()
	a := createProduct(t, l, "A", 5)

	// 3 + 3 > 5 aunque cada línea por separado cabría
	err := store.RunLedger(ctx, func(repos repository.LedgerRepos) error {
		return l.ReserveAndDecrement(ctx, repos, []entity.InvoiceItem{lineFor(a, 3), lineFor(a, 3)})
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	err = store.RunLedger(ctx, func(repos repository.LedgerRepos) error {
		lines := []entity.InvoiceItem{lineFor(a, 3), lineFor(a, 2)}
		if err := l.ReserveAndDecrement(ctx, repos, lines); err != nil {
			return err
		}
		return l.RecordSales(ctx, repos, 1, lines)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), stockOf(t, store, a))

	movs := movementsOf(t, store, a)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.MovementKindSale, m.Kind)
		require.NotNil(t, m.InvoiceID)
		assert.Equal(t, int64(1), *m.InvoiceID)
	}
	assert.Equal(t, int64(-3), movs[0].Qty)
	assert.Equal(t, int64(-2), movs[1].Qty)
}

func TestReserveAndDecrement_RejectsArchivedAndMissing(t *testing.T) {
	l, store := newLedger(t)
	ctx := context.Background()
	a := createProduct(t, l, "A", 5)
	_, err := l.ArchiveProduct(ctx, a)
	require.NoError(t, err)

	err = store.RunLedger(ctx, func(repos repository.LedgerRepos) error {
		return l.ReserveAndDecrement(ctx, repos, []entity.InvoiceItem{lineFor(a, 1)})
	})
	assert.ErrorIs(t, err, domain.ErrProductArchived)

	err = store.RunLedger(ctx, func(repos repository.LedgerRepos) error {
		return l.ReserveAndDecrement(ctx, repos, []entity.InvoiceItem{lineFor(404, 1)})
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReserveAndDecrement_RolledBackWithCallerTx(t *testing.T) {
	l, store := newLedger(t)
	ctx := context.Background()
	a := createProduct(t, l, "A", 5)
	boom := errors.New("fallo al insertar la factura")

	err := store.RunLedger(ctx, func(repos repository.LedgerRepos) error {
		if err := l.ReserveAndDecrement(ctx, repos, []entity.InvoiceItem{lineFor(a, 5)}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int64(5), stockOf(t, store, a))
	assert.Empty(t, movementsOf(t, store, a))
}

func TestLedgerBalance_ConsistentUnderConcurrentAdjustments(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()
	a := createProduct(t, l, "A", 10)

	var g errgroup.Group
	for i := 0; i < 20; i++ {
		delta := int64(1)
		if i%2 == 0 {
			delta = -2
		}
		g.Go(func() error {
			_, err := l.Adjust(ctx, a, delta, entity.MovementKindManual)
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	bal, err := l.LedgerBalance(ctx, a)
	require.NoError(t, err)
	assert.True(t, bal.Consistent)
	assert.GreaterOrEqual(t, bal.StockQty, int64(0))
	assert.Equal(t, int64(10), bal.InitialStockQty)
	assert.Equal(t, bal.StockQty, bal.InitialStockQty+bal.MovementSum)

	movs, err := l.ListMovements(ctx, a)
	require.NoError(t, err)
	var sum int64
	for _, m := range movs {
		sum += m.Qty
	}
	assert.Equal(t, bal.MovementSum, sum)

	_, err = l.ListMovements(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjust_CanceledContextRollsBack(t *testing.T) {
	l, store := newLedger(t)
	a := createProduct(t, l, "A", 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.Adjust(ctx, a, 1, entity.MovementKindManual)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(5), stockOf(t, store, a))
}

func TestArchiveProduct(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()
	a := createProduct(t, l, "A", 1)

	p, err := l.ArchiveProduct(ctx, a)
	require.NoError(t, err)
	assert.False(t, p.IsActive)

	p, err = l.ArchiveProduct(ctx, a)
	require.NoError(t, err)
	assert.False(t, p.IsActive)

	_, err = l.ArchiveProduct(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := l.GetProduct(ctx, a)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}
