package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/facturas-ledger/internal/domain"
	"github.com/jhoicas/facturas-ledger/internal/domain/entity"
	"github.com/jhoicas/facturas-ledger/internal/domain/repository"
	"github.com/jhoicas/facturas-ledger/pkg/logger"
)

// StockLedger es el único escritor de Product.StockQty y del registro de movimientos.
// Las salidas por venta corren en la transacción del llamador; los ajustes manuales, en la suya.
type StockLedger struct {
	txRunner TxRunner
	reads    repository.LedgerRepos
	log      *logger.Logger
	timeout  time.Duration
}

// NewStockLedger construye el libro. reads son repos fuera de transacción para consultas.
func NewStockLedger(txRunner TxRunner, reads repository.LedgerRepos, log *logger.Logger, timeout time.Duration) *StockLedger {
	if log == nil {
		log = logger.Nop()
	}
	return &StockLedger{txRunner: txRunner, reads: reads, log: log.Named("stock_ledger"), timeout: timeout}
}

// ReserveAndDecrement bloquea los productos de las líneas en orden ascendente de id, comprueba
// todas antes de tocar nada y, si alcanza, descuenta el stock. Las líneas sin ProductID se ignoran.
// Debe llamarse con repos de la transacción de la factura, después de bloquear el contador y antes
// de insertar las líneas: la FK de invoice_items toma KEY SHARE sobre el producto y no debe
// preceder al FOR UPDATE.
func (l *StockLedger) ReserveAndDecrement(ctx context.Context, repos repository.LedgerRepos, items []entity.InvoiceItem) error {
	demand := make(map[int64]int64)
	for _, it := range items {
		if it.ProductID == nil {
			continue
		}
		if it.Units <= 0 {
			return domain.Invalid("units", "debe ser mayor que cero")
		}
		demand[*it.ProductID] += it.Units
	}
	if len(demand) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(demand))
	for id := range demand {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	// Fase 1: bloquear y verificar todas las líneas
	locked := make(map[int64]*entity.Product, len(ids))
	for _, id := range ids {
		p, err := lockActive(ctx, repos.Products, id)
		if err != nil {
			return err
		}
		if p.StockQty < demand[id] {
			return &domain.StockInsufficientError{ProductID: id, Requested: demand[id], Available: p.StockQty}
		}
		locked[id] = p
	}

	// Fase 2: aplicar
	for _, id := range ids {
		newQty := locked[id].StockQty - demand[id]
		if err := repos.Products.UpdateStock(ctx, id, newQty); err != nil {
			return fmt.Errorf("descontar stock producto %d: %w", id, err)
		}
	}
	return nil
}

// RecordSales anota un movimiento "sale" por línea con producto, referenciando invoiceID.
// Completa ReserveAndDecrement en la misma transacción, una vez insertada la factura.
func (l *StockLedger) RecordSales(ctx context.Context, repos repository.LedgerRepos, invoiceID int64, items []entity.InvoiceItem) error {
	ref := invoiceID
	for _, it := range items {
		if it.ProductID == nil {
			continue
		}
		mov := &entity.StockMovement{
			ProductID: *it.ProductID,
			Qty:       -it.Units,
			Kind:      entity.MovementKindSale,
			InvoiceID: &ref,
			CreatedAt: time.Now().UTC(),
		}
		if err := repos.Movements.Create(ctx, mov); err != nil {
			return fmt.Errorf("registrar movimiento de venta: %w", err)
		}
	}
	return nil
}

// Adjust aplica un ajuste manual con signo en su propia transacción. Rechaza productos archivados
// y cualquier ajuste que deje el stock en negativo. Se serializa con las ventas por el mismo bloqueo de fila.
func (l *StockLedger) Adjust(ctx context.Context, productID, delta int64, kind string) (*entity.StockMovement, error) {
	if productID <= 0 {
		return nil, domain.Invalid("product_id", "identificador inválido")
	}
	if delta == 0 {
		return nil, domain.Invalid("delta", "no puede ser cero")
	}
	if kind != entity.MovementKindManual && kind != entity.MovementKindAdjust {
		return nil, domain.Invalid("kind", "debe ser manual o adjust")
	}

	opID := uuid.NewString()
	ctx, cancel := withTimeout(ctx, l.timeout)
	defer cancel()

	var mov *entity.StockMovement
	var stockAfter int64
	err := l.txRunner.RunLedger(ctx, func(repos repository.LedgerRepos) error {
		p, err := lockActive(ctx, repos.Products, productID)
		if err != nil {
			return err
		}
		stockAfter = p.StockQty + delta
		if stockAfter < 0 {
			return &domain.StockInsufficientError{ProductID: productID, Requested: -delta, Available: p.StockQty}
		}
		if err := repos.Products.UpdateStock(ctx, productID, stockAfter); err != nil {
			return fmt.Errorf("actualizar stock producto %d: %w", productID, err)
		}
		mov = &entity.StockMovement{ProductID: productID, Qty: delta, Kind: kind, CreatedAt: time.Now().UTC()}
		if err := repos.Movements.Create(ctx, mov); err != nil {
			return fmt.Errorf("registrar movimiento: %w", err)
		}
		return nil
	})
	if err != nil {
		l.log.Warn().Err(err).Str("op_id", opID).Int64("product_id", productID).Int64("delta", delta).Msg("ajuste de stock rechazado")
		return nil, err
	}
	l.log.Info().Str("op_id", opID).Int64("product_id", productID).Int64("delta", delta).
		Int64("stock_qty", stockAfter).Str("kind", kind).Msg("ajuste de stock registrado")
	return mov, nil
}

func lockActive(ctx context.Context, products repository.ProductRepository, id int64) (*entity.Product, error) {
	p, err := products.GetForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("bloquear producto %d: %w", id, err)
	}
	if p == nil {
		return nil, fmt.Errorf("producto %d: %w", id, domain.ErrNotFound)
	}
	if !p.IsActive {
		return nil, fmt.Errorf("producto %d: %w", id, domain.ErrProductArchived)
	}
	return p, nil
}

// withTimeout aplica el plazo por operación; d <= 0 deja el contexto intacto.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
