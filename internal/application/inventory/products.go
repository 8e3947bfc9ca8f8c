package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturas-ledger/internal/application/dto"
	"github.com/jhoicas/facturas-ledger/internal/domain"
	"github.com/jhoicas/facturas-ledger/internal/domain/entity"
	"github.com/jhoicas/facturas-ledger/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// CreateProduct registra un producto activo con su stock inicial. El stock inicial no genera
// movimiento: es la base del libro.
func (l *StockLedger) CreateProduct(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.SKU == "":
		return nil, domain.Invalid("sku", "requerido")
	case in.Name == "":
		return nil, domain.Invalid("name", "requerido")
	case in.PriceNet.IsNegative():
		return nil, domain.Invalid("price_net", "no puede ser negativo")
	case in.TaxRate.IsNegative() || in.TaxRate.GreaterThan(hundred):
		return nil, domain.Invalid("tax_rate", "debe estar entre 0 y 100")
	case in.InitialStock < 0:
		return nil, domain.Invalid("initial_stock", "no puede ser negativo")
	}

	ctx, cancel := withTimeout(ctx, l.timeout)
	defer cancel()

	p := &entity.Product{
		SKU:             in.SKU,
		Name:            in.Name,
		StockQty:        in.InitialStock,
		InitialStockQty: in.InitialStock,
		PriceNet:        in.PriceNet,
		TaxRate:         in.TaxRate,
		IsActive:        true,
		CreatedAt:       time.Now().UTC(),
	}
	err := l.txRunner.RunLedger(ctx, func(repos repository.LedgerRepos) error {
		return repos.Products.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().Int64("product_id", p.ID).Str("sku", p.SKU).Int64("stock_qty", p.StockQty).Msg("producto creado")
	return toProductResponse(p), nil
}

// GetProduct devuelve el producto o domain.ErrNotFound.
func (l *StockLedger) GetProduct(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	p, err := l.reads.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(p), nil
}

// ArchiveProduct marca el producto como inactivo. Idempotente; el historial se conserva.
func (l *StockLedger) ArchiveProduct(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	ctx, cancel := withTimeout(ctx, l.timeout)
	defer cancel()

	var p *entity.Product
	err := l.txRunner.RunLedger(ctx, func(repos repository.LedgerRepos) error {
		var err error
		p, err = repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("bloquear producto %d: %w", id, err)
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if !p.IsActive {
			return nil
		}
		p.IsActive = false
		return repos.Products.SetActive(ctx, id, false)
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().Int64("product_id", id).Msg("producto archivado")
	return toProductResponse(p), nil
}

// ListMovements devuelve el historial de movimientos de un producto en orden de registro.
func (l *StockLedger) ListMovements(ctx context.Context, productID int64) ([]dto.StockMovementResponse, error) {
	p, err := l.reads.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	list, err := l.reads.Movements.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return out, nil
}

// LedgerBalance compara stock actual con inicial + Σ movimientos, leyendo ambos en la misma transacción.
func (l *StockLedger) LedgerBalance(ctx context.Context, productID int64) (*dto.LedgerBalanceResponse, error) {
	ctx, cancel := withTimeout(ctx, l.timeout)
	defer cancel()

	var out dto.LedgerBalanceResponse
	err := l.txRunner.RunLedger(ctx, func(repos repository.LedgerRepos) error {
		p, err := repos.Products.GetForUpdate(ctx, productID)
		if err != nil {
			return fmt.Errorf("bloquear producto %d: %w", productID, err)
		}
		if p == nil {
			return domain.ErrNotFound
		}
		sum, err := repos.Movements.SumByProduct(ctx, productID)
		if err != nil {
			return err
		}
		out = dto.LedgerBalanceResponse{
			ProductID:       productID,
			StockQty:        p.StockQty,
			InitialStockQty: p.InitialStockQty,
			MovementSum:     sum,
			Consistent:      p.InitialStockQty+sum == p.StockQty,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !out.Consistent {
		l.log.Error().Int64("product_id", productID).Int64("stock_qty", out.StockQty).
			Int64("expected", out.InitialStockQty+out.MovementSum).Msg("libro de inventario descuadrado")
	}
	return &out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		StockQty:        p.StockQty,
		InitialStockQty: p.InitialStockQty,
		PriceNet:        p.PriceNet,
		TaxRate:         p.TaxRate,
		IsActive:        p.IsActive,
		CreatedAt:       p.CreatedAt,
	}
}
