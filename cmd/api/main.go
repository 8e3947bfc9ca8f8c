package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/facturas-ledger/internal/application/billing"
	"github.com/jhoicas/facturas-ledger/internal/application/inventory"
	"github.com/jhoicas/facturas-ledger/internal/application/numbering"
	"github.com/jhoicas/facturas-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/facturas-ledger/internal/interfaces/http"
	"github.com/jhoicas/facturas-ledger/pkg/config"
	"github.com/jhoicas/facturas-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("applied", applied).Msg("esquema actualizado")
	}

	txRunner := postgres.NewTxRunner(pool)
	reads := postgres.NewLedgerRepos(pool)
	opts := billing.Options{
		TxTimeout:        cfg.Ledger.TxTimeout,
		DuplicateRetries: cfg.Ledger.DuplicateRetries,
	}

	stockLedger := inventory.NewStockLedger(txRunner, reads, log, opts.TxTimeout)
	allocator := numbering.NewSequenceAllocator(reads.Sequences)
	createInvoiceUC := billing.NewCreateInvoiceUseCase(txRunner, allocator, stockLedger, log, opts)
	convertUC := billing.NewConvertProformaUseCase(txRunner, allocator, stockLedger, log, opts)
	editGuard := billing.NewEditGuard(txRunner, log, opts.TxTimeout)
	invoiceQueries := billing.NewInvoiceQueryUseCase(reads.Invoices, allocator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		CreateInvoice:   createInvoiceUC,
		ConvertProforma: convertUC,
		EditGuard:       editGuard,
		InvoiceQueries:  invoiceQueries,
		StockLedger:     stockLedger,
		ServiceName:     cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
