package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturas-ledger/internal/application/billing"
	"github.com/jhoicas/facturas-ledger/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CreateInvoice   *billing.CreateInvoiceUseCase
	ConvertProforma *billing.ConvertProformaUseCase
	EditGuard       *billing.EditGuard
	InvoiceQueries  *billing.InvoiceQueryUseCase
	StockLedger     *inventory.StockLedger
	ServiceName     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api")

	// Invoices y proformas
	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.CreateInvoice, deps.ConvertProforma, deps.EditGuard, deps.InvoiceQueries)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/next_number", invoiceHandler.NextNumber)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Patch("/:id/paid", invoiceHandler.SetPaid)
	invoices.Patch("/:id/convert", invoiceHandler.Convert)
	invoices.Delete("/:id", invoiceHandler.Delete)

	// Products y libro de stock
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.StockLedger)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/:id/adjust", productHandler.Adjust)
	products.Post("/:id/archive", productHandler.Archive)
	products.Get("/:id/movements", productHandler.Movements)
	products.Get("/:id/balance", productHandler.Balance)
}
