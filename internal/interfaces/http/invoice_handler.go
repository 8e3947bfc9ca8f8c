package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturas-ledger/internal/application/billing"
	"github.com/jhoicas/facturas-ledger/internal/application/dto"
)

// InvoiceHandler maneja las peticiones HTTP de facturas y proformas.
type InvoiceHandler struct {
	create  *billing.CreateInvoiceUseCase
	convert *billing.ConvertProformaUseCase
	guard   *billing.EditGuard
	queries *billing.InvoiceQueryUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(
	create *billing.CreateInvoiceUseCase,
	convert *billing.ConvertProformaUseCase,
	guard *billing.EditGuard,
	queries *billing.InvoiceQueryUseCase,
) *InvoiceHandler {
	return &InvoiceHandler{create: create, convert: convert, guard: guard, queries: queries}
}

// Create emite una factura o proforma y descuenta inventario si corresponde.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateBody(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.create.CreateInvoice(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista documentos filtrando por año y mes.
// GET /api/invoices?year=&month=&limit=&offset=
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var in dto.ListInvoicesRequest
	if err := c.QueryParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateBody(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.queries.ListInvoices(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// NextNumber vista previa del próximo número; no lo consume.
// GET /api/invoices/next_number?kind=&date=
func (h *InvoiceHandler) NextNumber(c *fiber.Ctx) error {
	out, err := h.queries.NextNumber(c.UserContext(), c.Query("kind"), c.Query("date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID obtiene el documento con sus líneas.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.queries.GetInvoice(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update modifica la cabecera y, si el documento lo permite, reemplaza las líneas.
// PUT /api/invoices/:id
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateBody(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.guard.UpdateFromRequest(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetPaid marca o desmarca una factura como pagada.
// PATCH /api/invoices/:id/paid
func (h *InvoiceHandler) SetPaid(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.SetPaidRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateBody(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.guard.SetPaidFromRequest(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Convert emite una factura a partir de una proforma. El cuerpo es opcional.
// PATCH /api/invoices/:id/convert
func (h *InvoiceHandler) Convert(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.ConvertProformaRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.convert.ConvertFromRequest(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete elimina un documento sin efectos de inventario.
// DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.guard.DeleteInvoice(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
