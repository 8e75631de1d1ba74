package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wavenet-solutions/invoice-api/internal/api/metrics"
	"github.com/wavenet-solutions/invoice-api/internal/core/ports"
)

// InvoiceHandler serves the creator-owned invoice CRUD.
type InvoiceHandler struct {
	invoices ports.InvoiceService
}

func NewInvoiceHandler(invoices ports.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// Create handles POST /invoices.
//
// @Summary      Create an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createInvoiceRequest  true  "Invoice details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      409   {object}  envelope
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c echo.Context) error {
	var req createInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	invoice, err := h.invoices.Create(c.Request().Context(), actor.AccountID, ports.CreateInvoiceInput{
		InvoiceNumber: req.InvoiceNumber,
		InvoiceDate:   req.InvoiceDate,
		Amount:        req.Amount,
	})
	if err != nil {
		return err
	}

	metrics.InvoicesCreatedTotal.WithLabelValues(invoice.FinancialYear).Inc()
	return respond(c, http.StatusCreated, "Invoice created successfully", invoice)
}

// ListOwn handles GET /invoices — the caller's invoices, newest first.
//
// @Summary      List the caller's invoices
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /invoices [get]
func (h *InvoiceHandler) ListOwn(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	invoices, err := h.invoices.ListOwn(c.Request().Context(), actor.AccountID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", invoices)
}

// ListAll handles GET /invoices/all — any authenticated account may list
// every invoice.
//
// @Summary      List all invoices
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /invoices/all [get]
func (h *InvoiceHandler) ListAll(c echo.Context) error {
	invoices, err := h.invoices.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", invoices)
}

// NextNumber handles GET /invoices/next-number?year=YYYY — allocates the
// next free number for a financial year.
//
// @Summary      Allocate the next invoice number for a year
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        year  query     string  true  "Financial year (YYYY)"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Router       /invoices/next-number [get]
func (h *InvoiceHandler) NextNumber(c echo.Context) error {
	number, err := h.invoices.NextNumber(c.Request().Context(), c.QueryParam("year"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", nextNumberData{InvoiceNumber: number})
}

// Update handles PATCH /invoices/:id — creator-only partial update.
//
// @Summary      Update an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Invoice id"
// @Param        body  body      updateInvoiceRequest  true  "Fields to update"
// @Success      200   {object}  envelope
// @Failure      403   {object}  envelope
// @Failure      404   {object}  envelope
// @Router       /invoices/{id} [patch]
func (h *InvoiceHandler) Update(c echo.Context) error {
	var req updateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	invoice, err := h.invoices.Update(c.Request().Context(), actor.AccountID, c.Param("id"), ports.UpdateInvoiceInput{
		InvoiceNumber: req.InvoiceNumber,
		InvoiceDate:   req.InvoiceDate,
		Amount:        req.Amount,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Invoice updated successfully", invoice)
}

// Delete handles DELETE /invoices/:id — creator-only.
//
// @Summary      Delete an invoice
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice id"
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.invoices.Delete(c.Request().Context(), actor.AccountID, c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Invoice deleted successfully", nil)
}
