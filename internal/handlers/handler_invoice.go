package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/openbooks/ledger_engine/internal/core/ports/services"
	"github.com/openbooks/ledger_engine/internal/dto"
)

// invoiceHandler handles HTTP requests for accounts-receivable invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

func registerInvoiceRoutes(rg *gin.RouterGroup, svc portssvc.InvoiceSvcFacade) {
	h := &invoiceHandler{invoiceService: svc}
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:invoiceID", h.getInvoice)
		invoices.POST("/:invoiceID/send", h.sendInvoice)
		invoices.POST("/:invoiceID/void", h.voidInvoice)
	}
}

func (h *invoiceHandler) createInvoice(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), c.Param("ledgerID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create invoice")
		return
	}
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

func (h *invoiceHandler) getInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), c.Param("ledgerID"), c.Param("invoiceID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

func (h *invoiceHandler) listInvoices(c *gin.Context) {
	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), c.Param("ledgerID"))
	if err != nil {
		respondError(c, err, "Failed to list invoices")
		return
	}
	responses := make([]dto.InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = dto.ToInvoiceResponse(&invoices[i])
	}
	c.JSON(http.StatusOK, responses)
}

// sendInvoice posts the invoice to the ledger and flips it to SENT.
func (h *invoiceHandler) sendInvoice(c *gin.Context) {
	var req dto.SendInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	idempotencyKey := c.GetHeader(idempotencyKeyHeader)
	invoice, err := h.invoiceService.SendInvoice(c.Request.Context(), c.Param("ledgerID"), c.Param("invoiceID"), idempotencyKey, req, userID)
	if err != nil {
		respondError(c, err, "Failed to send invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// voidInvoice reverses the posting and marks the invoice VOIDED.
func (h *invoiceHandler) voidInvoice(c *gin.Context) {
	var req dto.VoidInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.VoidInvoice(c.Request.Context(), c.Param("ledgerID"), c.Param("invoiceID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to void invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}
