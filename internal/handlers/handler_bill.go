package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/openbooks/ledger_engine/internal/core/ports/services"
	"github.com/openbooks/ledger_engine/internal/dto"
)

// billHandler handles HTTP requests for accounts-payable bills.
type billHandler struct {
	billService portssvc.BillSvcFacade
}

func registerBillRoutes(rg *gin.RouterGroup, svc portssvc.BillSvcFacade) {
	h := &billHandler{billService: svc}
	bills := rg.Group("/bills")
	{
		bills.POST("", h.createBill)
		bills.GET("", h.listBills)
		bills.GET("/:billID", h.getBill)
		bills.POST("/:billID/approve", h.approveBill)
		bills.POST("/:billID/void", h.voidBill)
	}
}

func (h *billHandler) createBill(c *gin.Context) {
	var req dto.CreateBillRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	bill, err := h.billService.CreateBill(c.Request.Context(), c.Param("ledgerID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create bill")
		return
	}
	c.JSON(http.StatusCreated, dto.ToBillResponse(bill))
}

func (h *billHandler) getBill(c *gin.Context) {
	bill, err := h.billService.GetBillByID(c.Request.Context(), c.Param("ledgerID"), c.Param("billID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve bill")
		return
	}
	c.JSON(http.StatusOK, dto.ToBillResponse(bill))
}

func (h *billHandler) listBills(c *gin.Context) {
	bills, err := h.billService.ListBills(c.Request.Context(), c.Param("ledgerID"))
	if err != nil {
		respondError(c, err, "Failed to list bills")
		return
	}
	responses := make([]dto.BillResponse, len(bills))
	for i := range bills {
		responses[i] = dto.ToBillResponse(&bills[i])
	}
	c.JSON(http.StatusOK, responses)
}

// approveBill posts the bill to the ledger and flips it to APPROVED.
func (h *billHandler) approveBill(c *gin.Context) {
	var req dto.ApproveBillRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	idempotencyKey := c.GetHeader(idempotencyKeyHeader)
	bill, err := h.billService.ApproveBill(c.Request.Context(), c.Param("ledgerID"), c.Param("billID"), idempotencyKey, req, userID)
	if err != nil {
		respondError(c, err, "Failed to approve bill")
		return
	}
	c.JSON(http.StatusOK, dto.ToBillResponse(bill))
}

// voidBill reverses the posting entry and marks the bill VOIDED.
func (h *billHandler) voidBill(c *gin.Context) {
	var req dto.VoidBillRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	bill, err := h.billService.VoidBill(c.Request.Context(), c.Param("ledgerID"), c.Param("billID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to void bill")
		return
	}
	c.JSON(http.StatusOK, dto.ToBillResponse(bill))
}
