package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/openbooks/ledger_engine/internal/core/ports/services"
	"github.com/openbooks/ledger_engine/internal/dto"
	"github.com/openbooks/ledger_engine/internal/middleware"
)

// ledgerHandler handles HTTP requests for top-level ledgers.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func registerLedgerRoutes(rg *gin.RouterGroup, svc portssvc.LedgerSvcFacade) {
	h := &ledgerHandler{ledgerService: svc}
	ledgers := rg.Group("/ledgers")
	{
		ledgers.POST("", h.createLedger)
		ledgers.GET("", h.listLedgers)
		ledgers.GET("/:ledgerID", h.getLedger)
	}
}

func (h *ledgerHandler) createLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateLedgerRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	ledger, err := h.ledgerService.CreateLedger(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create ledger")
		return
	}

	logger.Info("Ledger created via API", slog.String("ledger_id", ledger.LedgerID))
	c.JSON(http.StatusCreated, dto.ToLedgerResponse(ledger))
}

func (h *ledgerHandler) getLedger(c *gin.Context) {
	ledger, err := h.ledgerService.GetLedgerByID(c.Request.Context(), c.Param("ledgerID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerResponse(ledger))
}

func (h *ledgerHandler) listLedgers(c *gin.Context) {
	ledgers, err := h.ledgerService.ListLedgers(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list ledgers")
		return
	}
	responses := make([]dto.LedgerResponse, len(ledgers))
	for i := range ledgers {
		responses[i] = dto.ToLedgerResponse(&ledgers[i])
	}
	c.JSON(http.StatusOK, responses)
}
