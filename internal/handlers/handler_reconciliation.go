package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	portssvc "github.com/openbooks/ledger_engine/internal/core/ports/services"
	"github.com/openbooks/ledger_engine/internal/dto"
	"github.com/openbooks/ledger_engine/internal/middleware"
)

// reconciliationHandler handles HTTP requests for reconciliation runs.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

func registerReconciliationRoutes(rg *gin.RouterGroup, svc portssvc.ReconciliationSvcFacade) {
	h := &reconciliationHandler{reconciliationService: svc}
	recon := rg.Group("/reconciliation")
	{
		recon.POST("/run", h.runReconciliation)
		recon.GET("/runs", h.listRuns)
		recon.GET("/runs/:runID", h.getRun)
	}
}

// runReconciliation triggers a subledger-vs-ledger comparison and returns
// the persisted run record.
func (h *reconciliationHandler) runReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RunReconciliationRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	run, err := h.reconciliationService.Reconcile(c.Request.Context(), c.Param("ledgerID"), req.Scope, userID)
	if err != nil {
		respondError(c, err, "Failed to run reconciliation")
		return
	}

	logger.Info("Reconciliation run via API", slog.String("run_id", run.RunID), slog.String("status", string(run.Status)))
	c.JSON(http.StatusCreated, dto.ToReconciliationRunResponse(run))
}

func (h *reconciliationHandler) getRun(c *gin.Context) {
	run, err := h.reconciliationService.GetRunByID(c.Request.Context(), c.Param("ledgerID"), c.Param("runID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve reconciliation run")
		return
	}
	c.JSON(http.StatusOK, dto.ToReconciliationRunResponse(run))
}

func (h *reconciliationHandler) listRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	runs, err := h.reconciliationService.ListRuns(c.Request.Context(), c.Param("ledgerID"), limit)
	if err != nil {
		respondError(c, err, "Failed to list reconciliation runs")
		return
	}
	responses := make([]dto.ReconciliationRunResponse, len(runs))
	for i := range runs {
		responses[i] = dto.ToReconciliationRunResponse(&runs[i])
	}
	c.JSON(http.StatusOK, responses)
}
