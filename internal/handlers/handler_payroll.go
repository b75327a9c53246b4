package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/openbooks/ledger_engine/internal/core/ports/services"
	"github.com/openbooks/ledger_engine/internal/dto"
)

// payrollHandler handles HTTP requests for payroll runs.
type payrollHandler struct {
	payrollService portssvc.PayrollSvcFacade
}

func registerPayrollRoutes(rg *gin.RouterGroup, svc portssvc.PayrollSvcFacade) {
	h := &payrollHandler{payrollService: svc}
	payroll := rg.Group("/payroll-runs")
	{
		payroll.POST("", h.createRun)
		payroll.GET("", h.listRuns)
		payroll.GET("/:runID", h.getRun)
		payroll.POST("/:runID/disburse", h.disburseRun)
	}
}

func (h *payrollHandler) createRun(c *gin.Context) {
	var req dto.CreatePayrollRunRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	run, err := h.payrollService.CreatePayrollRun(c.Request.Context(), c.Param("ledgerID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create payroll run")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPayrollRunResponse(run))
}

func (h *payrollHandler) getRun(c *gin.Context) {
	run, err := h.payrollService.GetPayrollRunByID(c.Request.Context(), c.Param("ledgerID"), c.Param("runID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve payroll run")
		return
	}
	c.JSON(http.StatusOK, dto.ToPayrollRunResponse(run))
}

func (h *payrollHandler) listRuns(c *gin.Context) {
	runs, err := h.payrollService.ListPayrollRuns(c.Request.Context(), c.Param("ledgerID"))
	if err != nil {
		respondError(c, err, "Failed to list payroll runs")
		return
	}
	responses := make([]dto.PayrollRunResponse, len(runs))
	for i := range runs {
		responses[i] = dto.ToPayrollRunResponse(&runs[i])
	}
	c.JSON(http.StatusOK, responses)
}

// disburseRun posts the payroll run and flips it to DISBURSED.
func (h *payrollHandler) disburseRun(c *gin.Context) {
	var req dto.DisbursePayrollRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	idempotencyKey := c.GetHeader(idempotencyKeyHeader)
	run, err := h.payrollService.DisbursePayroll(c.Request.Context(), c.Param("ledgerID"), c.Param("runID"), idempotencyKey, req, userID)
	if err != nil {
		respondError(c, err, "Failed to disburse payroll run")
		return
	}
	c.JSON(http.StatusOK, dto.ToPayrollRunResponse(run))
}
