package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/openbooks/ledger_engine/internal/core/ports/services"
	"github.com/openbooks/ledger_engine/internal/dto"
)

// periodHandler handles HTTP requests for the fiscal period gate.
type periodHandler struct {
	periodService portssvc.FiscalPeriodSvcFacade
}

func registerPeriodRoutes(rg *gin.RouterGroup, svc portssvc.FiscalPeriodSvcFacade) {
	h := &periodHandler{periodService: svc}
	periods := rg.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/:periodID", h.getPeriod)
		periods.POST("/:periodID/close", h.closePeriod)
		periods.POST("/:periodID/lock", h.lockPeriod)
		periods.POST("/:periodID/reopen", h.reopenPeriod)
		periods.GET("/:periodID/audit", h.listAuditEvents)
	}
}

func (h *periodHandler) createPeriod(c *gin.Context) {
	var req dto.CreatePeriodRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), c.Param("ledgerID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create fiscal period")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

func (h *periodHandler) getPeriod(c *gin.Context) {
	period, err := h.periodService.GetPeriodByID(c.Request.Context(), c.Param("ledgerID"), c.Param("periodID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve fiscal period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

func (h *periodHandler) listPeriods(c *gin.Context) {
	periods, err := h.periodService.ListPeriods(c.Request.Context(), c.Param("ledgerID"))
	if err != nil {
		respondError(c, err, "Failed to list fiscal periods")
		return
	}
	responses := make([]dto.PeriodResponse, len(periods))
	for i := range periods {
		responses[i] = dto.ToPeriodResponse(&periods[i])
	}
	c.JSON(http.StatusOK, responses)
}

func (h *periodHandler) closePeriod(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	period, err := h.periodService.ClosePeriod(c.Request.Context(), c.Param("ledgerID"), c.Param("periodID"), userID)
	if err != nil {
		respondError(c, err, "Failed to close fiscal period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

func (h *periodHandler) lockPeriod(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	period, err := h.periodService.LockPeriod(c.Request.Context(), c.Param("ledgerID"), c.Param("periodID"), userID)
	if err != nil {
		respondError(c, err, "Failed to lock fiscal period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

func (h *periodHandler) reopenPeriod(c *gin.Context) {
	var req dto.ReopenPeriodRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	period, err := h.periodService.ReopenPeriod(c.Request.Context(), c.Param("ledgerID"), c.Param("periodID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to reopen fiscal period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

func (h *periodHandler) listAuditEvents(c *gin.Context) {
	events, err := h.periodService.ListAuditEvents(c.Request.Context(), c.Param("ledgerID"), c.Param("periodID"))
	if err != nil {
		respondError(c, err, "Failed to list period audit events")
		return
	}
	c.JSON(http.StatusOK, events)
}
