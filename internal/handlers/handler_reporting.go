package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/openbooks/ledger_engine/internal/core/domain"
	portssvc "github.com/openbooks/ledger_engine/internal/core/ports/services"
)

// reportingHandler handles HTTP requests for the canonical views.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func registerReportingRoutes(rg *gin.RouterGroup, svc portssvc.ReportingSvcFacade) {
	h := &reportingHandler{reportingService: svc}
	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/pnl", h.profitAndLoss)
		reports.GET("/cash", h.cashPosition)
		reports.GET("/aging", h.aging)
	}
}

// parseDateQuery parses a YYYY-MM-DD query parameter, defaulting to now.
func parseDateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Now(), true
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return t, true
}

func (h *reportingHandler) trialBalance(c *gin.Context) {
	asOf, ok := parseDateQuery(c, "asOf")
	if !ok {
		return
	}
	var accountIDs []string
	if raw := c.Query("accountIDs"); raw != "" {
		accountIDs = strings.Split(raw, ",")
	}

	rows, err := h.reportingService.TrialBalance(c.Request.Context(), c.Param("ledgerID"), asOf, accountIDs)
	if err != nil {
		respondError(c, err, "Failed to compute trial balance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"asOf": asOf, "rows": rows})
}

func (h *reportingHandler) profitAndLoss(c *gin.Context) {
	from, ok := parseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to")
	if !ok {
		return
	}

	stmt, err := h.reportingService.ProfitAndLoss(c.Request.Context(), c.Param("ledgerID"), from, to)
	if err != nil {
		respondError(c, err, "Failed to compute profit and loss")
		return
	}
	c.JSON(http.StatusOK, stmt)
}

func (h *reportingHandler) cashPosition(c *gin.Context) {
	asOf, ok := parseDateQuery(c, "asOf")
	if !ok {
		return
	}

	snapshot, err := h.reportingService.CashPosition(c.Request.Context(), c.Param("ledgerID"), asOf)
	if err != nil {
		respondError(c, err, "Failed to compute cash position")
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *reportingHandler) aging(c *gin.Context) {
	asOf, ok := parseDateQuery(c, "asOf")
	if !ok {
		return
	}
	side := domain.AgingSide(strings.ToUpper(c.DefaultQuery("side", "AR")))
	if side != domain.AgingReceivable && side != domain.AgingPayable {
		c.JSON(http.StatusBadRequest, gin.H{"error": "side must be AR or AP"})
		return
	}

	buckets, err := h.reportingService.Aging(c.Request.Context(), c.Param("ledgerID"), side, asOf)
	if err != nil {
		respondError(c, err, "Failed to compute aging")
		return
	}
	c.JSON(http.StatusOK, buckets)
}
