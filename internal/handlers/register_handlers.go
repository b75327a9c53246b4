package handlers

import (
	"github.com/gin-gonic/gin"
	portssvc "github.com/openbooks/ledger_engine/internal/core/ports/services"
	"github.com/openbooks/ledger_engine/internal/middleware"
	"github.com/openbooks/ledger_engine/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the JWT-gated /api/v1 group and delegates to
// the per-entity route registrations.
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerLedgerRoutes(v1, services.Ledger)

	ledger := v1.Group("/ledgers/:ledgerID")
	registerAccountRoutes(ledger, services.Account)
	registerPeriodRoutes(ledger, services.FiscalPeriod)
	registerJournalRoutes(ledger, services.Posting)
	registerExchangeRateRoutes(ledger, services.Fx)
	registerInvoiceRoutes(ledger, services.Invoice)
	registerBillRoutes(ledger, services.Bill)
	registerPayrollRoutes(ledger, services.Payroll)
	registerReportingRoutes(ledger, services.Reporting)
	registerReconciliationRoutes(ledger, services.Reconciliation)
}
