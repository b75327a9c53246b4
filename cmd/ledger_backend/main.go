package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	portssvc "github.com/openbooks/ledger_engine/internal/core/ports/services"
	"github.com/openbooks/ledger_engine/internal/core/services"
	"github.com/openbooks/ledger_engine/internal/handlers"
	"github.com/openbooks/ledger_engine/internal/middleware"
	"github.com/openbooks/ledger_engine/internal/repositories/database/pgsql"
	"github.com/openbooks/ledger_engine/pkg/config"
	"github.com/openbooks/ledger_engine/pkg/database"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/ulule/limiter/v3"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "Idempotency-Key")
	r.Use(cors.New(corsConfig))

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit configuration", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimitMiddleware(rate))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterCustomValidators()

	serviceContainer, err := buildServices(dbPool, cfg)
	if err != nil {
		logger.Error("Failed to build services", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations using a temporary
// database/sql connection over the pgx stdlib driver.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// buildServices wires repositories into services and collects them into
// the container consumed by the route registrations.
func buildServices(dbPool *pgxpool.Pool, cfg *config.Config) (*portssvc.ServiceContainer, error) {
	tolerance, err := decimal.NewFromString(cfg.ReconTolerance)
	if err != nil {
		return nil, err
	}

	ledgerRepo := pgsql.NewLedgerRepository(dbPool)
	accountRepo := pgsql.NewAccountRepository(dbPool)
	periodRepo := pgsql.NewFiscalPeriodRepository(dbPool)
	journalRepo := pgsql.NewJournalRepository(dbPool)
	rateRepo := pgsql.NewExchangeRateRepository(dbPool)
	invoiceRepo := pgsql.NewInvoiceRepository(dbPool)
	billRepo := pgsql.NewBillRepository(dbPool)
	payrollRepo := pgsql.NewPayrollRepository(dbPool)
	reportingRepo := pgsql.NewReportingRepository(dbPool)
	reconRepo := pgsql.NewReconciliationRepository(dbPool)

	ledgerSvc := services.NewLedgerService(ledgerRepo)
	accountSvc := services.NewAccountService(accountRepo, ledgerRepo)
	periodSvc := services.NewFiscalPeriodService(periodRepo, journalRepo)
	fxSvc := services.NewFxService(rateRepo, ledgerRepo)
	postingSvc := services.NewPostingService(journalRepo, accountRepo, periodSvc, fxSvc)
	invoiceSvc := services.NewInvoiceService(invoiceRepo, accountRepo, postingSvc, fxSvc)
	billSvc := services.NewBillService(billRepo, accountRepo, postingSvc, fxSvc)
	payrollSvc := services.NewPayrollService(payrollRepo, postingSvc, fxSvc)
	reportingSvc := services.NewReportingService(reportingRepo, accountRepo, invoiceRepo, billRepo)
	reconSvc := services.NewReconciliationService(reconRepo, reportingRepo, accountRepo, invoiceRepo, billRepo, tolerance)

	return &portssvc.ServiceContainer{
		Ledger:         ledgerSvc,
		Account:        accountSvc,
		FiscalPeriod:   periodSvc,
		Fx:             fxSvc,
		Posting:        postingSvc,
		Invoice:        invoiceSvc,
		Bill:           billSvc,
		Payroll:        payrollSvc,
		Reporting:      reportingSvc,
		Reconciliation: reconSvc,
	}, nil
}
