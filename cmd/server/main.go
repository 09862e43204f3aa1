package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamour/pharmastock/internal/config"
	"github.com/mamour/pharmastock/internal/repository/mongodb"
	"github.com/mamour/pharmastock/internal/repository/sheets"
	"github.com/mamour/pharmastock/internal/scheduler"
	"github.com/mamour/pharmastock/internal/server/handlers"
	"github.com/mamour/pharmastock/internal/server/router"
	catalogsvc "github.com/mamour/pharmastock/internal/service/catalog"
	ledgersvc "github.com/mamour/pharmastock/internal/service/ledger"
	mutationsvc "github.com/mamour/pharmastock/internal/service/mutation"
	reportsvc "github.com/mamour/pharmastock/internal/service/report"
	"github.com/mamour/pharmastock/pkg/clients/backend"
	"github.com/mamour/pharmastock/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	backendClient := backend.NewClient(cfg.Backend)

	catalogStore := catalogsvc.NewStore(backendClient, baseLogger.Named("svc.catalog"))
	ledgerStore := ledgersvc.NewStore(backendClient, cfg.Backend.FetchLimit, baseLogger.Named("svc.ledger"))
	coordinator := mutationsvc.NewCoordinator(backendClient, catalogStore, ledgerStore, baseLogger.Named("svc.mutation"))

	// Optional report sinks; either can be disabled by leaving its config empty.
	var mongoRepo mongodb.Repository
	if cfg.MongoDB.URI != "" {
		repo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := repo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		mongoRepo = repo
		baseLogger.Info("daily report snapshots enabled")
	} else {
		baseLogger.Warn("MONGODB_URI missing, daily report snapshots disabled")
	}

	var sheetsRepo sheets.Repository
	if cfg.Sheets.SpreadsheetID != "" {
		repo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetsRepo = repo
		baseLogger.Info("daily report spreadsheet export enabled")
	} else {
		baseLogger.Warn("GOOGLE_SHEET_REPORT_ID missing, spreadsheet export disabled")
	}

	reportSvc := reportsvc.NewService(catalogStore, mongoRepo, sheetsRepo, cfg.Reporting.ExpiryAlertDays, baseLogger.Named("svc.report"))

	// Warm the session state before serving; a failed first fetch is not
	// fatal, the session starts empty and the refresh sweep catches up.
	initCtx, cancelInit := context.WithTimeout(context.Background(), time.Duration(cfg.Backend.TimeoutSeconds)*time.Second*2)
	if err := catalogStore.Refresh(initCtx); err != nil {
		baseLogger.Warn("initial catalog fetch failed", zap.Error(err))
	}
	ledgerStore.Refresh(initCtx)
	cancelInit()

	stockHandler := handlers.NewStockHandler(catalogStore, coordinator, backendClient, cfg.Reporting.ExpiryAlertDays, baseLogger.Named("handlers.stock"))
	ledgerHandler := handlers.NewLedgerHandler(ledgerStore, coordinator, reportSvc, backendClient, baseLogger.Named("handlers.ledger"))
	engine := router.New(stockHandler, ledgerHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, catalogStore, ledgerStore, reportSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
