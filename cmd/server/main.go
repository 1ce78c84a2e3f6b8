package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/foodcost/internal/config"
	"github.com/mamadbah2/foodcost/internal/ledger"
	"github.com/mamadbah2/foodcost/internal/repository/mongodb"
	"github.com/mamadbah2/foodcost/internal/repository/sheets"
	"github.com/mamadbah2/foodcost/internal/repository/sqlite"
	"github.com/mamadbah2/foodcost/internal/scheduler"
	"github.com/mamadbah2/foodcost/internal/server/handlers"
	"github.com/mamadbah2/foodcost/internal/server/router"
	purchasesvc "github.com/mamadbah2/foodcost/internal/service/purchases"
	recipesvc "github.com/mamadbah2/foodcost/internal/service/recipes"
	reportingsvc "github.com/mamadbah2/foodcost/internal/service/reporting"
	whatsappclient "github.com/mamadbah2/foodcost/pkg/clients/whatsapp"
	"github.com/mamadbah2/foodcost/pkg/logger"
)

// backend is the storage selected by LEDGER_BACKEND.
type backend struct {
	store   ledger.Store
	journal recipesvc.AnalysisJournal
	history recipesvc.AnalysisHistory
	close   func() error
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc := cfg.Location()

	ledgerBackend, err := openBackend(context.Background(), cfg, loc, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init ledger backend", zap.String("backend", cfg.Ledger.Backend), zap.Error(err))
	}
	defer func() {
		if err := ledgerBackend.close(); err != nil {
			baseLogger.Error("failed to close ledger backend", zap.Error(err))
		}
	}()

	store := ledger.NewCachedStore(ledgerBackend.store, cfg.Ledger.CacheTTL, baseLogger.Named("ledger.cache"))

	var archive recipesvc.AnalysisJournal
	history := ledgerBackend.history
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archive = mongoRepo
		if history == nil {
			history = mongoRepo
		}
		baseLogger.Info("mongodb analysis archive enabled", zap.String("db", cfg.MongoDB.DBName))
	}

	purchaseSvc := purchasesvc.NewService(store, baseLogger.Named("svc.purchases"))
	recipeSvc := recipesvc.NewService(store, ledgerBackend.journal, archive, history, baseLogger.Named("svc.recipes"))
	reportingSvc := reportingsvc.NewService(store, loc, baseLogger.Named("svc.reporting"))

	var whatsClient whatsappclient.Client
	if cfg.WhatsApp.Enabled() {
		whatsClient = whatsappclient.NewClient(cfg.WhatsApp)
		baseLogger.Info("whatsapp digest delivery enabled")
	} else {
		baseLogger.Warn("whatsapp not configured, weekly digest will only be logged")
	}

	sched := scheduler.NewScheduler(cfg.Reporting.CronSchedule, loc, reportingSvc, whatsClient, cfg.WhatsApp.RecipientID, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	engine := router.New(router.Handlers{
		Purchases: handlers.NewPurchaseHandler(purchaseSvc, baseLogger.Named("handlers.purchases")),
		Recipes:   handlers.NewRecipeHandler(recipeSvc, baseLogger.Named("handlers.recipes")),
		Reports:   handlers.NewReportHandler(reportingSvc, baseLogger.Named("handlers.reports")),
	}, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("ledger", cfg.Ledger.Backend))
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

func openBackend(ctx context.Context, cfg *config.Config, loc *time.Location, baseLogger *zap.Logger) (backend, error) {
	noop := func() error { return nil }

	switch cfg.Ledger.Backend {
	case config.BackendSheets:
		repo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			return backend{}, err
		}
		return backend{
			store:   ledger.NewSheetStore(repo, cfg.Sheets.LedgerRange, loc, baseLogger.Named("ledger.sheets")),
			journal: ledger.NewMenuJournal(repo, cfg.Sheets.MenuRange, loc),
			close:   noop,
		}, nil
	case config.BackendCSV:
		return backend{
			store: ledger.NewCSVReader(cfg.Ledger.CSVURL, loc, baseLogger.Named("ledger.csv")),
			close: noop,
		}, nil
	case config.BackendSQLite:
		db, err := sqlite.New(cfg.SQLite.Path)
		if err != nil {
			return backend{}, err
		}
		return backend{store: db, journal: db, history: db, close: db.Close}, nil
	default:
		return backend{}, fmt.Errorf("unsupported ledger backend %q", cfg.Ledger.Backend)
	}
}
