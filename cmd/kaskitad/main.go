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

	"kaskita/internal/cache"
	"kaskita/internal/client"
	"kaskita/internal/config"
	"kaskita/internal/logger"
	"kaskita/internal/services"
	"kaskita/internal/session"
	"kaskita/internal/snapshot"
	"kaskita/internal/validator"

	_ "kaskita/internal/docs" // Import swagger docs
)

// @title           KasKita Ledger API
// @version         1.0
// @description     Local daemon that keeps the KasKita ledger snapshot and derives balances, budgets and statistics from the KasKita backend.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name X-API-Key
// @description Daemon API key, required only when API_KEY is configured.

// pendingRetryInterval is how often queued attachments are retried.
const pendingRetryInterval = 5 * time.Minute

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	validator.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cacheManager, err := cache.NewManager(cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer func() {
		if err := cacheManager.Close(); err != nil {
			log.Warnf("cache close error: %v", err)
		}
	}()
	if err := cacheManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run cache migrations: %w", err)
	}
	repo := cache.NewRepository(cacheManager.DB())

	sealer, err := session.NewSealer(cfg.SessionSecret)
	if err != nil {
		return fmt.Errorf("failed to create session sealer: %w", err)
	}
	sess := session.NewManager(repo, sealer)
	if err := sess.Restore(ctx); err != nil {
		log.Warnf("previous session not restored: %v", err)
	}

	backend := client.New(cfg.BackendURL, &http.Client{Timeout: cfg.RequestTimeout}, sess)

	store := snapshot.NewStore(repo)
	if sess.Authenticated() {
		store.Restore(ctx)
	} else {
		store.Reset(ctx)
	}

	ledger := services.NewLedger(backend, store, snapshot.NewTracker(), services.OptionsFromConfig(cfg))
	settingsService := services.NewSettingsService(ledger)
	periodService := services.NewPeriodService(ledger, settingsService)
	transactionService := services.NewTransactionService(ledger, periodService, repo)

	router := newRouter(deps{
		APIKey:       cfg.APIKey,
		Sessions:     sess,
		Auth:         services.NewAuthService(ledger, sess),
		Settings:     settingsService,
		Periods:      periodService,
		Assets:       services.NewAssetService(ledger),
		Savings:      services.NewSavingService(ledger),
		Loans:        services.NewLoanService(ledger),
		Categories:   services.NewCategoryService(ledger),
		Transactions: transactionService,
		Statistics:   services.NewStatisticService(ledger, periodService),
		Overview:     services.NewOverviewService(ledger),
	})

	go retryPendingImages(ctx, sess, transactionService)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting KasKita daemon on port %s", cfg.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// retryPendingImages periodically re-uploads queued attachments while a
// session is active.
func retryPendingImages(ctx context.Context, sess *session.Manager, transactions services.TransactionServicer) {
	log := logger.Named("retry")
	ticker := time.NewTicker(pendingRetryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !sess.Authenticated() {
				continue
			}
			report, err := transactions.RetryPendingImages(ctx)
			if err != nil {
				log.Warnw("pending image retry failed", "error", err)
				continue
			}
			if report.Uploaded > 0 || report.Failed > 0 {
				log.Infow("pending image retry", "uploaded", report.Uploaded, "failed", report.Failed)
			}
		}
	}
}
