package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/attendify/attendify-backend-go/internal/config"
	"github.com/attendify/attendify-backend-go/internal/domain/reconcile"
	appHTTP "github.com/attendify/attendify-backend-go/internal/handler/http"
	"github.com/attendify/attendify-backend-go/internal/pkg/cron"
	"github.com/attendify/attendify-backend-go/internal/pkg/database"
	"github.com/attendify/attendify-backend-go/internal/pkg/email"
	"github.com/attendify/attendify-backend-go/internal/pkg/jwt"
	"github.com/attendify/attendify-backend-go/internal/pkg/sse"
	"github.com/attendify/attendify-backend-go/internal/pkg/storage"
	"github.com/attendify/attendify-backend-go/internal/repository/postgresql"
	"github.com/attendify/attendify-backend-go/internal/service/file"
	reconcileService "github.com/attendify/attendify-backend-go/internal/service/reconcile"
	reportService "github.com/attendify/attendify-backend-go/internal/service/report"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	runRepo := postgresql.NewReconciliationRunRepository(db)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize local storage: %w", err)
	}
	fileService := file.NewFileService(fileStorage)

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	defaults := reconcile.Thresholds{
		Working: cfg.Thresholds.Working,
		Partial: cfg.Thresholds.Partial,
		Absent:  cfg.Thresholds.Absent,
	}
	hub := sse.NewHub()
	reconcileSvc := reconcileService.NewReconcileService(runRepo, fileService, reconcileService.NewReconciler(), defaults, hub)
	reportSvc := reportService.NewReportService(runRepo, emailService, hub)

	scheduler := cron.NewScheduler()
	cron.NewRetentionJobs(reconcileSvc, cfg.App.RunRetention).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		JWTService,
		appHTTP.NewReconcileHandler(reconcileSvc),
		appHTTP.NewReportHandler(reportSvc),
		appHTTP.NewEventsHandler(hub, reconcileSvc),
		appHTTP.RouterOptions{
			FrontendURL:      cfg.App.FrontendURL,
			Env:              cfg.App.Env,
			LogLevel:         cfg.SlogLevel(),
			UploadsPerMinute: cfg.HTTP.UploadsPerMinute,
			UploadsDir:       cfg.Storage.BasePath,
		},
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		slog.Info("Server shutting down")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
