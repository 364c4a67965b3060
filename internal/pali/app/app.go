package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/pali/internal/pali/http"
	"github.com/aussiebroadwan/pali/internal/pali/service"
	"github.com/aussiebroadwan/pali/internal/pali/store"
	"github.com/aussiebroadwan/pali/internal/pali/store/drivers/postgres"
	"github.com/aussiebroadwan/pali/internal/pali/store/drivers/sqlite"
	"github.com/aussiebroadwan/pali/pkg/cryptox"
	"github.com/aussiebroadwan/pali/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application wires the pali server together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	authService      *service.AuthService
	lifecycleService *service.LifecycleService
	todoService      *service.TodoService
	auditService     *service.AuditService
	auditRunning     bool

	server *http.Server
	router *httpapi.Router
}

// NewLogger builds the service logger writing to w.
func NewLogger(cfg Config, w io.Writer) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "pali",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  w,
	})
}

// OpenStore points the key hasher at the configured pepper, connects to the
// configured database and applies migrations.
func OpenStore(ctx context.Context, cfg Config) (store.Store, error) {
	cryptox.SetPepperPath(cfg.PepperFile)

	var (
		db  store.Store
		err error
	)
	switch cfg.Database.Driver {
	case DriverPostgres:
		db, err = postgres.NewStore(ctx, cfg.Database.DSN)
	default:
		db, err = sqlite.NewStore(sqlite.FileDSN(cfg.Database.File))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Database.Driver, err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return db, nil
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg:    cfg,
		logger: NewLogger(cfg, os.Stdout),
	}

	ctx := slogx.WithContext(context.Background(), app.logger)

	db, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.db = db
	app.logger.Info("database ready", "driver", cfg.Database.Driver)

	app.initServices()

	if cfg.InitialAdminKey != "" {
		if _, err := app.lifecycleService.SeedInitialKey(ctx, cfg.InitialAdminKey); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to seed initial admin key: %w", err)
		}
	}

	app.initHTTP()
	return app, nil
}

// Handler exposes the routed HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.auditService.Start()
	app.auditRunning = true

	app.logger.Info("pali server starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		app.stopAudit()
		_ = app.db.Close()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains in-flight requests, stops the audit worker and closes the
// store. It is also safe to call on an Application that was never Run.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down pali server...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.stopAudit()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("pali server stopped")
	return nil
}

func (app *Application) stopAudit() {
	if app.auditRunning {
		app.auditService.Stop()
		app.auditRunning = false
	}
}

func (app *Application) initServices() {
	validate := service.NewValidator()

	app.authService = &service.AuthService{Store: app.db}
	app.lifecycleService = &service.LifecycleService{Store: app.db, Validator: validate}
	app.todoService = &service.TodoService{Store: app.db, Validator: validate}
	app.auditService = service.NewAuditService(app.db, app.logger, app.cfg.AuditInterval)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger, httpapi.RouterConfig{
		CORSOrigins:    app.cfg.CORSOrigins,
		RateLimits:     app.cfg.RateLimits,
		TrustedProxies: app.cfg.TrustedProxies,
	})
	router.AuthService = app.authService
	router.LifecycleService = app.lifecycleService
	router.TodoService = app.todoService
	router.RecoveryToken = app.cfg.RecoveryToken
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
