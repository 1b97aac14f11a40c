package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/keyhaven/keyhaven/internal/licensing/http"
	"github.com/keyhaven/keyhaven/internal/licensing/service"
	"github.com/keyhaven/keyhaven/internal/licensing/store"
	"github.com/keyhaven/keyhaven/internal/licensing/store/drivers/sqlite"
	"github.com/keyhaven/keyhaven/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the licensing service with all its dependencies.
// The store handle is constructed and torn down here; nothing else owns
// connection lifecycle.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	accessService     *service.AccessService
	registryService   *service.RegistryService
	keyService        *service.KeyService
	validationService *service.ValidationService
	supportService    *service.SupportService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "licensing-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("licensing service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"admin_id", app.cfg.AdminID,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down licensing service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("licensing service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		app.cfg.DatabaseFile,
	)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.accessService = &service.AccessService{
		Store:       app.db,
		MainAdminID: app.cfg.AdminID,
	}
	app.registryService = &service.RegistryService{
		Store:  app.db,
		Access: app.accessService,
	}
	app.keyService = &service.KeyService{Store: app.db}
	app.validationService = &service.ValidationService{Store: app.db}
	app.supportService = &service.SupportService{
		Store:  app.db,
		Access: app.accessService,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.logger,
		app.cfg.RequestTimeout,
		app.cfg.CORSOrigins,
	)

	router.AccessService = app.accessService
	router.RegistryService = app.registryService
	router.KeyService = app.keyService
	router.ValidationService = app.validationService
	router.SupportService = app.supportService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
