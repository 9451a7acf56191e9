package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/shelfmark/shelfmark-api/internal/config"
	"github.com/shelfmark/shelfmark-api/internal/platform/mastodon"
	"github.com/shelfmark/shelfmark-api/internal/platform/postgres"
	"github.com/shelfmark/shelfmark-api/internal/ratelimit"
	"github.com/shelfmark/shelfmark-api/internal/service/auth"
	"github.com/shelfmark/shelfmark-api/internal/store"
	"github.com/shelfmark/shelfmark-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config

	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore     store.UserStore
	taskStore     store.TaskStore
	bookStore     store.BookStore
	fileStore     store.FileStore
	settingsStore store.SettingsStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier

	// Request rate limiting
	limiter *ratelimit.Limiter

	// Background task execution
	taskEngine *task.Engine
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_mins", cfg.Auth.TokenLifetimeMins)

	app.passwordHasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewUserStore(db)
	app.taskStore = postgres.NewTaskStore(db)
	app.bookStore = postgres.NewBookStore(db)
	app.fileStore = postgres.NewFileStore(db)
	app.settingsStore = postgres.NewSettingsStore(db)

	app.limiter = ratelimit.New(ratelimit.NewMemoryWindowStore())

	if err := os.MkdirAll(cfg.Export.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory %q: %w", cfg.Export.Dir, err)
	}

	app.taskEngine, err = setupTaskEngine(app)
	if err != nil {
		return nil, fmt.Errorf("failed to set up task engine: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupTaskEngine builds the background task engine with every supported
// task handler registered, then starts its worker pool.
func setupTaskEngine(app *application) (*task.Engine, error) {
	exportDir := app.config.Export.Dir

	csvHandler, err := task.NewCSVExportHandler(
		app.bookStore, app.fileStore, exportDir, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV export handler: %w", err)
	}

	jsonHandler, err := task.NewJSONExportHandler(
		app.bookStore, app.fileStore, exportDir, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create JSON export handler: %w", err)
	}

	htmlHandler, err := task.NewHTMLExportHandler(
		app.bookStore, app.fileStore, exportDir, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTML export handler: %w", err)
	}

	shareHandler, err := task.NewShareBookEventHandler(
		app.settingsStore,
		mastodon.NewClient(),
		app.logger.With("component", "share_handler"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create share handler: %w", err)
	}

	engine, err := task.NewEngine(
		app.taskStore,
		task.EngineConfig{
			WorkerCount: app.config.Task.WorkerCount,
			QueueSize:   app.config.Task.QueueSize,
		},
		app.logger,
		csvHandler, jsonHandler, htmlHandler, shareHandler,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task engine: %w", err)
	}

	engine.Start()
	return engine, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources. Stopping the
// task engine first lets in-flight tasks finish their store writes before
// the database connection goes away.
func (app *application) cleanup() {
	if app.taskEngine != nil {
		app.taskEngine.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
