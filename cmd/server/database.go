package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/shelfmark/shelfmark-api/internal/config"
)

// pingTimeout bounds the startup connectivity check so a wrong DATABASE_URL
// fails fast instead of hanging the boot.
const pingTimeout = 5 * time.Second

// setupAppDatabase opens the pgx-backed connection pool shared by the HTTP
// handlers and the task engine's workers. The pool is sized off the worker
// count: every worker can hold a connection during an export without
// starving the request path.
func setupAppDatabase(cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.Task.WorkerCount + 8)
	db.SetMaxIdleConns(cfg.Task.WorkerCount + 1)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established",
		"max_open_conns", cfg.Task.WorkerCount+8)
	return db, nil
}
