package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/adcatalog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/adcatalog-backend/internal/config"
)

// Env holds what every command needs: configuration, the logger and,
// after Connect, the database pool.
type Env struct {
	Config *config.Config
	Log    *slog.Logger
	Pool   *pgxpool.Pool
}

// Setup loads configuration, initializes the logger and logs startup information.
func Setup(command string) (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cfg.Database.ApplicationName == "" {
		cfg.Database.ApplicationName = "adcatalog-" + command
	}

	logger := NewLogger(cfg.Log).With("command", command)

	logger.Info("starting",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	return &Env{Config: cfg, Log: logger}, nil
}

// Connect opens the database pool.
func (e *Env) Connect(ctx context.Context) error {
	pool, err := postgres.NewPool(ctx, e.Config.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	e.Pool = pool
	return nil
}

// Close releases the pool if one was opened.
func (e *Env) Close() {
	if e.Pool != nil {
		e.Pool.Close()
	}
}
