// Package app assembles the database pool and services shared by the
// server and the command-line tools.
package app

import (
	"context"
	"fmt"

	"libraryapi/internal/book"
	"libraryapi/internal/config"
	"libraryapi/internal/lending"
	"libraryapi/internal/member"
	"libraryapi/internal/platform/clock"
	"libraryapi/internal/platform/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type App struct {
	Config config.Config
	Logger *zap.Logger
	DB     *pgxpool.Pool

	Books   *book.Service
	Members *member.Service
	Lending *lending.Service
}

// Open connects to the database, applies the schema and builds the services.
// Call Close when done.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	pool, err := postgres.Open(ctx, postgres.PoolConfig{
		DSN:      cfg.DatabaseDSN,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	logger.Info("database connection OK", zap.String("dsn", postgres.RedactDSN(cfg.DatabaseDSN)))

	c := clock.New(nil, cfg.Location)
	return &App{
		Config:  cfg,
		Logger:  logger,
		DB:      pool,
		Books:   book.NewService(book.NewPostgresRepo(pool, cfg.DBQueryTimeout)),
		Members: member.NewService(member.NewPostgresRepo(pool, cfg.DBQueryTimeout), c),
		Lending: lending.NewService(lending.NewPostgresRepo(pool, cfg.DBQueryTimeout), c, logger.Named("lending")),
	}, nil
}

func (a *App) Close() {
	a.DB.Close()
}
