// Package app wires configuration into a ready tool registry. Every entry
// point builds the same object graph through it.
package app

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/config"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/database"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/notify"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/repository"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/service"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/tools"
)

type App struct {
	DB       *sqlx.DB
	Store    *repository.Store
	Engine   *service.Engine
	Tools    *tools.Registry
	Notifier notify.Notifier
}

func Build(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	store := repository.New(db,
		repository.WithRetryPolicy(repository.RetryPolicyFrom(cfg.Retry)),
		repository.WithBreaker(cfg.Breaker),
		repository.WithQueryTimeout(cfg.Database.QueryTimeout),
		repository.WithPoolSize(cfg.Database.MaxIdleConns),
		repository.WithLogger(log.With().Str("component", "repository").Logger()),
	)
	engine := service.New(store, cfg.Analytics,
		service.WithLogger(log.With().Str("component", "engine").Logger()))

	notifier, err := notify.FromConfig(ctx, cfg, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	registry := tools.New(engine,
		tools.WithNotifier(notifier),
		tools.WithLogger(log.With().Str("component", "tools").Logger()))

	return &App{DB: db, Store: store, Engine: engine, Tools: registry, Notifier: notifier}, nil
}

func (a *App) Close() error {
	return errors.Join(a.Notifier.Close(), a.DB.Close())
}
