// Package app assembles the bot: stores, dialogue machine, handlers, and the
// runtime options for the Telegram loop.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/finvik/finbot/core/config"
	coredatabase "github.com/finvik/finbot/core/database"
	"github.com/finvik/finbot/core/logger"
	"github.com/finvik/finbot/core/metrics"
	tg "github.com/finvik/finbot/core/telegram"
	"github.com/finvik/finbot/core/telegram/router"
	"github.com/finvik/finbot/internal/finance"
	"github.com/finvik/finbot/internal/rates"
	"github.com/finvik/finbot/internal/session"
	"github.com/finvik/finbot/internal/storage"
	"github.com/finvik/finbot/internal/tips"
)

// App holds the assembled application components.
type App struct {
	cfg *coreconfig.Config
	db  *sqlx.DB

	collector *metrics.Collector
	registry  *tg.Registry

	form      *finance.Form
	registrar *finance.Registrar
	rates     *rates.Client
	tips      *tips.Picker
}

// New bootstraps the application: logging, database with migrations, stores,
// and the handler registry.
func New(cfg *coreconfig.Config) (*App, error) {
	if err := logger.InitLogger(cfg); err != nil {
		return nil, fmt.Errorf("app: logger init: %w", err)
	}

	if err := coredatabase.RunMigrations(cfg.Database); err != nil {
		return nil, fmt.Errorf("app: migrations: %w", err)
	}
	db, err := coredatabase.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("app: database: %w", err)
	}

	collector := metrics.NewCollector()
	users := storage.NewPostgresUsers(db)
	sessions := session.NewMemoryStore(cfg.Session.TTL)

	a := &App{
		cfg:       cfg,
		db:        db,
		collector: collector,
		form:      finance.NewForm(sessions, users, collector),
		registrar: finance.NewRegistrar(users),
		rates: rates.NewClient(rates.Config{
			BaseURL: cfg.Rates.BaseURL,
			APIKey:  cfg.Rates.APIKey,
			Base:    cfg.Rates.Base,
			Timeout: time.Duration(cfg.Rates.TimeoutSeconds) * time.Second,
		}, nil),
		tips: tips.NewPicker(),
	}
	a.registry = a.buildRegistry()
	return a, nil
}

// TelegramRunOptions wires middlewares, routes, and lifecycle hooks for the
// bot runtime.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	return tg.RunOptions{
		Config:      a.cfg,
		Registry:    a.registry,
		Middlewares: tg.DefaultMiddlewares(a.cfg, a.collector, a.onRateLimited),
		Routes: []tg.Route{
			router.TextRoute(&formFSM{form: a.form}, a.registry, router.TextOptions{
				Metrics: a.collector,
			}),
		},
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			if a.cfg.Metrics.Listen != "" {
				go func() {
					if err := metrics.Serve(ctx, a.cfg.Metrics.Listen, a.collector); err != nil {
						logger.L.Error("metrics server stopped",
							slog.String("event", "metrics_server"),
							slog.String("err", err.Error()),
						)
					}
				}()
			}
			return nil
		},
		OnStop: func(ctx context.Context, rt tg.Runtime) error {
			return a.db.Close()
		},
	}, nil
}
