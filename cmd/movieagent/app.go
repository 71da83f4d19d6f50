package main

import (
	"context"
	"fmt"

	"github.com/MattTPin/movie-reccomendation-agent/internal/assistant"
	"github.com/MattTPin/movie-reccomendation-agent/internal/config"
	"github.com/MattTPin/movie-reccomendation-agent/internal/event"
	"github.com/MattTPin/movie-reccomendation-agent/internal/llm"
	"github.com/MattTPin/movie-reccomendation-agent/internal/registry"
	"github.com/MattTPin/movie-reccomendation-agent/internal/store"
	"github.com/MattTPin/movie-reccomendation-agent/internal/tmdb"
	"github.com/MattTPin/movie-reccomendation-agent/internal/trakt"
	"github.com/MattTPin/movie-reccomendation-agent/internal/version"
	"github.com/MattTPin/movie-reccomendation-agent/internal/webhook"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/plugin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app holds everything serve and chat share: configuration, logger,
// database, event bus and the started plugin registry.
type app struct {
	v         *viper.Viper
	logger    *zap.Logger
	db        *store.SQLiteStore
	bus       *event.Bus
	reg       *registry.Registry
	assistant *assistant.Module
}

// bootstrap loads configuration, opens the database and starts every
// plugin. logOutput, when set, overrides logging.output.
func bootstrap(ctx context.Context, configPath, logOutput string) (*app, error) {
	v, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if logOutput != "" {
		v.Set("logging.output", logOutput)
	}
	cfg := config.New(v)

	logger, err := config.NewLogger(v)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	if f := v.ConfigFileUsed(); f != "" {
		logger.Info("configuration loaded",
			zap.String("component", "config"),
			zap.String("source", f),
		)
	} else {
		logger.Warn("no configuration file found, using defaults",
			zap.String("component", "config"),
		)
	}

	dbPath := v.GetString("database.path")
	if dbPath == "" {
		dbPath = "movieagent.db"
	}
	db, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.CheckVersion(ctx, version.Short()); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("database initialized",
		zap.String("component", "database"),
		zap.String("path", dbPath),
	)

	a := &app{
		v:         v,
		logger:    logger,
		db:        db,
		bus:       event.NewBus(logger.Named("event")),
		reg:       registry.New(logger.Named("registry")),
		assistant: assistant.New(),
	}

	// Compile-time composition.
	modules := []plugin.Plugin{
		llm.New(),
		trakt.New(),
		tmdb.New(),
		a.assistant,
		webhook.New(),
	}
	for _, m := range modules {
		if err := a.reg.Register(m); err != nil {
			a.close(ctx)
			return nil, fmt.Errorf("register plugin: %w", err)
		}
	}
	if err := a.reg.Validate(); err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("plugin validation: %w", err)
	}

	if err := a.reg.InitAll(ctx, func(name string) plugin.Dependencies {
		return plugin.Dependencies{
			Config:  cfg.Sub("plugins." + name),
			Logger:  logger.Named(name),
			Store:   db,
			Bus:     a.bus,
			Plugins: a.reg,
		}
	}); err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("initialize plugins: %w", err)
	}
	if err := a.reg.StartAll(ctx); err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("start plugins: %w", err)
	}
	return a, nil
}

// close drains async events, stops the plugins and closes the database.
func (a *app) close(ctx context.Context) {
	a.bus.Wait()
	a.reg.StopAll(ctx)
	if err := a.db.Close(); err != nil {
		a.logger.Warn("database close failed", zap.Error(err))
	}
	_ = a.logger.Sync()
}
