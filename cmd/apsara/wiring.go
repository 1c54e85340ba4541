package main

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
	"github.com/shubharthaksangharsha/apsara2.5/config"
	"github.com/shubharthaksangharsha/apsara2.5/engine"
	"github.com/shubharthaksangharsha/apsara2.5/gemini"
	"github.com/shubharthaksangharsha/apsara2.5/history"
	"github.com/shubharthaksangharsha/apsara2.5/registry"
	"github.com/shubharthaksangharsha/apsara2.5/tools"
)

// buildStore constructs the session store named by the configuration.
func buildStore(cfg *config.Config) (history.Store, error) {
	opts := []history.Option{
		history.WithDir(cfg.Store.Dir),
		history.WithLogger(logger),
	}
	if cfg.Store.Driver == history.DriverRedis {
		ttl, err := cfg.Store.TTL()
		if err != nil {
			return nil, err
		}
		client := redis.NewClient(&redis.Options{Addr: cfg.Store.RedisAddr})
		opts = append(opts, history.WithRedisClient(client), history.WithRedisTTL(ttl))
	}
	return history.New(cfg.Store.Driver, opts...)
}

// buildEngine wires the store, tool registry, and Gemini provider into an
// engine. The caller owns the returned store and must close it.
func buildEngine(ctx context.Context, cfg *config.Config) (*engine.Engine, *registry.Registry, history.Store, error) {
	if cfg.APIKey == "" {
		return nil, nil, nil, errors.New("GEMINI_API_KEY is not set")
	}

	store, err := buildStore(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	reg := registry.New(logger)
	if err := tools.RegisterAll(reg); err != nil {
		_ = store.Close()
		return nil, nil, nil, err
	}

	provider, err := gemini.New(ctx, cfg.APIKey, gemini.WithModel(cfg.DefaultModel))
	if err != nil {
		_ = store.Close()
		return nil, nil, nil, err
	}

	eng := engine.New(store, reg, provider, apsara.DefaultCatalog(),
		engine.WithLogger(logger),
		engine.WithDefaultModel(cfg.DefaultModel))
	return eng, reg, store, nil
}
