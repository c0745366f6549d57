package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/username/holiday-optimizer/internal/config"
	"github.com/username/holiday-optimizer/internal/holidays"
	"github.com/username/holiday-optimizer/internal/optimizer"
	"github.com/username/holiday-optimizer/internal/planner"
)

// app holds the components shared by every command
type app struct {
	source  holidays.Source
	planner *planner.Manager
	closers []func() error
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func initializeApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}

	source, err := initializeSource(cfg, logger, a)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.source = source

	policy := cfg.Optimizer.Policy()
	if err := policy.Validate(); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("invalid optimizer policy: %w", err)
	}
	a.planner = planner.NewManager(source, optimizer.New(policy, logger), logger)

	return a, nil
}

// initializeSource builds API -> cache -> fallback table
func initializeSource(cfg *config.Config, logger *zap.Logger, a *app) (holidays.Source, error) {
	fallback := holidays.DefaultFallbackTable()
	if cfg.Holidays.FallbackFile != "" {
		fileTable, err := holidays.LoadFallbackFile(cfg.Holidays.FallbackFile, logger)
		if err != nil {
			logger.Warn("Failed to load fallback file, using built-in table",
				zap.String("file", cfg.Holidays.FallbackFile),
				zap.Error(err))
		} else {
			fallback = fallback.Merge(fileTable)
		}
	}

	api := holidays.NewNagerSource(cfg.Holidays.APIURL, cfg.Holidays.GetTimeout(), logger)
	ttl := cfg.Holidays.GetCacheTTL()

	var primary holidays.Source
	switch cfg.Cache.Type {
	case config.CacheNone:
		logger.Info("Holiday cache disabled")
		primary = api

	case config.CacheSQLite:
		cache, err := holidays.OpenSQLiteCache(cfg.Cache.SQLitePath, ttl)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite cache: %w", err)
		}
		a.closers = append(a.closers, cache.Close)
		logger.Info("Using sqlite holiday cache", zap.String("path", cache.DBPath))
		primary = holidays.NewCachedSource(api, cache, logger)

	case config.CacheRedis:
		cache := holidays.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, ttl)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := cache.Ping(ctx)
		cancel()
		if err != nil {
			_ = cache.Close()
			logger.Warn("Redis unavailable, falling back to in-memory cache",
				zap.String("addr", cfg.Cache.RedisAddr),
				zap.Error(err))
			primary = holidays.NewCachedSource(api, holidays.NewMemoryCache(ttl), logger)
			break
		}
		a.closers = append(a.closers, cache.Close)
		logger.Info("Using redis holiday cache", zap.String("addr", cfg.Cache.RedisAddr))
		primary = holidays.NewCachedSource(api, cache, logger)

	default:
		primary = holidays.NewCachedSource(api, holidays.NewMemoryCache(ttl), logger)
	}

	return holidays.NewCompositeSource(primary, fallback, logger), nil
}
