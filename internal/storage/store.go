package storage

import (
	"context"
	"fmt"
	"log/slog"

	"nuclight.org/buttonpoll/internal/config"
	"nuclight.org/buttonpoll/internal/poll"
)

// Backend is a poll.Store that holds resources until closed.
type Backend interface {
	poll.Store
	Close() error
}

// Open connects the store selected by cfg.StoreBackend.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Backend, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		db, err := NewDB(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		logger.Info("store opened", "backend", cfg.StoreBackend, "db_path", cfg.DBPath)
		return NewPollDataRepository(db), nil

	case config.BackendRedis:
		rs, err := NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		logger.Info("store opened", "backend", cfg.StoreBackend)
		return rs, nil

	case config.BackendBadger:
		bs, err := NewBadgerStore(cfg.BadgerDir, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("store opened", "backend", cfg.StoreBackend, "dir", cfg.BadgerDir, "in_memory", cfg.BadgerDir == "")
		return bs, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
