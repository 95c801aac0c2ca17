package storage

import (
	"context"
	"fmt"

	"catalogo/internal/config"
)

// KV is the persistence boundary of the cart. Get returns (nil, nil) for a
// missing key.
type KV interface {
	Get(ctx context.Context, key string) (*string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func OpenKV(ctx context.Context, cfg config.Config) (KV, error) {
	switch cfg.CartBackend {
	case "", "sqlite":
		db, err := Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.DBPath, err)
		}
		return db, nil
	case "redis":
		if err := cfg.Require("REDIS_URL", cfg.RedisURL); err != nil {
			return nil, err
		}
		r, err := OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("open redis: %w", err)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unsupported cart backend: %s", cfg.CartBackend)
	}
}
