package store

import (
	"context"
	"fmt"

	"catalog-cart/config"
)

// Open builds the backend selected by cfg.Store.Driver.
func Open(ctx context.Context, cfg config.Config) (KV, error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		return NewSQLite(cfg.Store.Path)
	case config.DriverRedis:
		return NewRedis(ctx, RedisOptions{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			KeyPrefix:   cfg.Redis.KeyPrefix,
			DialTimeout: cfg.Redis.DialTimeout,
		})
	case config.DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
