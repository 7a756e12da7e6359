package repository

import (
	"context"
	"fmt"

	"pindrop/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// KeyValueStore is implemented by every store in this package
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Open builds the store selected by cfg.StoreDriver. The returned func
// releases its connections.
func Open(ctx context.Context, cfg config.Config) (KeyValueStore, func(), error) {
	switch cfg.StoreDriver {
	case "memory":
		return NewMemoryStore(), func() {}, nil

	case "", "file":
		return NewFileStore(cfg.StorePath), func() {}, nil

	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DBSource)
		if err != nil {
			return nil, nil, fmt.Errorf("repository: cannot connect to db: %w", err)
		}
		store := NewPostgresStore(pool, cfg.DBTable)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("repository: cannot connect to redis: %w", err)
		}
		return NewRedisStore(client, cfg.RedisPrefix), func() { _ = client.Close() }, nil
	}

	return nil, nil, fmt.Errorf("repository: unknown store driver %q", cfg.StoreDriver)
}
