package repository

import (
	"context"
	"fmt"
	"log/slog"

	"inkwell/internal/config"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/repository/memory"
	"inkwell/internal/repository/postgres"
	"inkwell/internal/repository/redis"
	"inkwell/internal/repository/sqlite"
)

// Backend is an opened persistence backend
type Backend struct {
	Name string
	KV   repositories.KVStore
	Tx   repositories.TransactionManager

	close func()
}

// Close releases the backend's connections
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open connects the backend named by cfg.StoreBackend
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	switch cfg.StoreBackend {
	case "memory":
		logger.Warn("using in-memory store, content is lost on exit")
		return &Backend{Name: "memory", KV: memory.NewKVStore(), Tx: repositories.DirectTx{}}, nil

	case "redis":
		kv, err := redis.NewKVStore(cfg.RedisURL, redis.DefaultPrefix)
		if err != nil {
			return nil, err
		}
		logger.Info("redis connected", "prefix", redis.DefaultPrefix)
		return &Backend{
			Name:  "redis",
			KV:    kv,
			Tx:    repositories.DirectTx{},
			close: func() { kv.Close() },
		}, nil

	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		kv := postgres.NewKVStore(pool, postgres.NewTableNames(cfg.TablePrefix), logger)
		if err := kv.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("database connected", "table_prefix", cfg.TablePrefix)
		return &Backend{
			Name:  "postgres",
			KV:    kv,
			Tx:    postgres.NewTransactionManager(pool, logger),
			close: pool.Close,
		}, nil

	case "sqlite":
		kv, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("sqlite opened", "path", cfg.SQLitePath)
		return &Backend{
			Name:  "sqlite",
			KV:    kv,
			Tx:    repositories.DirectTx{},
			close: func() { kv.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unknown STORE_BACKEND %q (want memory, redis, postgres or sqlite)", cfg.StoreBackend)
}
