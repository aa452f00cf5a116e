package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/claude/liftlog/internal/config"
	"github.com/go-redis/redis/v8"
)

// Fixed document keys.
const (
	KeyTemplates = "workout-schemas"
	KeyHistory   = "workout-history"
	// KeySessions is a legacy slot kept for compatibility. Nothing reads or writes it.
	KeySessions = "sessions"
)

// KV is a string key-value store holding whole JSON documents.
// Writes replace the entire value; there are no partial updates.
type KV interface {
	// Get returns the value at key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Open creates the KV backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (KV, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		kv, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		log.Info("storage opened", "driver", cfg.Driver, "path", cfg.Path)
		return kv, nil

	case config.DriverPostgres:
		dsn := cfg.Database.DSN()
		if err := RunMigrations(dsn); err != nil {
			return nil, err
		}
		log.Info("migrations applied")
		db, err := New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		log.Info("storage opened", "driver", cfg.Driver, "host", cfg.Database.Host, "db", cfg.Database.Name)
		return db, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("pinging redis: %w", err)
		}
		log.Info("storage opened", "driver", cfg.Driver, "addr", cfg.Redis.Addr)
		return NewRedis(client, cfg.Redis.Prefix), nil

	case config.DriverMemory:
		log.Warn("storage opened in memory; data is lost on exit")
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// Compile-time checks.
var (
	_ KV = (*SQLite)(nil)
	_ KV = (*DB)(nil)
	_ KV = (*Redis)(nil)
	_ KV = (*Memory)(nil)
)
