package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"msgstore/internal/config"
	"msgstore/internal/infrastructure/cache"
	"msgstore/internal/infrastructure/database"
	"msgstore/internal/infrastructure/sqlstore"
	"msgstore/internal/ports/output"
)

// backend holds the opened storage and cache; closers run in reverse order.
type backend struct {
	repo    output.CatalogRepository
	cache   output.Cache
	closers []func()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// openBackend connects to the configured store, applies migrations when
// migrate is set, and builds the cache.
func openBackend(ctx context.Context, cfg *config.Config, migrate bool) (*backend, error) {
	b := &backend{}
	if err := b.openStore(ctx, cfg, migrate); err != nil {
		b.Close()
		return nil, err
	}
	if err := b.openCache(ctx, cfg); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *backend) openStore(ctx context.Context, cfg *config.Config, migrate bool) error {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		if migrate {
			if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
				return err
			}
		}
		pool, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		b.repo = database.NewCatalogRepository(pool)
		return nil

	case config.DriverSQLite, config.DriverMySQL:
		dialect := sqlstore.Dialect(cfg.DBDriver)
		if dialect == sqlstore.DialectSQLite {
			if err := os.MkdirAll(filepath.Dir(cfg.DatabaseURL), 0o755); err != nil {
				return fmt.Errorf("make db dir: %w", err)
			}
		}
		db, err := sqlstore.Open(dialect, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, func() { _ = db.Close() })
		if migrate {
			if err := sqlstore.Migrate(db, dialect); err != nil {
				return err
			}
		}
		b.repo = sqlstore.NewCatalogRepository(db)
		return nil

	default:
		return fmt.Errorf("unknown driver %q", cfg.DBDriver)
	}
}

func (b *backend) openCache(ctx context.Context, cfg *config.Config) error {
	if !cfg.UseRedisCache() {
		b.cache = cache.NewInMemoryCache(cfg.CacheTTL)
		return nil
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		URL:       cfg.RedisURL,
		TTL:       cfg.CacheTTL,
		KeyPrefix: cfg.CachePrefix,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	b.closers = append(b.closers, func() {
		if err := rc.Close(); err != nil {
			log.Printf("cache: close redis: %v", err)
		}
	})
	b.cache = rc
	return nil
}
