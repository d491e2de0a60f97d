// Package app assembles the storefront from configuration. Both the HTTP
// API and the terminal client start from New.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrUnknownStorageDriver = errors.New("unknown storage driver")

type App struct {
	Config     *config.Config
	Storefront service.StorefrontService
	Records    repository.RecordRepository

	// Redis is set when carts live in redis or REDIS_ENABLED is true
	Redis *redis.Client
	// DB is set for the postgres driver
	DB *sql.DB

	logger *zap.Logger
}

// New opens storage and builds the storefront service
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, logger: logger}

	if cfg.Storage.Driver == config.StorageRedis || cfg.Redis.Enabled {
		client, err := connectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.Redis = client
	}

	records, err := a.openRecords(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Records = records

	client := catalog.NewHTTPClient(cfg.Shop.Timeout)

	var source catalog.Source = catalog.NewHTTPSource(cfg.Shop.BaseURL, client)
	if cfg.Shop.CatalogFile != "" {
		source = catalog.NewFileSource(cfg.Shop.CatalogFile)
	}

	a.Storefront = service.NewStorefrontService(
		catalog.NewStore(source, logger),
		cart.NewManager(records, logger),
		checkout.NewSubmitter(cfg.Shop.BaseURL, client, logger),
		logger,
	)

	logger.Info("Storefront ready",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("catalog", source.String()),
		zap.Bool("redis", a.Redis != nil),
	)

	return a, nil
}

func (a *App) openRecords(ctx context.Context) (repository.RecordRepository, error) {
	switch a.Config.Storage.Driver {
	case config.StorageMemory:
		return repository.NewMemoryRecordRepository(), nil

	case config.StorageBolt:
		return repository.NewBoltRecordRepository(a.Config.Storage.BoltPath)

	case config.StorageRedis:
		return repository.NewRedisRecordRepository(a.Redis, a.Config.Redis.KeyPrefix), nil

	case config.StoragePostgres:
		db, err := database.Open(ctx, a.Config.Database)
		if err != nil {
			return nil, err
		}
		a.logger.Info("Database health check", zap.Any("health", database.Health(ctx, db)))

		if err := database.RunMigrations(db, a.logger); err != nil {
			db.Close()
			return nil, err
		}
		if version, err := database.MigrationVersion(db); err == nil {
			a.logger.Info("Database schema version", zap.Int64("version", version))
		}
		a.DB = db
		return repository.NewPostgresRecordRepository(db), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorageDriver, a.Config.Storage.Driver)
	}
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// Close releases storage. The record repository owns the redis client or
// database handle it was built on.
func (a *App) Close() error {
	var errs []error

	if a.Records != nil {
		if err := a.Records.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close records: %w", err))
		}
	}

	if a.Redis != nil && (a.Records == nil || a.Config.Storage.Driver != config.StorageRedis) {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}

	return errors.Join(errs...)
}
