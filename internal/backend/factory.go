package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go"

	"walletbook/internal/cache"
	"walletbook/internal/kv"
	"walletbook/internal/kv/file"
	"walletbook/internal/kv/memory"
	"walletbook/internal/kv/mongo"
	"walletbook/internal/kv/postgres"
	"walletbook/internal/kv/sqlite"
	"walletbook/internal/log"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		result *BackendResult
		err    error
	)
	switch config.Type {
	case SQLiteBackend:
		result, err = f.createSQLiteBackend(config)
	case FileBackend:
		result, err = f.createFileBackend(config)
	case MemoryBackend:
		result, err = f.createMemoryBackend()
	case PostgresBackend:
		result, err = f.createPostgresBackend(ctx, config)
	case MongoBackend:
		result, err = f.createMongoBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if config.CacheSize > 0 {
		result = f.withCache(result, config)
	}
	return result, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	store, err := sqlite.Open(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{Store: store, Cleanup: store.Close}, nil
}

func (f *DefaultFactory) createFileBackend(config Config) (*BackendResult, error) {
	store, err := file.New(config.DataDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file store: %w", err)
	}

	f.logger.Info("Initialized file backend", "data_directory", config.DataDirectory)

	return &BackendResult{Store: store, Cleanup: nil}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	f.logger.Warn("Initialized memory backend, ledger changes will not survive a restart")

	return &BackendResult{Store: memory.New(), Cleanup: nil}, nil
}

func (f *DefaultFactory) createPostgresBackend(ctx context.Context, config Config) (*BackendResult, error) {
	var store *postgres.Store
	err := f.connectWithRetry(ctx, config, PostgresBackend, func() (err error) {
		store, err = postgres.Open(ctx, postgres.Config{URL: config.PostgresURL})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Postgres store: %w", err)
	}

	f.logger.Info("Initialized Postgres backend")

	return &BackendResult{Store: store, Cleanup: store.Close}, nil
}

func (f *DefaultFactory) createMongoBackend(ctx context.Context, config Config) (*BackendResult, error) {
	var store *mongo.Store
	err := f.connectWithRetry(ctx, config, MongoBackend, func() (err error) {
		store, err = mongo.Open(ctx, mongo.Config{
			URI:        config.MongoURI,
			Database:   config.MongoDatabase,
			Collection: config.MongoCollection,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MongoDB store: %w", err)
	}

	f.logger.Info("Initialized MongoDB backend",
		"database", config.MongoDatabase,
		"collection", config.MongoCollection)

	return &BackendResult{Store: store, Cleanup: store.Close}, nil
}

// connectWithRetry runs open until it succeeds, the attempts run out or ctx
// is done. Only the last error is returned.
func (f *DefaultFactory) connectWithRetry(ctx context.Context, config Config, backend BackendType, open func() error) error {
	attempts := config.ConnectAttempts
	if attempts == 0 {
		attempts = 3
	}
	delay := config.ConnectRetryDelay
	if delay <= 0 {
		delay = 2 * time.Second
	}

	return retry.Do(
		open,
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			f.logger.WarnContext(ctx, "Backend connection failed, retrying",
				log.FieldBackend, backend,
				"attempt", n+1,
				log.FieldError, err)
		}),
	)
}

// withCache puts an LRU in front of the store and runs a janitor that
// evicts expired entries until cleanup.
func (f *DefaultFactory) withCache(result *BackendResult, config Config) *BackendResult {
	lru := cache.NewLRUCache[[]byte](config.CacheSize, config.CacheTTL)
	janitor := cache.NewJanitor(f.logger)
	janitor.Register(lru)
	janitor.Start(janitorInterval(config.CacheTTL))

	f.logger.Info("Enabled read cache", "size", config.CacheSize, "ttl", config.CacheTTL)

	next := result.Cleanup
	return &BackendResult{
		Store: kv.NewCached(result.Store, lru),
		Cleanup: func() error {
			janitor.Stop()
			if next != nil {
				return next()
			}
			return nil
		},
	}
}

func janitorInterval(ttl time.Duration) time.Duration {
	if interval := ttl / 2; interval >= time.Second {
		return interval
	}
	return time.Second
}
