package backend

import (
	"context"
	"time"

	"walletbook/internal/kv"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the store and a cleanup function that releases it.
type BackendResult struct {
	Store   kv.Store
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a store based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// File specific
	DataDirectory string

	// Postgres specific
	PostgresURL string

	// MongoDB specific
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// Read cache; CacheSize 0 disables it
	CacheSize int
	CacheTTL  time.Duration

	// Remote backends (postgres, mongo) retry their initial connection.
	// Zero values mean 3 attempts, 2s apart.
	ConnectAttempts   uint
	ConnectRetryDelay time.Duration
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend   BackendType = "sqlite"
	FileBackend     BackendType = "file"
	MemoryBackend   BackendType = "memory"
	PostgresBackend BackendType = "postgres"
	MongoBackend    BackendType = "mongo"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, FileBackend, MemoryBackend, PostgresBackend, MongoBackend:
		return true
	default:
		return false
	}
}
