package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
)

// DigestOff disables the scheduled budget digest.
const DigestOff = "off"

// Backend names accepted by DATA_BACKEND.
const (
	BackendSQLite   = "sqlite"
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

var validBackends = []string{BackendSQLite, BackendFile, BackendMemory, BackendPostgres, BackendMongo}

type Config struct {
	// HTTP Server
	Port            string        `koanf:"PORT"`
	ShutdownTimeout time.Duration `koanf:"SHUTDOWN_TIMEOUT"`
	RateLimit       int           `koanf:"RATE_LIMIT"`

	// Storage
	DataBackend     string `koanf:"DATA_BACKEND"`
	SQLiteDBPath    string `koanf:"SQLITE_DB_PATH"`
	DataDir         string `koanf:"DATA_DIR"`
	PostgresURL     string `koanf:"POSTGRES_URL"`
	MongoURI        string `koanf:"MONGO_URI"`
	MongoDatabase   string `koanf:"MONGO_DATABASE"`
	MongoCollection string `koanf:"MONGO_COLLECTION"`

	// Read cache in front of the backend; size 0 disables it.
	CacheSize int           `koanf:"CACHE_SIZE"`
	CacheTTL  time.Duration `koanf:"CACHE_TTL"`

	// AMQP change notifications; an empty URL disables them.
	AMQPURL      string `koanf:"AMQP_URL"`
	AMQPExchange string `koanf:"AMQP_EXCHANGE"`
	AMQPQueue    string `koanf:"AMQP_QUEUE"`

	// Budget digest cron spec (5 fields); "off" disables it.
	DigestSchedule string `koanf:"DIGEST_SCHEDULE"`

	// Logging
	LogLevel  string `koanf:"LOG_LEVEL"`
	LogFormat string `koanf:"LOG_FORMAT"`
}

// Defaults returns the configuration used for any unset variable.
func Defaults() Config {
	return Config{
		Port:            "8081",
		ShutdownTimeout: 30 * time.Second,
		RateLimit:       60,
		DataBackend:     BackendSQLite,
		SQLiteDBPath:    "./data/walletbook.db",
		DataDir:         "./data",
		MongoDatabase:   "walletbook",
		MongoCollection: "ledger",
		CacheTTL:        5 * time.Minute,
		AMQPExchange:    "walletbook",
		AMQPQueue:       "ledger_changes",
		DigestSchedule:  "0 9 * * *",
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load reads the configuration from the environment. Variables that are
// unset or empty keep their default.
func Load() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", nil), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	for _, key := range k.Keys() {
		if strings.TrimSpace(k.String(key)) == "" {
			k.Delete(key)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.applyDefaults(Defaults())
	return &cfg, nil
}

func (c *Config) applyDefaults(d Config) {
	setString := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	setString(&c.Port, d.Port)
	setString(&c.DataBackend, d.DataBackend)
	setString(&c.SQLiteDBPath, d.SQLiteDBPath)
	setString(&c.DataDir, d.DataDir)
	setString(&c.MongoDatabase, d.MongoDatabase)
	setString(&c.MongoCollection, d.MongoCollection)
	setString(&c.AMQPExchange, d.AMQPExchange)
	setString(&c.AMQPQueue, d.AMQPQueue)
	setString(&c.DigestSchedule, d.DigestSchedule)
	setString(&c.LogLevel, d.LogLevel)
	setString(&c.LogFormat, d.LogFormat)
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = d.CacheTTL
	}
	if c.RateLimit == 0 {
		c.RateLimit = d.RateLimit
	}
}

// CacheEnabled reports whether a read cache should wrap the backend.
func (c *Config) CacheEnabled() bool {
	return c.CacheSize > 0
}

// AMQPEnabled reports whether ledger changes should be published.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// DigestEnabled reports whether the budget digest should be scheduled.
func (c *Config) DigestEnabled() bool {
	return !strings.EqualFold(strings.TrimSpace(c.DigestSchedule), DigestOff)
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}

	if c.RateLimit < 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must not be negative", c.RateLimit))
	}

	// Validate data backend
	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			// Check if directory exists or can be created
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	case BackendFile:
		if c.DataDir == "" {
			errors = append(errors, "data directory cannot be empty when using file backend")
		}
	case BackendPostgres:
		if c.PostgresURL == "" {
			errors = append(errors, "POSTGRES_URL is required when using postgres backend")
		} else if u, err := url.Parse(c.PostgresURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid Postgres URL: %v", err))
		} else if u.Scheme != "postgres" && u.Scheme != "postgresql" {
			errors = append(errors, fmt.Sprintf("invalid Postgres URL scheme '%s': must be 'postgres' or 'postgresql'", u.Scheme))
		}
	case BackendMongo:
		if c.MongoURI == "" {
			errors = append(errors, "MONGO_URI is required when using mongo backend")
		} else if u, err := url.Parse(c.MongoURI); err != nil {
			errors = append(errors, fmt.Sprintf("invalid MongoDB URI: %v", err))
		} else if u.Scheme != "mongodb" && u.Scheme != "mongodb+srv" {
			errors = append(errors, fmt.Sprintf("invalid MongoDB URI scheme '%s': must be 'mongodb' or 'mongodb+srv'", u.Scheme))
		}
		if c.MongoDatabase == "" || c.MongoCollection == "" {
			errors = append(errors, "MongoDB database and collection names cannot be empty")
		}
	}

	// Validate cache
	if c.CacheSize < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must not be negative", c.CacheSize))
	} else if c.CacheSize > 0 && c.CacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be positive when the cache is enabled", c.CacheTTL))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.DigestEnabled() {
		if _, err := cron.ParseStandard(c.DigestSchedule); err != nil {
			errors = append(errors, fmt.Sprintf("invalid digest schedule '%s': %v", c.DigestSchedule, err))
		}
	}

	// Validate logging
	if !slices.Contains([]string{"debug", "info", "warn", "warning", "error"}, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}
