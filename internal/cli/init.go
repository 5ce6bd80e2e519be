// Package cli provides common CLI initialization utilities shared by the
// walletbook subcommands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"walletbook/internal/amqp"
	"walletbook/internal/backend"
	"walletbook/internal/config"
	"walletbook/internal/ledger"
	"walletbook/internal/log"
)

// SetupLogger builds the process logger from cfg and installs it as the
// slog default.
func SetupLogger(cfg *config.Config) *log.Logger {
	logCfg := log.DefaultConfig()
	logCfg.Output = os.Stderr
	if cfg != nil {
		logCfg.Level = log.ParseLevel(cfg.LogLevel)
		logCfg.Format = cfg.LogFormat
	}
	logger := log.New(logCfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// Ledger bundles an open ledger with the resources behind it.
type Ledger struct {
	Store    *ledger.Store
	Notifier *amqp.Client

	cleanup backend.CleanupFunc
}

// Close releases the AMQP connection and the storage backend.
func (l *Ledger) Close() error {
	var errs []error
	if l.Notifier != nil {
		errs = append(errs, l.Notifier.Close())
	}
	if l.cleanup != nil {
		errs = append(errs, l.cleanup())
	}
	return errors.Join(errs...)
}

// OpenLedger creates the configured storage backend, connects the optional
// AMQP notifier and loads the ledger. A broker that cannot be reached is
// logged and skipped.
func OpenLedger(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Ledger, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}

	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	l := &Ledger{cleanup: result.Cleanup}
	opts := []ledger.Option{ledger.WithLogger(logger)}

	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without change notifications", log.FieldError, err)
		} else {
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
			l.Notifier = client
			opts = append(opts, ledger.WithNotifier(client))
		}
	}

	l.Store = ledger.Open(ctx, result.Store, opts...)
	return l, nil
}
