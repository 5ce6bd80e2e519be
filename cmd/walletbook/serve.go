package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"walletbook/internal/cli"
	"walletbook/internal/digest"
	apphttp "walletbook/internal/http"
	"walletbook/internal/log"
)

func (a *app) serveCmd() *cobra.Command {
	var (
		port           string
		rateLimit      int
		trustedProxies []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger as a JSON API",
		Long: `Serve the ledger over HTTP until interrupted.

Mutating requests are rate limited per client. Ledger changes are published
to AMQP_URL when it is set. A budget digest is logged on DIGEST_SCHEDULE
unless it is "off".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port == "" {
				port = a.cfg.Port
			}
			if rateLimit <= 0 {
				rateLimit = a.cfg.RateLimit
			}
			return a.runServe(cmd.Context(), port, apphttp.Options{
				RequestsPerMinute: rateLimit,
				TrustedProxies:    trustedProxies,
			})
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default from PORT)")
	cmd.Flags().IntVar(&rateLimit, "rate-limit", 0, "mutating requests per minute per client (default from RATE_LIMIT)")
	cmd.Flags().StringSliceVar(&trustedProxies, "trusted-proxy", nil, "extra CIDR whose X-Forwarded-For is trusted (repeatable)")
	return cmd
}

func (a *app) runServe(ctx context.Context, port string, opts apphttp.Options) error {
	l, err := cli.OpenLedger(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := l.Close(); err != nil {
			a.logger.Error("Failed to release ledger resources", log.FieldError, err)
		}
	}()

	srv := apphttp.NewServer(":"+port, l.Store, a.logger, opts)

	if a.cfg.DigestEnabled() {
		d := digest.New(l.Store, a.logger)
		if err := d.Start(a.cfg.DigestSchedule); err != nil {
			return err
		}
		defer d.Stop()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("Starting walletbook server",
			"port", port,
			log.FieldBackend, a.cfg.DataBackend,
			"amqp", l.Notifier != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on port %s: %w", port, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutting down server", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	metrics := srv.Metrics()
	a.logger.Info("Server stopped gracefully",
		"requests", metrics.TotalRequests,
		"server_errors", metrics.ServerErrorRequests)
	return nil
}
