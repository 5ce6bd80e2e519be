package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"walletbook/internal/cli"
	"walletbook/internal/config"
	"walletbook/internal/log"
)

var version = "dev"

// app holds what every subcommand needs once flags and environment are read.
type app struct {
	cfg    *config.Config
	logger *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "walletbook",
		Short: "Personal expense ledger with monthly budgets",
		Long: `walletbook tracks expenses against per-category monthly budgets.

The ledger is kept in the storage backend selected by DATA_BACKEND and is
saved after every change. Settings come from the environment or a .env file.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}

	root.PersistentFlags().String("log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	root.AddCommand(a.serveCmd())
	root.AddCommand(a.summaryCmd())
	root.AddCommand(a.exportCmd())
	root.AddCommand(a.recurringCmd())
	root.AddCommand(a.watchCmd())
	return root
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}

	a.cfg = cfg
	a.logger = cli.SetupLogger(cfg).WithComponent(log.ComponentCLI)
	return nil
}

func main() {
	ctx, stop := cli.SignalContext(context.Background())
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
