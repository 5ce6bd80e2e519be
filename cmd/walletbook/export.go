package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"walletbook/internal/cli"
	"walletbook/internal/report"
)

func (a *app) exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every expense as CSV",
		Long:  `Export every expense, newest first, as CSV to stdout or to --output.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			l, err := cli.OpenLedger(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer l.Close()

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = fmt.Errorf("close %s: %w", output, cerr)
					}
				}()
				w = f
			}

			if err := report.WriteCSV(w, l.Store); err != nil {
				return fmt.Errorf("write csv: %w", err)
			}
			if output != "" {
				a.logger.Info("Exported expenses", "path", output, "count", len(l.Store.Expenses()))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}
