package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"walletbook/internal/cli"
	"walletbook/internal/core"
	"walletbook/internal/report"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	levelStyles = map[core.AlertLevel]lipgloss.Style{
		core.AlertNormal:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		core.AlertMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		core.AlertHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		core.AlertCritical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
)

type summaryOutput struct {
	Wallet report.WalletSummary `json:"wallet"`
	Status report.Status        `json:"status"`
}

func (a *app) summaryCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the wallet balance and per-category budget status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := cli.OpenLedger(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer l.Close()

			out := summaryOutput{
				Wallet: report.Wallet(l.Store),
				Status: report.BudgetStatus(l.Store),
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			return printSummary(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func printSummary(w io.Writer, s summaryOutput) error {
	wallet := s.Wallet
	track := levelStyles[core.AlertNormal].Render("on track")
	if !wallet.OnTrack {
		track = levelStyles[core.AlertCritical].Render("over budget")
	}

	fmt.Fprintln(w, headerStyle.Render("Wallet "+wallet.Month))
	fmt.Fprintf(w, "  Balance  %s\n", wallet.Balance)
	fmt.Fprintf(w, "  Spent    %s of %s (%d%%)\n", wallet.Spent, wallet.Total, wallet.PercentSpent)
	fmt.Fprintf(w, "  Status   %s\n\n", track)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("Category"),
		headerStyle.Render("Budget"),
		headerStyle.Render("Spent"),
		headerStyle.Render("Used"),
		headerStyle.Render("Level"))
	for _, c := range s.Status.Categories {
		name := c.Category.Icon + " " + c.Category.Name
		used := fmt.Sprintf("%d%%", c.Percent)
		if c.Budgeted.IsZero() {
			used = mutedStyle.Render("-")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			name, c.Budgeted, c.Spent, used, levelStyles[c.Level].Render(string(c.Level)))
	}
	return tw.Flush()
}
