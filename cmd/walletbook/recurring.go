package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"walletbook/internal/cli"
	"walletbook/internal/report"
)

func (a *app) recurringCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recurring",
		Short: "List recurring expenses with their next expected date",
		Long: `List recurring expenses, soonest first, with the next date each is
expected to occur. Nothing is created; the list is informational.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := cli.OpenLedger(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer l.Close()

			upcoming := report.UpcomingRecurring(l.Store, l.Store.Now())
			if len(upcoming) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No recurring expenses."))
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				headerStyle.Render("Next"),
				headerStyle.Render("Description"),
				headerStyle.Render("Category"),
				headerStyle.Render("Amount"),
				headerStyle.Render("Every"))
			for _, u := range upcoming {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					u.NextDate.Format("2006-01-02"), u.Description, u.CategoryName, u.Amount, u.RecurringInterval)
			}
			return tw.Flush()
		},
	}
}
