package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"walletbook/internal/amqp"
	"walletbook/internal/log"
)

var errAMQPDisabled = errors.New("AMQP_URL is not set, nothing to watch")

func (a *app) watchCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print ledger change events from the message broker",
		Long: `Consume the change events a running server publishes and print one line
per event until interrupted. Requires AMQP_URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.AMQPEnabled() {
				return errAMQPDisabled
			}

			client, err := amqp.NewClient(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue, a.logger)
			if err != nil {
				return fmt.Errorf("connect to broker: %w", err)
			}
			defer client.Close()

			out := cmd.OutOrStdout()
			a.logger.Info("Watching ledger changes", "queue", a.cfg.AMQPQueue)

			err = client.ConsumeChanges(cmd.Context(), func(msg *amqp.ChangeMessage) error {
				if asJSON {
					return json.NewEncoder(out).Encode(msg)
				}
				_, err := fmt.Fprintln(out, formatChange(msg))
				return err
			})
			if errors.Is(err, context.Canceled) {
				a.logger.Info("Stopped watching", log.FieldOperation, log.OpShutdown)
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print each event as JSON")
	return cmd
}

func formatChange(msg *amqp.ChangeMessage) string {
	line := fmt.Sprintf("%s  %-6s  %-8s", msg.Timestamp.UTC().Format(time.RFC3339), msg.Op, msg.Entity)
	if msg.ID != "" {
		line += "  " + msg.ID
	}
	return line
}
