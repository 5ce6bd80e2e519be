// Package digest logs a periodic summary of the month's budget, flagging
// categories whose spending has reached the high or critical threshold.
package digest

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"walletbook/internal/core"
	"walletbook/internal/log"
	"walletbook/internal/report"
)

// Digest runs the budget summary on a cron schedule.
type Digest struct {
	src    report.Source
	logger *log.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

// New creates a digest over src. Nothing is scheduled until Start.
func New(src report.Source, logger *log.Logger) *Digest {
	if logger == nil {
		logger = log.Discard()
	}
	return &Digest{
		src:    src,
		logger: logger.WithComponent(log.ComponentDigest),
	}
}

// Flagged returns the categories at or above the high threshold, in the
// order they appear in status.
func Flagged(status report.Status) []report.CategoryStatus {
	var out []report.CategoryStatus
	for _, c := range status.Categories {
		if c.Level == core.AlertHigh || c.Level == core.AlertCritical {
			out = append(out, c)
		}
	}
	return out
}

// Run computes the budget status once and logs it.
func (d *Digest) Run(ctx context.Context) report.Status {
	status := report.BudgetStatus(d.src)
	flagged := Flagged(status)

	for _, c := range flagged {
		d.logger.WarnContext(ctx, "Category budget nearly exhausted",
			log.FieldMonth, status.Month,
			log.FieldCategoryID, c.Category.ID,
			"category", c.Category.Name,
			"level", c.Level,
			"percent", c.Percent,
			"spent", c.Spent.String(),
			"budgeted", c.Budgeted.String())
	}

	d.logger.InfoContext(ctx, "Budget digest",
		log.FieldMonth, status.Month,
		"spent", status.TotalSpent.String(),
		"budget", status.TotalBudget.String(),
		"percent", status.Percent,
		"flagged", len(flagged))

	return status
}

// Start schedules Run using a standard five-field cron expression.
func (d *Digest) Start(schedule string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cron != nil {
		return fmt.Errorf("digest already started")
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { d.Run(context.Background()) }); err != nil {
		return fmt.Errorf("schedule digest %q: %w", schedule, err)
	}
	c.Start()
	d.cron = c

	d.logger.Info("Scheduled budget digest", "schedule", schedule)
	return nil
}

// Stop cancels the schedule and waits for a running digest to finish.
func (d *Digest) Stop() {
	d.mu.Lock()
	c := d.cron
	d.cron = nil
	d.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}
