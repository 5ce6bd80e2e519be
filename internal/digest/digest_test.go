package digest_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletbook/internal/core"
	"walletbook/internal/digest"
	"walletbook/internal/kv/memory"
	"walletbook/internal/ledger"
	"walletbook/internal/log"
)

var testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func seededStore(t *testing.T) *ledger.Store {
	t.Helper()
	n := 0
	return ledger.Open(context.Background(), memory.New(),
		ledger.WithLogger(log.Discard()),
		ledger.WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
		ledger.WithClock(func() time.Time { return testNow }),
	)
}

func categoryID(t *testing.T, s *ledger.Store, name string) string {
	t.Helper()
	for _, c := range s.Categories() {
		if c.Name == name {
			return c.ID
		}
	}
	t.Fatalf("no category %q", name)
	return ""
}

func TestRunFlagsHighAndCritical(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	require.True(t, s.UpdateCategoryBudget(ctx, categoryID(t, s, "Food"), core.NewMoney(45, 0)))
	require.True(t, s.UpdateCategoryBudget(ctx, categoryID(t, s, "Medical"), core.NewMoney(30, 0)))

	var buf bytes.Buffer
	logger := log.New(log.Config{Format: "json", Output: &buf})

	status := digest.New(s, logger).Run(ctx)
	flagged := digest.Flagged(status)
	require.Len(t, flagged, 2)
	assert.Equal(t, "Food", flagged[0].Category.Name)
	assert.Equal(t, core.AlertCritical, flagged[0].Level)
	assert.Equal(t, "Medical", flagged[1].Category.Name)
	assert.Equal(t, core.AlertHigh, flagged[1].Level)

	out := buf.String()
	assert.Contains(t, out, `"msg":"Category budget nearly exhausted"`)
	assert.Contains(t, out, `"msg":"Budget digest"`)
	assert.Contains(t, out, `"component":"digest"`)
	assert.Contains(t, out, `"flagged":2`)
}

func TestRunWithNothingFlagged(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Format: "json", Output: &buf})

	status := digest.New(seededStore(t), logger).Run(context.Background())
	assert.Empty(t, digest.Flagged(status))
	assert.Equal(t, "2025-03", status.Month)
	assert.NotContains(t, buf.String(), "nearly exhausted")
	assert.Contains(t, buf.String(), `"flagged":0`)
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	d := digest.New(seededStore(t), log.Discard())
	assert.Error(t, d.Start("every morning"))
	d.Stop()
}

func TestStartTwice(t *testing.T) {
	d := digest.New(seededStore(t), nil)
	require.NoError(t, d.Start("0 9 * * *"))
	defer d.Stop()
	assert.Error(t, d.Start("0 9 * * *"))
}
