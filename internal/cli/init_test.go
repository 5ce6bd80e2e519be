package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletbook/internal/config"
	"walletbook/internal/log"
)

func TestOpenLedgerPersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	cfg := config.Defaults()
	cfg.DataBackend = config.BackendFile
	cfg.DataDir = filepath.Join(t.TempDir(), "data")

	first, err := OpenLedger(ctx, &cfg, log.Discard())
	require.NoError(t, err)
	assert.Nil(t, first.Notifier)
	categories := first.Store.Categories()
	require.Len(t, categories, 11)
	first.Store.DeleteCategory(ctx, categories[0].ID)
	require.NoError(t, first.Close())

	second, err := OpenLedger(ctx, &cfg, log.Discard())
	require.NoError(t, err)
	defer second.Close()
	assert.Len(t, second.Store.Categories(), 10)
}

func TestOpenLedgerRejectsUnknownBackend(t *testing.T) {
	cfg := config.Defaults()
	cfg.DataBackend = "sheets"

	_, err := OpenLedger(context.Background(), &cfg, log.Discard())
	assert.Error(t, err)
}

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("PORT", "9191")

	cfg, err := LoadAndValidateConfig()
	require.NoError(t, err)
	assert.Equal(t, "9191", cfg.Port)

	t.Setenv("PORT", "not-a-port")
	_, err = LoadAndValidateConfig()
	assert.ErrorContains(t, err, "invalid port")
}

func TestSetupLogger(t *testing.T) {
	cfg := config.Defaults()
	cfg.LogFormat = "json"

	logger := SetupLogger(&cfg)
	require.NotNil(t, logger)
	assert.Equal(t, log.ComponentApp, logger.Component())
	assert.NotNil(t, SetupLogger(nil))
}
