package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletbook/internal/kv"
)

func TestOpenRejectsBadURL(t *testing.T) {
	_, err := Open(context.Background(), Config{URL: "postgres://%zz"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing connection string")
}

func TestPostgresStoreIntegration(t *testing.T) {
	url := os.Getenv("WALLETBOOK_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("WALLETBOOK_TEST_POSTGRES_URL not set, skipping integration test")
	}
	ctx := context.Background()

	s, err := Open(ctx, Config{URL: url})
	require.NoError(t, err)
	defer s.Close()

	key := "test_" + t.Name()
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, s.Set(ctx, key, []byte(`{"a":1}`)))
	require.NoError(t, s.Set(ctx, key, []byte(`{"a":2}`)))

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(got))

	_, err = s.pool.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, key)
	require.NoError(t, err)
}
