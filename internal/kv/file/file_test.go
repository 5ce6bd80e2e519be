package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletbook/internal/kv"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s, err := New(dir)
	require.NoError(t, err)

	_, err = s.Get(ctx, "budget")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, s.Set(ctx, "budget", []byte(`{"id":"b1"}`)))
	require.NoError(t, s.Set(ctx, "budget", []byte(`{"id":"b2"}`)))

	got, err := s.Get(ctx, "budget")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"b2"}`, string(got))

	onDisk, err := os.ReadFile(filepath.Join(dir, "budget.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"id":"b2"}`, string(onDisk))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should not be left behind")
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, s.Set(context.Background(), "../escape", []byte("x")))
	_, err = s.Get(context.Background(), "a/b")
	assert.Error(t, err)
}
