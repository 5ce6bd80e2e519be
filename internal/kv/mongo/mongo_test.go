package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"walletbook/internal/kv"
)

func TestOpenRequiresNames(t *testing.T) {
	_, err := Open(context.Background(), Config{URI: "mongodb://localhost:27017"})
	assert.Error(t, err)
}

func TestMongoStoreIntegration(t *testing.T) {
	uri := os.Getenv("WALLETBOOK_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("WALLETBOOK_TEST_MONGO_URI not set, skipping integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := Open(ctx, Config{URI: uri, Database: "walletbook_test", Collection: "kv"})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, s.Set(ctx, "budget", []byte(`{"id":"b"}`)))
	got, err := s.Get(ctx, "budget")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"b"}`, string(got))

	_, err = s.collection.DeleteOne(ctx, bson.M{"_id": "budget"})
	require.NoError(t, err)
}
