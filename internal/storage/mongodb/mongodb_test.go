package mongodb_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sorting-waste-app/services/internal/config"
	"github.com/sorting-waste-app/services/internal/storage"
	"github.com/sorting-waste-app/services/internal/storage/mongodb"
	"github.com/sorting-waste-app/services/internal/storage/storagetest"
)

// These tests need a running server, e.g.
//
//	MONGO_URI=mongodb://localhost:27017 go test ./internal/storage/mongodb
//
// Each test gets its own database, dropped afterwards.
func newStore(t *testing.T) storage.Store {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	ctx := context.Background()
	cfg := config.Storage{
		Driver:           config.DriverMongo,
		URI:              uri,
		Database:         "sorting-waste-test-" + uuid.NewString()[:8],
		ConnectTimeout:   5 * time.Second,
		OperationTimeout: 30 * time.Second,
	}

	s, err := mongodb.New(ctx, cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err == nil {
			_ = client.Database(cfg.Database).Drop(ctx)
			_ = client.Disconnect(ctx)
		}
		_ = s.Close(ctx)
	})
	return s
}

func TestMongoDB(t *testing.T) {
	storagetest.Run(t, newStore)
}
