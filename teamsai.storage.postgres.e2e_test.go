//go:build integration

package teamsai

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresContainer creates an ephemeral PostgreSQL container for testing.
func setupPostgresContainer(t *testing.T) (*PostgresStorage, string, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15",
		postgres.WithDatabase("teamsai_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	storage, err := NewPostgresStorage(PostgresConfig{
		ConnectionString: connStr,
		AutoMigrate:      true,
		QueryTimeout:     30 * time.Second,
	})
	require.NoError(t, err, "failed to create postgres storage")

	cleanup := func() {
		if storage != nil {
			_ = storage.Close()
		}
		if container != nil {
			_ = container.Terminate(ctx)
		}
	}

	return storage, connStr, cleanup
}

func TestPostgres_E2E_Contract(t *testing.T) {
	storage, _, cleanup := setupPostgresContainer(t)
	defer cleanup()

	storageContract(t, storage)
}

func TestPostgres_E2E_Migrations(t *testing.T) {
	storage, connStr, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	version, err := storage.CurrentSchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	// Re-running is a no-op
	require.NoError(t, storage.RunMigrations(ctx))

	// Opening through the driver registry migrates the same database again
	again, err := OpenStorage(StorageDriverNamePostgres, connStr)
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestPostgres_E2E_TurnState(t *testing.T) {
	storage, _, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	manager := NewTurnStateManager(storage, nil)
	turn := NewTurnContext(NewMessageActivity("msteams", "conv-1", "user-1", "hi"))

	state, err := manager.LoadState(ctx, turn)
	require.NoError(t, err)
	require.NoError(t, state.Set("conversation.count", 1))
	require.NoError(t, manager.SaveState(ctx, turn, state))

	reloaded, err := manager.LoadState(ctx, turn)
	require.NoError(t, err)
	count, ok := reloaded.Get("conversation.count")
	require.True(t, ok)
	assert.Equal(t, float64(1), count)
}

func TestPostgres_E2E_ConcurrentWrites(t *testing.T) {
	storage, _, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i)
			assert.NoError(t, storage.Write(ctx, map[string]StoreItem{key: {"i": i}}))
		}(i)
	}
	wg.Wait()

	keys := make([]string, 10)
	for i := range keys {
		keys[i] = fmt.Sprintf("k%d", i)
	}
	items, err := storage.Read(ctx, keys)
	require.NoError(t, err)
	assert.Len(t, items, 10)
}

func TestPostgres_E2E_Closed(t *testing.T) {
	storage, _, cleanup := setupPostgresContainer(t)
	defer cleanup()

	require.NoError(t, storage.Close())
	_, err := storage.Read(context.Background(), []string{"k"})
	assert.Contains(t, err.Error(), ErrMsgStorageClosed)
	assert.Contains(t, storage.Close().Error(), ErrMsgPostgresAlreadyClosed)
}
