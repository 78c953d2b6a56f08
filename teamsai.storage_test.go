package teamsai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storageContract runs the behavior every Storage implementation shares.
func storageContract(t *testing.T, storage Storage) {
	t.Helper()
	ctx := context.Background()

	t.Run("ReadMissing", func(t *testing.T) {
		items, err := storage.Read(ctx, []string{"missing/key"})
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("WriteRead", func(t *testing.T) {
		err := storage.Write(ctx, map[string]StoreItem{
			"msteams/bot/conversations/c1": {"topic": "billing", "count": 2},
			"msteams/bot/users/u1":         {"name": "ann", "tags": []any{"a", "b"}},
		})
		require.NoError(t, err)

		items, err := storage.Read(ctx, []string{"msteams/bot/conversations/c1", "msteams/bot/users/u1", "other"})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "billing", items["msteams/bot/conversations/c1"]["topic"])
		assert.Equal(t, float64(2), items["msteams/bot/conversations/c1"]["count"])
		assert.Equal(t, []any{"a", "b"}, items["msteams/bot/users/u1"]["tags"])
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, storage.Write(ctx, map[string]StoreItem{"k": {"v": "1"}}))
		require.NoError(t, storage.Write(ctx, map[string]StoreItem{"k": {"w": "2"}}))

		items, err := storage.Read(ctx, []string{"k"})
		require.NoError(t, err)
		assert.Equal(t, StoreItem{"w": "2"}, items["k"])
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, storage.Write(ctx, map[string]StoreItem{"gone": {"v": true}}))
		require.NoError(t, storage.Delete(ctx, []string{"gone", "never-existed"}))

		items, err := storage.Read(ctx, []string{"gone"})
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("EmptyKey", func(t *testing.T) {
		_, err := storage.Read(ctx, []string{""})
		require.Error(t, err)
		err = storage.Write(ctx, map[string]StoreItem{"": {}})
		require.Error(t, err)
	})

	t.Run("ReadIsolation", func(t *testing.T) {
		require.NoError(t, storage.Write(ctx, map[string]StoreItem{"iso": {"v": "1"}}))
		items, err := storage.Read(ctx, []string{"iso"})
		require.NoError(t, err)
		items["iso"]["v"] = "mutated"

		again, err := storage.Read(ctx, []string{"iso"})
		require.NoError(t, err)
		assert.Equal(t, "1", again["iso"]["v"])
	})
}

func TestMemoryStorage_Contract(t *testing.T) {
	storage := NewMemoryStorage()
	defer storage.Close()
	storageContract(t, storage)
}

func TestMemoryStorage_Closed(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Close())
	ctx := context.Background()

	_, err := storage.Read(ctx, []string{"k"})
	assert.Contains(t, err.Error(), ErrMsgStorageClosed)
	assert.Error(t, storage.Write(ctx, map[string]StoreItem{"k": {}}))
	assert.Error(t, storage.Delete(ctx, []string{"k"}))
}

func TestMemoryStorage_CancelledContext(t *testing.T) {
	storage := NewMemoryStorage()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := storage.Read(ctx, []string{"k"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStorage_UnencodableItem(t *testing.T) {
	storage := NewMemoryStorage()

	err := storage.Write(context.Background(), map[string]StoreItem{"k": {"ch": make(chan int)}})
	require.Error(t, err)
	var storageErr *StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, ErrMsgStorageMarshalFailed, storageErr.Message)
	assert.Equal(t, 0, storage.Len())
}

func TestStorageDrivers(t *testing.T) {
	drivers := ListStorageDrivers()
	assert.Contains(t, drivers, StorageDriverNameMemory)
	assert.Contains(t, drivers, StorageDriverNamePostgres)
	assert.Contains(t, drivers, StorageDriverNameRedis)

	storage, err := OpenStorage(StorageDriverNameMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStorage{}, storage)

	_, err = OpenStorage("nope", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgStorageDriverNotFound)
}

func TestRegisterStorageDriver_Panics(t *testing.T) {
	assert.Panics(t, func() { RegisterStorageDriver(StorageDriverNameMemory, &MemoryStorageDriver{}) })
	assert.Panics(t, func() { RegisterStorageDriver("nil-driver", nil) })
}

func TestStorageError(t *testing.T) {
	cause := errors.New("io")
	err := &StorageError{Message: ErrMsgPostgresQueryFailed, Key: "k", Cause: cause}

	assert.Equal(t, ErrMsgPostgresQueryFailed+": k: io", err.Error())
	assert.ErrorIs(t, err, cause)
}
