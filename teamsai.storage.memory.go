package teamsai

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStorage is an in-memory implementation of Storage.
// It is primarily intended for testing and development.
// All data is lost when the process terminates.
//
// Items are stored as JSON so that reads return the same value types as
// the postgres and redis drivers (numbers decode as float64).
type MemoryStorage struct {
	mu     sync.RWMutex
	items  map[string][]byte
	closed bool
}

// MemoryStorageDriver is the driver for creating MemoryStorage instances.
type MemoryStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameMemory, &MemoryStorageDriver{})
}

// Open creates a new MemoryStorage instance.
// The connection string is ignored for memory storage.
func (d *MemoryStorageDriver) Open(connectionString string) (Storage, error) {
	return NewMemoryStorage(), nil
}

// NewMemoryStorage creates a new in-memory state storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		items: make(map[string][]byte),
	}
}

// Read returns the stored items for keys.
func (s *MemoryStorage) Read(ctx context.Context, keys []string) (map[string]StoreItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateKeys(keys); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	result := make(map[string]StoreItem, len(keys))
	for _, key := range keys {
		data, ok := s.items[key]
		if !ok {
			continue
		}
		item, err := decodeStoreItem(key, data)
		if err != nil {
			return nil, err
		}
		result[key] = item
	}
	return result, nil
}

// Write stores changes, replacing existing items.
func (s *MemoryStorage) Write(ctx context.Context, changes map[string]StoreItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded := make(map[string][]byte, len(changes))
	for key, item := range changes {
		if key == "" {
			return &StorageError{Message: ErrMsgStorageEmptyKey}
		}
		data, err := encodeStoreItem(key, item)
		if err != nil {
			return err
		}
		encoded[key] = data
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	for key, data := range encoded {
		s.items[key] = data
	}
	return nil
}

// Delete removes keys.
func (s *MemoryStorage) Delete(ctx context.Context, keys []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	for _, key := range keys {
		delete(s.items, key)
	}
	return nil
}

// Len returns the number of stored items.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Close releases the stored items.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.items = nil
	return nil
}

func encodeStoreItem(key string, item StoreItem) ([]byte, error) {
	if item == nil {
		item = StoreItem{}
	}
	data, err := json.Marshal(item)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgStorageMarshalFailed, Key: key, Cause: err}
	}
	return data, nil
}

func decodeStoreItem(key string, data []byte) (StoreItem, error) {
	item := StoreItem{}
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, &StorageError{Message: ErrMsgStorageUnmarshalFailed, Key: key, Cause: err}
	}
	return item, nil
}
