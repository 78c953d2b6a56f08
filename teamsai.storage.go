package teamsai

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// StoreItem is one persisted state scope.
type StoreItem map[string]any

// Storage persists turn state items by key.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Read returns the items found for keys. Missing keys are absent from
	// the result rather than an error.
	Read(ctx context.Context, keys []string) (map[string]StoreItem, error)

	// Write stores every item in changes, replacing existing items.
	Write(ctx context.Context, changes map[string]StoreItem) error

	// Delete removes keys. Missing keys are ignored.
	Delete(ctx context.Context, keys []string) error

	// Close releases resources held by the storage.
	// After Close, the storage should not be used.
	Close() error
}

// StorageDriver is a factory for creating storage instances.
// Drivers register themselves during init().
type StorageDriver interface {
	// Open creates a new storage instance with the given connection string.
	// The format of the connection string is driver-specific.
	Open(connectionString string) (Storage, error)
}

// Storage driver registry
var (
	storageDriversMu sync.RWMutex
	storageDrivers   = make(map[string]StorageDriver)
)

// RegisterStorageDriver registers a storage driver by name.
// This is typically called from a driver's init() function.
// Panics if a driver with the same name is already registered.
func RegisterStorageDriver(name string, driver StorageDriver) {
	storageDriversMu.Lock()
	defer storageDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgNilStorageDriver)
	}
	if _, exists := storageDrivers[name]; exists {
		panic(ErrMsgDriverAlreadyRegistered + ": " + name)
	}
	storageDrivers[name] = driver
}

// OpenStorage opens a storage connection using the named driver.
// The connection string format is driver-specific.
//
// Example:
//
//	storage, err := teamsai.OpenStorage("memory", "")
//	storage, err := teamsai.OpenStorage("redis", "redis://localhost:6379/0")
//	storage, err := teamsai.OpenStorage("postgres", "postgres://localhost/bot?sslmode=disable")
func OpenStorage(driverName, connectionString string) (Storage, error) {
	storageDriversMu.RLock()
	driver, ok := storageDrivers[driverName]
	storageDriversMu.RUnlock()

	if !ok {
		return nil, NewStorageDriverNotFoundError(driverName)
	}

	return driver.Open(connectionString)
}

// ListStorageDrivers returns the names of all registered storage drivers.
func ListStorageDrivers() []string {
	storageDriversMu.RLock()
	defer storageDriversMu.RUnlock()

	names := make([]string, 0, len(storageDrivers))
	for name := range storageDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Storage error message constants
const (
	ErrMsgNilStorageDriver        = "storage driver is nil"
	ErrMsgDriverAlreadyRegistered = "storage driver already registered"
	ErrMsgStorageDriverNotFound   = "storage driver not found"
	ErrMsgStorageClosed           = "storage is closed"
	ErrMsgStorageEmptyKey         = "storage key cannot be empty"
	ErrMsgStorageMarshalFailed    = "failed to marshal state item"
	ErrMsgStorageUnmarshalFailed  = "failed to unmarshal state item"

	ErrMsgPostgresConnectionFailed  = "failed to connect to PostgreSQL"
	ErrMsgPostgresQueryFailed       = "PostgreSQL query failed"
	ErrMsgPostgresTransactionFailed = "PostgreSQL transaction failed"
	ErrMsgPostgresMigrationFailed   = "PostgreSQL migration failed"
	ErrMsgPostgresEmptyConnString   = "PostgreSQL connection string is empty"
	ErrMsgPostgresAlreadyClosed     = "PostgreSQL storage is already closed"

	ErrMsgRedisInvalidURL       = "invalid Redis URL"
	ErrMsgRedisConnectionFailed = "failed to connect to Redis"
	ErrMsgRedisCommandFailed    = "Redis command failed"
)

// NewStorageDriverNotFoundError creates an error for missing storage driver.
func NewStorageDriverNotFoundError(name string) error {
	return &StorageError{
		Message: ErrMsgStorageDriverNotFound,
		Key:     name,
	}
}

// NewStorageClosedError creates an error for operations on closed storage.
func NewStorageClosedError() error {
	return &StorageError{
		Message: ErrMsgStorageClosed,
	}
}

// StorageError represents a storage-related error.
type StorageError struct {
	Message string
	Key     string
	Cause   error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Key != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Key)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// validateKeys rejects empty storage keys.
func validateKeys(keys []string) error {
	for _, k := range keys {
		if k == "" {
			return &StorageError{Message: ErrMsgStorageEmptyKey}
		}
	}
	return nil
}
