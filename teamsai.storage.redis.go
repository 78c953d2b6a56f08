package teamsai

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage implements Storage on Redis. Items are stored as JSON
// strings under "<prefix>:<key>" with an optional TTL.
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
	prefix string

	mu     sync.RWMutex
	closed bool
}

// RedisOption configures a RedisStorage.
type RedisOption func(*RedisStorage)

// WithRedisTTL sets the time-to-live of stored items.
// Default is 24 hours. Set to 0 for no expiration.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStorage) {
		s.ttl = ttl
	}
}

// WithRedisPrefix sets the key prefix.
// Default is "teamsai".
func WithRedisPrefix(prefix string) RedisOption {
	return func(s *RedisStorage) {
		s.prefix = prefix
	}
}

// RedisStorageDriver is the driver for creating RedisStorage instances.
type RedisStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameRedis, &RedisStorageDriver{})
}

// Open creates a RedisStorage from a redis:// URL and verifies the connection.
func (d *RedisStorageDriver) Open(connectionString string) (Storage, error) {
	opts, err := redis.ParseURL(connectionString)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgRedisInvalidURL, Cause: err}
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), RedisDefaultPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, &StorageError{Message: ErrMsgRedisConnectionFailed, Cause: err}
	}
	return NewRedisStorage(client), nil
}

// NewRedisStorage wraps an existing client. The storage owns the client and
// closes it on Close.
//
// Example:
//
//	storage := NewRedisStorage(
//	    redis.NewClient(&redis.Options{Addr: "localhost:6379"}),
//	    WithRedisTTL(time.Hour),
//	    WithRedisPrefix("mybot"),
//	)
func NewRedisStorage(client *redis.Client, opts ...RedisOption) *RedisStorage {
	s := &RedisStorage{
		client: client,
		ttl:    RedisDefaultTTL,
		prefix: RedisDefaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStorage) redisKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + RedisKeySeparator + key
}

// Read returns the stored items for keys with a single MGET.
func (s *RedisStorage) Read(ctx context.Context, keys []string) (map[string]StoreItem, error) {
	if err := validateKeys(keys); err != nil {
		return nil, err
	}
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	result := make(map[string]StoreItem, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	redisKeys := make([]string, len(keys))
	for i, k := range keys {
		redisKeys[i] = s.redisKey(k)
	}

	values, err := s.client.MGet(ctx, redisKeys...).Result()
	if err != nil {
		return nil, &StorageError{Message: ErrMsgRedisCommandFailed, Cause: err}
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue // nil: missing key
		}
		item, err := decodeStoreItem(keys[i], []byte(raw))
		if err != nil {
			return nil, err
		}
		result[keys[i]] = item
	}
	return result, nil
}

// Write stores changes in one pipeline.
func (s *RedisStorage) Write(ctx context.Context, changes map[string]StoreItem) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if len(changes) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for key, item := range changes {
		if key == "" {
			return &StorageError{Message: ErrMsgStorageEmptyKey}
		}
		data, err := encodeStoreItem(key, item)
		if err != nil {
			return err
		}
		pipe.Set(ctx, s.redisKey(key), data, s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return &StorageError{Message: ErrMsgRedisCommandFailed, Cause: err}
	}
	return nil
}

// Delete removes keys.
func (s *RedisStorage) Delete(ctx context.Context, keys []string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	redisKeys := make([]string, len(keys))
	for i, k := range keys {
		redisKeys[i] = s.redisKey(k)
	}
	if err := s.client.Del(ctx, redisKeys...).Err(); err != nil {
		return &StorageError{Message: ErrMsgRedisCommandFailed, Cause: err}
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}
	s.closed = true
	return s.client.Close()
}

func (s *RedisStorage) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return NewStorageClosedError()
	}
	return nil
}
