package teamsai

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// BlockCache caches extracted block sequences by template text so that
// repeatedly rendered prompts are tokenized and validated once.
// Concurrent extractions of the same text share one call. Failed
// extractions are not cached.
type BlockCache struct {
	mu        sync.RWMutex
	entries   map[string]*blockCacheEntry
	config    BlockCacheConfig
	stats     BlockCacheStats
	evictList *list.List // keys in insertion order for FIFO eviction
	group     singleflight.Group
	logger    *zap.Logger
}

type blockCacheEntry struct {
	blocks    []Block
	expiresAt time.Time
	element   *list.Element
}

// BlockCacheConfig configures the block cache.
type BlockCacheConfig struct {
	// TTL is how long an entry is kept. Default: 10 minutes.
	TTL time.Duration

	// MaxEntries is the maximum number of cached templates. Default: 512.
	MaxEntries int

	// Logger receives hit/miss debug logs. Default: no logging.
	Logger *zap.Logger
}

// BlockCacheStats tracks cache performance.
type BlockCacheStats struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	EntryCount int
}

// DefaultBlockCacheConfig returns the default cache configuration.
func DefaultBlockCacheConfig() BlockCacheConfig {
	return BlockCacheConfig{
		TTL:        BlockCacheDefaultTTL,
		MaxEntries: BlockCacheDefaultMaxEntries,
	}
}

// NewBlockCache creates a block cache. Zero config fields take their defaults.
func NewBlockCache(config BlockCacheConfig) *BlockCache {
	if config.TTL <= 0 {
		config.TTL = BlockCacheDefaultTTL
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = BlockCacheDefaultMaxEntries
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &BlockCache{
		entries:   make(map[string]*blockCacheEntry),
		config:    config,
		evictList: list.New(),
		logger:    logger,
	}
}

// Get returns a copy of the cached blocks for text.
func (c *BlockCache) Get(text string, validate bool) ([]Block, bool) {
	key := blockCacheKey(text, validate)

	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists || time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		if current, ok := c.entries[key]; ok && current == entry {
			c.removeEntry(key, entry)
		}
		c.stats.Misses++
		c.mu.Unlock()
		c.logger.Debug(LogMsgBlockCacheMiss)
		return nil, false
	}

	c.mu.Lock()
	c.stats.Hits++
	c.mu.Unlock()
	c.logger.Debug(LogMsgBlockCacheHit)

	return copyBlocks(entry.blocks), true
}

// Set stores a copy of blocks for text.
func (c *BlockCache) Set(text string, validate bool, blocks []Block) {
	key := blockCacheKey(text, validate)

	c.mu.Lock()
	defer c.mu.Unlock()

	// Entries are replaced, never mutated, so Get can read one unlocked.
	var element *list.Element
	if existing, exists := c.entries[key]; exists {
		element = existing.element
	} else {
		if len(c.entries) >= c.config.MaxEntries {
			c.evictOldest()
		}
		element = c.evictList.PushBack(key)
	}
	c.entries[key] = &blockCacheEntry{
		blocks:    copyBlocks(blocks),
		expiresAt: time.Now().Add(c.config.TTL),
		element:   element,
	}
	c.stats.EntryCount = len(c.entries)
}

// GetOrExtract returns cached blocks for text or runs extract and caches
// its result.
func (c *BlockCache) GetOrExtract(text string, validate bool, extract func() ([]Block, error)) ([]Block, error) {
	if blocks, ok := c.Get(text, validate); ok {
		return blocks, nil
	}

	key := blockCacheKey(text, validate)
	v, err, _ := c.group.Do(key, func() (any, error) {
		blocks, err := extract()
		if err != nil {
			return nil, err
		}
		c.Set(text, validate, blocks)
		return blocks, nil
	})
	if err != nil {
		return nil, err
	}
	return copyBlocks(v.([]Block)), nil
}

// Clear removes all entries.
func (c *BlockCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*blockCacheEntry)
	c.evictList.Init()
	c.stats.EntryCount = 0
}

// Stats returns current cache statistics.
func (c *BlockCache) Stats() BlockCacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// HitRate returns the cache hit rate (0.0 to 1.0).
func (c *BlockCache) HitRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.stats.Hits + c.stats.Misses
	if total == 0 {
		return 0
	}
	return float64(c.stats.Hits) / float64(total)
}

// Cleanup removes expired entries and returns how many were removed.
func (c *BlockCache) Cleanup() int {
	now := time.Now()
	removed := 0

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			c.removeEntry(key, entry)
			removed++
		}
	}
	return removed
}

// evictOldest removes the entry that was inserted first.
func (c *BlockCache) evictOldest() {
	front := c.evictList.Front()
	if front == nil {
		return
	}
	key := front.Value.(string)
	c.removeEntry(key, c.entries[key])
	c.stats.Evictions++
}

// removeEntry drops key from the map and the eviction list.
// Callers must hold c.mu.
func (c *BlockCache) removeEntry(key string, entry *blockCacheEntry) {
	if entry != nil && entry.element != nil {
		c.evictList.Remove(entry.element)
	}
	delete(c.entries, key)
	c.stats.EntryCount = len(c.entries)
}

func blockCacheKey(text string, validate bool) string {
	hash := sha256.Sum256([]byte(text))
	return strconv.FormatBool(validate) + ":" + hex.EncodeToString(hash[:])
}

func copyBlocks(blocks []Block) []Block {
	if blocks == nil {
		return nil
	}
	out := make([]Block, len(blocks))
	copy(out, blocks)
	return out
}
