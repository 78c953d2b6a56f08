package teamsai

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockCache_GetOrExtract(t *testing.T) {
	cache := NewBlockCache(DefaultBlockCacheConfig())
	var calls atomic.Int32
	extract := func() ([]Block, error) {
		calls.Add(1)
		return []Block{NewTextBlock("a"), NewVarBlock("$b")}, nil
	}

	first, err := cache.GetOrExtract("a{{$b}}", true, extract)
	require.NoError(t, err)
	second, err := cache.GetOrExtract("a{{$b}}", true, extract)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, first, second)

	// callers get their own slice
	second[0] = NewTextBlock("mutated")
	third, _ := cache.GetOrExtract("a{{$b}}", true, extract)
	assert.Equal(t, "a", third[0].Content())
}

func TestBlockCache_ValidateFlagIsPartOfKey(t *testing.T) {
	cache := NewBlockCache(DefaultBlockCacheConfig())
	cache.Set("x", true, []Block{NewTextBlock("x")})

	_, ok := cache.Get("x", false)
	assert.False(t, ok)
	_, ok = cache.Get("x", true)
	assert.True(t, ok)
}

func TestBlockCache_ErrorsAreNotCached(t *testing.T) {
	cache := NewBlockCache(DefaultBlockCacheConfig())
	failure := errors.New("bad template")

	_, err := cache.GetOrExtract("t", true, func() ([]Block, error) { return nil, failure })
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 0, cache.Stats().EntryCount)
}

func TestBlockCache_Expiry(t *testing.T) {
	cache := NewBlockCache(BlockCacheConfig{TTL: time.Millisecond})
	cache.Set("t", true, []Block{NewTextBlock("t")})

	time.Sleep(5 * time.Millisecond)
	_, ok := cache.Get("t", true)
	assert.False(t, ok)

	cache.Set("u", true, []Block{NewTextBlock("u")})
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, cache.Cleanup())
}

func TestBlockCache_ExpiredKeysLeaveEvictionList(t *testing.T) {
	cache := NewBlockCache(BlockCacheConfig{TTL: time.Nanosecond, MaxEntries: 8})

	for i := 0; i < 1000; i++ {
		cache.Set("t", true, []Block{NewTextBlock("t")})
		time.Sleep(time.Microsecond)
		_, ok := cache.Get("t", true)
		require.False(t, ok)
	}
	assert.Equal(t, 0, cache.evictList.Len())
	assert.Empty(t, cache.entries)

	for i := 0; i < 100; i++ {
		cache.Set("u", true, nil)
		time.Sleep(time.Microsecond)
		cache.Cleanup()
	}
	assert.Equal(t, 0, cache.evictList.Len())
	assert.Zero(t, cache.Stats().EntryCount)
}

func TestBlockCache_ReSetKeepsInsertionOrder(t *testing.T) {
	cache := NewBlockCache(BlockCacheConfig{MaxEntries: 2})
	cache.Set("a", true, nil)
	cache.Set("b", true, nil)
	cache.Set("a", true, []Block{NewTextBlock("again")})
	assert.Equal(t, 2, cache.evictList.Len())

	cache.Set("c", true, nil)
	assert.Equal(t, 2, cache.evictList.Len())
	assert.LessOrEqual(t, cache.evictList.Len(), len(cache.entries))

	_, ok := cache.Get("a", true)
	assert.False(t, ok)
	_, ok = cache.Get("b", true)
	assert.True(t, ok)
}

func TestBlockCache_FIFOEviction(t *testing.T) {
	cache := NewBlockCache(BlockCacheConfig{MaxEntries: 2})
	cache.Set("a", true, nil)
	cache.Set("b", true, nil)
	cache.Set("c", true, nil)

	_, ok := cache.Get("a", true)
	assert.False(t, ok)
	_, ok = cache.Get("c", true)
	assert.True(t, ok)

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.Evictions)
	assert.Equal(t, 2, stats.EntryCount)
}

func TestBlockCache_HitRateAndClear(t *testing.T) {
	cache := NewBlockCache(DefaultBlockCacheConfig())
	assert.Zero(t, cache.HitRate())

	cache.Set("a", true, nil)
	cache.Get("a", true)
	cache.Get("b", true)
	assert.InDelta(t, 0.5, cache.HitRate(), 0.0001)

	cache.Clear()
	assert.Equal(t, 0, cache.Stats().EntryCount)
}

func TestBlockCache_ConcurrentExtraction(t *testing.T) {
	cache := NewBlockCache(DefaultBlockCacheConfig())
	var calls atomic.Int32
	release := make(chan struct{})
	extract := func() ([]Block, error) {
		calls.Add(1)
		<-release
		return []Block{NewTextBlock("x")}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			blocks, err := cache.GetOrExtract("x", true, extract)
			assert.NoError(t, err)
			assert.Len(t, blocks, 1)
		}()
	}
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(8))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}
