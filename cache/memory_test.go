package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "greeting", "hello", 0))

	val, err := store.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", val)

	// Missing keys read as empty, not as errors
	val, err = store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, "", val)
}

func TestMemoryStoreSetMarshalsNonStrings(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "bytes", []byte("raw"), 0))
	val, err := store.Get(ctx, "bytes")
	require.NoError(t, err)
	assert.Equal(t, "raw", val)

	require.NoError(t, store.Set(ctx, "object", map[string]int{"n": 3}, 0))
	val, err = store.Get(ctx, "object")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":3}`, val)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "ephemeral", "v", 10*time.Millisecond))
	require.NoError(t, store.Set(ctx, "durable", "v", 0))

	time.Sleep(20 * time.Millisecond)

	val, err := store.Get(ctx, "ephemeral")
	require.NoError(t, err)
	assert.Equal(t, "", val)

	val, err = store.Get(ctx, "durable")
	require.NoError(t, err)
	assert.Equal(t, "v", val)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "a", "1", 0))
	require.NoError(t, store.Set(ctx, "b", "2", 0))
	require.NoError(t, store.Set(ctx, "c", "3", 0))

	require.NoError(t, store.Delete(ctx, "a", "b", "never-existed"))

	val, _ := store.Get(ctx, "a")
	assert.Equal(t, "", val)
	val, _ = store.Get(ctx, "c")
	assert.Equal(t, "3", val)
}

func TestMemoryStoreDeletePattern(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "ratelimit:1.2.3.4:/products", "5", 0))
	require.NoError(t, store.Set(ctx, "ratelimit:5.6.7.8:/products", "2", 0))
	require.NoError(t, store.Set(ctx, "category_tree", "[]", 0))

	require.NoError(t, store.DeletePattern(ctx, "ratelimit:*"))

	assert.Equal(t, 1, store.Len())
	val, _ := store.Get(ctx, "category_tree")
	assert.Equal(t, "[]", val)
}

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern string
		key     string
		want    bool
	}{
		{"*", "anything/at:all", true},
		{"ratelimit:*", "ratelimit:1.2.3.4:/products/abc", true},
		{"ratelimit:*", "blacklist:jti", false},
		{"category:*", "category:3f1d", true},
		{"*:products", "category_products:x", false},
		{"user:?", "user:a", true},
		{"user:?", "user:ab", false},
		{"a*c", "abc", true},
		{"a*c", "a/:/c", true},
		{"a*c", "ab", false},
		{"", "", true},
		{"", "x", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, matchGlob(tt.pattern, tt.key),
			"pattern %q against %q", tt.pattern, tt.key)
	}
}

func TestMemoryStoreIncrement(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for want := 1; want <= 3; want++ {
		got, err := store.Increment(ctx, "counter", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestMemoryStoreIncrementWindowReset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Increment(ctx, "counter", 10*time.Millisecond)
	require.NoError(t, err)
	_, err = store.Increment(ctx, "counter", 10*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	// Expired window starts over at 1
	got, err := store.Increment(ctx, "counter", 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestMemoryStoreIncrementNonInteger(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "counter", "not-a-number", 0))

	_, err := store.Increment(ctx, "counter", time.Minute)
	assert.Error(t, err)
}

func TestMemoryStoreConcurrentIncrement(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			_, _ = store.Increment(ctx, "counter", time.Minute)
		}()
	}
	wg.Wait()

	got, err := store.Increment(ctx, "counter", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, goroutines+1, got)
}

func TestSetJSONGetJSONRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, SetJSON(ctx, store, "payload", payload{Name: "laptops", Count: 7}, 0))

	got, err := GetJSON[payload](ctx, store, "payload")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "laptops", got.Name)
	assert.Equal(t, 7, got.Count)

	missing, err := GetJSON[payload](ctx, store, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetOrComputeCachesResult(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var calls int32
	compute := func(context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "computed", nil
	}

	got, err := GetOrCompute(ctx, store, "expensive", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, "computed", got)

	got, err = GetOrCompute(ctx, store, "expensive", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, "computed", got)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetOrComputeErrorNotCached(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	boom := errors.New("upstream down")
	_, err := GetOrCompute(ctx, store, "failing", time.Minute, func(context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)

	// Next call recomputes instead of serving a cached failure
	got, err := GetOrCompute(ctx, store, "failing", time.Minute, func(context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestGetOrComputeCollapsesConcurrentMisses(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var calls int32
	release := make(chan struct{})
	compute := func(context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "shared", nil
	}

	const readers = 10
	var wg sync.WaitGroup
	results := make([]string, readers)
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func(i int) {
			defer wg.Done()
			got, err := GetOrCompute(ctx, store, "singleflight", time.Minute, compute)
			assert.NoError(t, err)
			results[i] = got
		}(i)
	}

	// Give the goroutines time to pile up on the in-flight call
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, got := range results {
		assert.Equal(t, "shared", got)
	}
}
