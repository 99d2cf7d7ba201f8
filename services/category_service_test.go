package services

import (
	"context"
	"testing"
	"time"

	"mesaifinal_server/cache"
	"mesaifinal_server/events"
	"mesaifinal_server/structs"
	"mesaifinal_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCategoryService builds a service with no database; every read in these
// tests must be satisfiable from the store alone.
func testCategoryService(store cache.Store) *CategoryService {
	logger := gecho.NewLogger(gecho.NewConfig(gecho.WithLogLevel(gecho.ParseLogLevel("error"))))
	cfg := &structs.Config{
		Cache: &structs.CacheConfig{
			AggregateTTL: time.Minute,
			TreeTTL:      time.Minute,
		},
		Catalog: &structs.CatalogConfig{
			MaxTreeDepth:  100,
			PathSeparator: " > ",
		},
	}
	return NewCategoryService(logger, cfg, nil, store, events.NewDispatcher(logger))
}

func TestGetByIDProductCountFollowsListing(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	svc := testCategoryService(store)

	catID := uuid.New()
	category := tables.Category{ID: catID, Name: "Audio", Slug: "audio", IsActive: true}

	require.NoError(t, cache.SetJSON(ctx, store, cache.KeyCategoryTree, []tables.Category{category}, 0))

	cached := category
	path := "Audio"
	cached.FullPath = &path
	require.NoError(t, cache.SetJSON(ctx, store, cache.KeyCategory(catID), cached, 0))

	listing := []tables.Product{{ID: uuid.New()}, {ID: uuid.New()}}
	require.NoError(t, cache.SetJSON(ctx, store, cache.KeyCategoryProducts(catID), listing, 0))

	got, err := svc.GetByID(ctx, catID)
	require.NoError(t, err)
	require.NotNil(t, got.ProductCount)
	assert.Equal(t, 2, *got.ProductCount)

	// A product write drops the listing key but leaves the per-category
	// entry alone; the served count must follow the refreshed listing.
	require.NoError(t, store.Delete(ctx, cache.KeyCategoryProducts(catID)))
	require.NoError(t, cache.SetJSON(ctx, store, cache.KeyCategoryProducts(catID), listing[:1], 0))

	got, err = svc.GetByID(ctx, catID)
	require.NoError(t, err)
	require.NotNil(t, got.ProductCount)
	assert.Equal(t, 1, *got.ProductCount)
}

func TestInvalidateDescendantsDropsSubtreeKeys(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	svc := testCategoryService(store)

	rootID := uuid.New()
	childID := uuid.New()
	grandchildID := uuid.New()

	for _, id := range []uuid.UUID{childID, grandchildID} {
		require.NoError(t, store.Set(ctx, cache.KeyCategory(id), "{}", 0))
		require.NoError(t, store.Set(ctx, cache.KeyCategoryProducts(id), "[]", 0))
	}
	require.NoError(t, store.Set(ctx, cache.KeyCategory(rootID), "{}", 0))

	svc.invalidateDescendants(ctx, rootID, []uuid.UUID{childID, grandchildID})

	for _, id := range []uuid.UUID{childID, grandchildID} {
		val, err := store.Get(ctx, cache.KeyCategory(id))
		require.NoError(t, err)
		assert.Empty(t, val, "category entry for %s must be gone", id)

		val, err = store.Get(ctx, cache.KeyCategoryProducts(id))
		require.NoError(t, err)
		assert.Empty(t, val, "product listing for %s must be gone", id)
	}

	// The root's own entry is the event handler's job, not this path's
	val, err := store.Get(ctx, cache.KeyCategory(rootID))
	require.NoError(t, err)
	assert.Equal(t, "{}", val)
}
