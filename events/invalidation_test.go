package events

import (
	"context"
	"errors"
	"testing"

	"mesaifinal_server/cache"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *gecho.Logger {
	return gecho.NewLogger(gecho.NewConfig(gecho.WithLogLevel(gecho.ParseLogLevel("error"))))
}

func seededStore(t *testing.T, keys ...string) *cache.MemoryStore {
	t.Helper()
	store := cache.NewMemoryStore()
	for _, key := range keys {
		require.NoError(t, store.Set(context.Background(), key, "cached", 0))
	}
	return store
}

func assertGone(t *testing.T, store cache.Store, keys ...string) {
	t.Helper()
	for _, key := range keys {
		val, err := store.Get(context.Background(), key)
		require.NoError(t, err)
		assert.Empty(t, val, "expected key %q to be invalidated", key)
	}
}

func assertKept(t *testing.T, store cache.Store, keys ...string) {
	t.Helper()
	for _, key := range keys {
		val, err := store.Get(context.Background(), key)
		require.NoError(t, err)
		assert.Equal(t, "cached", val, "expected key %q to survive", key)
	}
}

func TestProductEventInvalidation(t *testing.T) {
	categoryID := uuid.New()
	otherCategoryID := uuid.New()
	tagA, tagB := uuid.New(), uuid.New()

	for _, kind := range []Kind{ProductSaved, ProductDeleted} {
		t.Run(string(kind), func(t *testing.T) {
			store := seededStore(t,
				cache.KeyCategoryProducts(categoryID),
				cache.KeyCategoryProducts(otherCategoryID),
				cache.KeyFeaturedProducts,
				cache.KeyProductStats,
				cache.KeyTagProducts(tagA),
				cache.KeyTagProducts(tagB),
				cache.KeyCategoryTree,
			)

			d := NewDispatcher(testLogger())
			RegisterInvalidationHandlers(d, store, testLogger())

			d.Dispatch(context.Background(), Event{
				Kind:       kind,
				ProductID:  uuid.New(),
				CategoryID: categoryID,
				TagIDs:     []uuid.UUID{tagA, tagB},
			})

			assertGone(t, store,
				cache.KeyCategoryProducts(categoryID),
				cache.KeyFeaturedProducts,
				cache.KeyProductStats,
				cache.KeyTagProducts(tagA),
				cache.KeyTagProducts(tagB),
			)
			assertKept(t, store,
				cache.KeyCategoryProducts(otherCategoryID),
				cache.KeyCategoryTree,
			)
		})
	}
}

func TestCategoryEventInvalidation(t *testing.T) {
	categoryID := uuid.New()
	parentID := uuid.New()
	siblingID := uuid.New()

	store := seededStore(t,
		cache.KeyCategoryTree,
		cache.KeyRootCategories,
		cache.KeyCategory(categoryID),
		cache.KeyCategory(parentID),
		cache.KeyCategory(siblingID),
		cache.KeyProductStats,
	)

	d := NewDispatcher(testLogger())
	RegisterInvalidationHandlers(d, store, testLogger())

	d.Dispatch(context.Background(), Event{
		Kind:       CategorySaved,
		CategoryID: categoryID,
		ParentID:   &parentID,
	})

	assertGone(t, store,
		cache.KeyCategoryTree,
		cache.KeyRootCategories,
		cache.KeyCategory(categoryID),
		cache.KeyCategory(parentID),
	)
	assertKept(t, store,
		cache.KeyCategory(siblingID),
		cache.KeyProductStats,
	)
}

func TestCategoryEventWithoutParent(t *testing.T) {
	categoryID := uuid.New()

	store := seededStore(t,
		cache.KeyCategoryTree,
		cache.KeyRootCategories,
		cache.KeyCategory(categoryID),
	)

	d := NewDispatcher(testLogger())
	RegisterInvalidationHandlers(d, store, testLogger())

	d.Dispatch(context.Background(), Event{
		Kind:       CategoryDeleted,
		CategoryID: categoryID,
	})

	assertGone(t, store,
		cache.KeyCategoryTree,
		cache.KeyRootCategories,
		cache.KeyCategory(categoryID),
	)
}

func TestReviewEventInvalidation(t *testing.T) {
	productID := uuid.New()
	otherProductID := uuid.New()

	for _, kind := range []Kind{ReviewSaved, ReviewDeleted} {
		t.Run(string(kind), func(t *testing.T) {
			store := seededStore(t,
				cache.KeyProductRating(productID),
				cache.KeyProductReviews(productID),
				cache.KeyProductRating(otherProductID),
			)

			d := NewDispatcher(testLogger())
			RegisterInvalidationHandlers(d, store, testLogger())

			d.Dispatch(context.Background(), Event{
				Kind:      kind,
				ReviewID:  uuid.New(),
				ProductID: productID,
			})

			assertGone(t, store,
				cache.KeyProductRating(productID),
				cache.KeyProductReviews(productID),
			)
			assertKept(t, store, cache.KeyProductRating(otherProductID))
		})
	}
}

func TestUserEventInvalidation(t *testing.T) {
	userID := uuid.New()

	t.Run("created", func(t *testing.T) {
		store := seededStore(t, cache.KeyUserStats, cache.KeyUserProfile(userID))

		d := NewDispatcher(testLogger())
		RegisterInvalidationHandlers(d, store, testLogger())

		d.Dispatch(context.Background(), Event{Kind: UserCreated, UserID: userID})

		assertGone(t, store, cache.KeyUserStats)
		assertKept(t, store, cache.KeyUserProfile(userID))
	})

	t.Run("deleted", func(t *testing.T) {
		store := seededStore(t,
			cache.KeyUserStats,
			cache.KeyUserProfile(userID),
			cache.KeyUserPermissions(userID),
		)

		d := NewDispatcher(testLogger())
		RegisterInvalidationHandlers(d, store, testLogger())

		d.Dispatch(context.Background(), Event{Kind: UserDeleted, UserID: userID})

		assertGone(t, store,
			cache.KeyUserStats,
			cache.KeyUserProfile(userID),
			cache.KeyUserPermissions(userID),
		)
	})
}

func TestDispatchRunsAllHandlersDespiteFailure(t *testing.T) {
	d := NewDispatcher(testLogger())

	var order []string
	d.Register(ProductSaved, func(ctx context.Context, e Event) error {
		order = append(order, "first")
		return errors.New("handler exploded")
	})
	d.Register(ProductSaved, func(ctx context.Context, e Event) error {
		order = append(order, "second")
		return nil
	})

	d.Dispatch(context.Background(), Event{Kind: ProductSaved})

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestDispatchIgnoresUnregisteredKinds(t *testing.T) {
	d := NewDispatcher(testLogger())
	// Nothing registered; dispatch must be a no-op rather than a panic
	d.Dispatch(context.Background(), Event{Kind: ReviewDeleted})
}
