package events

import (
	"context"
	"mesaifinal_server/cache"

	"github.com/MonkyMars/gecho"
)

// RegisterInvalidationHandlers wires the cache invalidation rules to the
// dispatcher. Each mutation maps to a fixed set of keys:
//
//	product saved/deleted  -> category_products:{category_id}, featured_products,
//	                          product_stats, tag_products:{tag_id} per tag
//	category saved/deleted -> category_tree, root_categories, category:{id},
//	                          category:{parent_id} when a parent exists
//	review saved/deleted   -> product_rating:{product_id}, product_reviews:{product_id}
//	user created/deleted   -> user_stats; deletes also clear the user's
//	                          profile and permissions entries
func RegisterInvalidationHandlers(d *Dispatcher, store cache.Store, logger *gecho.Logger) {
	productHandler := func(ctx context.Context, e Event) error {
		keys := []string{
			cache.KeyCategoryProducts(e.CategoryID),
			cache.KeyFeaturedProducts,
			cache.KeyProductStats,
		}
		for _, tagID := range e.TagIDs {
			keys = append(keys, cache.KeyTagProducts(tagID))
		}

		logger.Debug("Invalidating product caches",
			gecho.Field("event", string(e.Kind)),
			gecho.Field("product_id", e.ProductID),
			gecho.Field("keys", len(keys)),
		)
		return store.Delete(ctx, keys...)
	}
	d.Register(ProductSaved, productHandler)
	d.Register(ProductDeleted, productHandler)

	categoryHandler := func(ctx context.Context, e Event) error {
		keys := []string{
			cache.KeyCategoryTree,
			cache.KeyRootCategories,
			cache.KeyCategory(e.CategoryID),
		}
		if e.ParentID != nil {
			keys = append(keys, cache.KeyCategory(*e.ParentID))
		}

		logger.Debug("Invalidating category caches",
			gecho.Field("event", string(e.Kind)),
			gecho.Field("category_id", e.CategoryID),
		)
		return store.Delete(ctx, keys...)
	}
	d.Register(CategorySaved, categoryHandler)
	d.Register(CategoryDeleted, categoryHandler)

	reviewHandler := func(ctx context.Context, e Event) error {
		logger.Debug("Invalidating review caches",
			gecho.Field("event", string(e.Kind)),
			gecho.Field("product_id", e.ProductID),
		)
		return store.Delete(ctx,
			cache.KeyProductRating(e.ProductID),
			cache.KeyProductReviews(e.ProductID),
		)
	}
	d.Register(ReviewSaved, reviewHandler)
	d.Register(ReviewDeleted, reviewHandler)

	d.Register(UserCreated, func(ctx context.Context, e Event) error {
		return store.Delete(ctx, cache.KeyUserStats)
	})

	d.Register(UserDeleted, func(ctx context.Context, e Event) error {
		return store.Delete(ctx,
			cache.KeyUserProfile(e.UserID),
			cache.KeyUserPermissions(e.UserID),
			cache.KeyUserStats,
		)
	})
}
