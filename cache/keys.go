package cache

import (
	"fmt"

	"github.com/google/uuid"
)

// Cache key builders. Every key the invalidation handlers delete is built
// here so the write side and the read side cannot drift apart.

const (
	KeyFeaturedProducts = "featured_products"
	KeyProductStats     = "product_stats"
	KeyCategoryTree     = "category_tree"
	KeyRootCategories   = "root_categories"
	KeyUserStats        = "user_stats"
)

func KeyCategory(id uuid.UUID) string {
	return fmt.Sprintf("category:%s", id)
}

func KeyCategoryProducts(categoryID uuid.UUID) string {
	return fmt.Sprintf("category_products:%s", categoryID)
}

func KeyTagProducts(tagID uuid.UUID) string {
	return fmt.Sprintf("tag_products:%s", tagID)
}

func KeyProductRating(productID uuid.UUID) string {
	return fmt.Sprintf("product_rating:%s", productID)
}

func KeyProductReviews(productID uuid.UUID) string {
	return fmt.Sprintf("product_reviews:%s", productID)
}

func KeyUserProfile(userID uuid.UUID) string {
	return fmt.Sprintf("user_profile:%s", userID)
}

func KeyUserPermissions(userID uuid.UUID) string {
	return fmt.Sprintf("user_permissions:%s", userID)
}

func KeyUser(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s", userID)
}

func KeyTokenBlacklist(jti uuid.UUID) string {
	return fmt.Sprintf("blacklist:%s", jti)
}

func KeyRateLimit(ip, endpoint string) string {
	return fmt.Sprintf("ratelimit:%s:%s", ip, endpoint)
}
