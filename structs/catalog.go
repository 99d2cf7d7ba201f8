package structs

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest is the admin/manager payload for new categories.
// Slug is derived from the name when absent.
type CreateCategoryRequest struct {
	Name        string     `json:"name" validate:"required,max=100"`
	Slug        string     `json:"slug" validate:"omitempty,max=100"`
	Description string     `json:"description" validate:"omitempty"`
	ParentID    *uuid.UUID `json:"parent_id" validate:"omitempty"`
	IsActive    *bool      `json:"is_active" validate:"omitempty"`
	SortOrder   *int       `json:"sort_order" validate:"omitempty,gte=0"`
}

type UpdateCategoryRequest struct {
	Name        *string    `json:"name" validate:"omitempty,max=100"`
	Description *string    `json:"description" validate:"omitempty"`
	ParentID    *uuid.UUID `json:"parent_id" validate:"omitempty"`
	ClearParent bool       `json:"clear_parent" validate:"omitempty"`
	IsActive    *bool      `json:"is_active" validate:"omitempty"`
	SortOrder   *int       `json:"sort_order" validate:"omitempty,gte=0"`
}

type CreateProductRequest struct {
	Name             string           `json:"name" validate:"required,max=200"`
	Slug             string           `json:"slug" validate:"omitempty,max=200"`
	SKU              string           `json:"sku" validate:"omitempty,max=50"`
	Description      string           `json:"description" validate:"required"`
	ShortDescription string           `json:"short_description" validate:"omitempty,max=500"`
	CategoryID       uuid.UUID        `json:"category_id" validate:"required"`
	Price            decimal.Decimal  `json:"price" validate:"required"`
	Cost             *decimal.Decimal `json:"cost" validate:"omitempty"`
	StockQuantity    int              `json:"stock_quantity" validate:"gte=0"`
	Barcode          string           `json:"barcode" validate:"omitempty,max=50"`
	Weight           *decimal.Decimal `json:"weight" validate:"omitempty"`
	Dimensions       string           `json:"dimensions" validate:"omitempty,max=100"`
	Status           string           `json:"status" validate:"omitempty,oneof=draft published archived"`
	IsFeatured       bool             `json:"is_featured" validate:"omitempty"`
	TagIDs           []uuid.UUID      `json:"tag_ids" validate:"omitempty"`
}

type UpdateProductRequest struct {
	Name             *string          `json:"name" validate:"omitempty,max=200"`
	Description      *string          `json:"description" validate:"omitempty"`
	ShortDescription *string          `json:"short_description" validate:"omitempty,max=500"`
	CategoryID       *uuid.UUID       `json:"category_id" validate:"omitempty"`
	Price            *decimal.Decimal `json:"price" validate:"omitempty"`
	Cost             *decimal.Decimal `json:"cost" validate:"omitempty"`
	Barcode          *string          `json:"barcode" validate:"omitempty,max=50"`
	Weight           *decimal.Decimal `json:"weight" validate:"omitempty"`
	Dimensions       *string          `json:"dimensions" validate:"omitempty,max=100"`
	Status           *string          `json:"status" validate:"omitempty,oneof=draft published archived"`
	IsFeatured       *bool            `json:"is_featured" validate:"omitempty"`
	TagIDs           []uuid.UUID      `json:"tag_ids" validate:"omitempty"`
}

// StockUpdateRequest adjusts product inventory. "subtract" is a strict
// atomic decrement that fails without change on insufficient stock;
// "set" and "add" clamp at zero.
type StockUpdateRequest struct {
	Quantity  int    `json:"quantity" validate:"required"`
	Operation string `json:"operation" validate:"omitempty,oneof=set add subtract"`
}

type CreateTagRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	Slug     string `json:"slug" validate:"omitempty,max=50"`
	Color    string `json:"color" validate:"omitempty,hexcolor"`
	IsActive *bool  `json:"is_active" validate:"omitempty"`
}

type UpdateTagRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=50"`
	Color    *string `json:"color" validate:"omitempty,hexcolor"`
	IsActive *bool   `json:"is_active" validate:"omitempty"`
}

type CreateReviewRequest struct {
	Rating             int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title              string `json:"title" validate:"required,max=200"`
	Content            string `json:"content" validate:"required"`
	IsVerifiedPurchase bool   `json:"is_verified_purchase" validate:"omitempty"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Title   *string `json:"title" validate:"omitempty,max=200"`
	Content *string `json:"content" validate:"omitempty"`
}

type UpdateProfileRequest struct {
	DateOfBirth *time.Time `json:"date_of_birth" validate:"omitempty"`
	Address     *string    `json:"address" validate:"omitempty,max=200"`
	City        *string    `json:"city" validate:"omitempty,max=50"`
	Country     *string    `json:"country" validate:"omitempty,max=50"`
	Website     *string    `json:"website" validate:"omitempty,url"`
}

type UpdateUserRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,max=30"`
	LastName    *string `json:"last_name" validate:"omitempty,max=30"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,e164"`
	Bio         *string `json:"bio" validate:"omitempty,max=500"`
	// Role and IsActive are honored for admin callers only.
	Role     *string `json:"role" validate:"omitempty,oneof=admin manager user"`
	IsActive *bool   `json:"is_active" validate:"omitempty"`
}

// ProductStats is the payload cached under the product_stats key.
type ProductStats struct {
	TotalProducts      int             `json:"total_products"`
	PublishedProducts  int             `json:"published_products"`
	DraftProducts      int             `json:"draft_products"`
	ArchivedProducts   int             `json:"archived_products"`
	FeaturedProducts   int             `json:"featured_products"`
	LowStockProducts   int             `json:"low_stock_products"`
	OutOfStockProducts int             `json:"out_of_stock_products"`
	TopCategories      []CategoryCount `json:"top_categories"`
	TotalReviews       int             `json:"total_reviews"`
	ApprovedReviews    int             `json:"approved_reviews"`
	AverageRating      *float64        `json:"average_rating"`
}

type CategoryCount struct {
	Name         string `json:"name"`
	ProductCount int    `json:"product_count"`
}

// UserStats is the payload cached under the user_stats key.
type UserStats struct {
	TotalUsers    int            `json:"total_users"`
	ActiveUsers   int            `json:"active_users"`
	InactiveUsers int            `json:"inactive_users"`
	UsersByRole   map[string]int `json:"users_by_role"`
}
