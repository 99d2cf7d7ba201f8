package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus is the lifecycle state of a product.
type ProductStatus string

const (
	ProductStatusDraft     ProductStatus = "draft"
	ProductStatusPublished ProductStatus = "published"
	ProductStatusArchived  ProductStatus = "archived"
)

// Valid reports whether s is one of the known statuses.
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusDraft, ProductStatusPublished, ProductStatusArchived:
		return true
	}
	return false
}

type Product struct {
	tableName        struct{}        `bun:"table:products,alias:p"`
	ID               uuid.UUID       `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Name             string          `bun:"name,notnull" json:"name"`
	Slug             string          `bun:"slug,unique,notnull" json:"slug"`
	SKU              string          `bun:"sku,unique,notnull" json:"sku"`
	Description      string          `bun:"description,notnull" json:"description"`
	ShortDescription string          `bun:"short_description" json:"short_description,omitempty"`
	CategoryID       uuid.UUID       `bun:"category_id,type:uuid,notnull" json:"category_id"`
	Price            decimal.Decimal `bun:"price,notnull" json:"price"`
	Cost             *decimal.Decimal `bun:"cost" json:"cost,omitempty"`
	StockQuantity    int             `bun:"stock_quantity,notnull,default:0" json:"stock_quantity"`
	Barcode          string          `bun:"barcode" json:"barcode,omitempty"`
	Weight           *decimal.Decimal `bun:"weight" json:"weight,omitempty"`
	Dimensions       string          `bun:"dimensions" json:"dimensions,omitempty"`
	Status           ProductStatus   `bun:"status,notnull,default:'draft'" json:"status"`
	IsFeatured       bool            `bun:"is_featured,notnull,default:false" json:"is_featured"`
	CreatedBy        uuid.UUID       `bun:"created_by,type:uuid,notnull" json:"created_by"`
	CreatedAt        time.Time       `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt        time.Time       `bun:"updated_at,notnull,default:now()" json:"updated_at"`

	Category *Category `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
	Tags     []Tag     `bun:"m2m:product_tags,join:Product=Tag" json:"tags,omitempty"`

	// Review aggregates, computed from reviews at read time and cached with
	// explicit invalidation. Never persisted on the product row.
	AvgRating   *float64 `bun:"-" json:"avg_rating,omitempty"`
	ReviewCount *int     `bun:"-" json:"review_count,omitempty"`
}

// IsInStock reports whether any stock remains.
func (p *Product) IsInStock() bool {
	return p.StockQuantity > 0
}

// ProfitMargin returns (price-cost)/price*100, or nil when cost is unset
// or price is zero.
func (p *Product) ProfitMargin() *decimal.Decimal {
	if p.Cost == nil || p.Price.IsZero() {
		return nil
	}
	margin := p.Price.Sub(*p.Cost).Div(p.Price).Mul(decimal.NewFromInt(100))
	return &margin
}

// ProductTag is the join row for the product<->tag many-to-many relation.
type ProductTag struct {
	tableName struct{}  `bun:"table:product_tags,alias:pt"`
	ProductID uuid.UUID `bun:"product_id,pk,type:uuid" json:"product_id"`
	TagID     uuid.UUID `bun:"tag_id,pk,type:uuid" json:"tag_id"`

	Product *Product `bun:"rel:belongs-to,join:product_id=id" json:"-"`
	Tag     *Tag     `bun:"rel:belongs-to,join:tag_id=id" json:"-"`
}
