package tables

import (
	"time"

	"github.com/google/uuid"
)

// Review is user-generated product feedback. The database enforces one
// review per (product, user) pair; review→product and review→user both
// cascade on delete.
type Review struct {
	tableName          struct{}  `bun:"table:reviews,alias:r"`
	ID                 uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	ProductID          uuid.UUID `bun:"product_id,type:uuid,notnull" json:"product_id"`
	UserID             uuid.UUID `bun:"user_id,type:uuid,notnull" json:"user_id"`
	Rating             int       `bun:"rating,notnull" json:"rating"`
	Title              string    `bun:"title,notnull" json:"title"`
	Content            string    `bun:"content,notnull" json:"content"`
	IsVerifiedPurchase bool      `bun:"is_verified_purchase,notnull,default:false" json:"is_verified_purchase"`
	IsApproved         bool      `bun:"is_approved,notnull,default:true" json:"is_approved"`
	HelpfulVotes       int       `bun:"helpful_votes,notnull,default:0" json:"helpful_votes"`
	CreatedAt          time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt          time.Time `bun:"updated_at,notnull,default:now()" json:"updated_at"`

	Product *Product `bun:"rel:belongs-to,join:product_id=id" json:"product,omitempty"`
	User    *User    `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
}

// RatingSummary is the cached review aggregate for a product.
type RatingSummary struct {
	ProductID     uuid.UUID `json:"product_id"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int       `json:"review_count"`
}
