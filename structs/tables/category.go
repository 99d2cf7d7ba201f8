package tables

import (
	"time"

	"github.com/google/uuid"
)

// Category organizes products hierarchically through a nullable self-reference.
// Deleting a parent cascades to its children at the database level, but the
// service layer refuses the delete while any product exists in the subtree.
type Category struct {
	tableName   struct{}   `bun:"table:categories,alias:c"`
	ID          uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Name        string     `bun:"name,unique,notnull" json:"name"`
	Slug        string     `bun:"slug,unique,notnull" json:"slug"`
	Description string     `bun:"description" json:"description,omitempty"`
	ParentID    *uuid.UUID `bun:"parent_id,type:uuid" json:"parent_id,omitempty"`
	IsActive    bool       `bun:"is_active,notnull,default:true" json:"is_active"`
	SortOrder   int        `bun:"sort_order,notnull,default:0" json:"sort_order"`
	CreatedAt   time.Time  `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull,default:now()" json:"updated_at"`

	Children []Category `bun:"rel:has-many,join:id=parent_id" json:"children,omitempty"`

	// Populated by the category service from cached aggregates, never stored.
	ProductCount *int    `bun:"-" json:"product_count,omitempty"`
	FullPath     *string `bun:"-" json:"full_path,omitempty"`
}
