package tables

import (
	"time"

	"github.com/google/uuid"
)

type Tag struct {
	tableName struct{}  `bun:"table:tags,alias:t"`
	ID        uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Name      string    `bun:"name,unique,notnull" json:"name"`
	Slug      string    `bun:"slug,unique,notnull" json:"slug"`
	Color     string    `bun:"color,notnull,default:'#007bff'" json:"color"`
	IsActive  bool      `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:now()" json:"updated_at"`

	// Computed from the join table at read time.
	ProductCount *int `bun:"-" json:"product_count,omitempty"`
}
