package tables

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role controls what a user may do. Admins and managers may write catalog
// data; regular users are read-only plus their own reviews and profile.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

type User struct {
	tableName    struct{}  `bun:"table:users,alias:u"`
	ID           uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Username     string    `bun:"username,unique,notnull" json:"username"`
	Email        string    `bun:"email,unique,notnull" json:"email"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	FirstName    string    `bun:"first_name,notnull" json:"first_name"`
	LastName     string    `bun:"last_name,notnull" json:"last_name"`
	Role         Role      `bun:"role,notnull,default:'user'" json:"role"`
	PhoneNumber  string    `bun:"phone_number" json:"phone_number,omitempty"`
	Bio          string    `bun:"bio" json:"bio,omitempty"`
	IsActive     bool      `bun:"is_active,notnull,default:true" json:"is_active"`
	LastLogin    time.Time `bun:"last_login,default:now()" json:"last_login"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:now()" json:"updated_at"`

	Profile *UserProfile `bun:"rel:has-one,join:id=user_id" json:"profile,omitempty"`
}

// FullName returns "first last", trimmed when either part is empty.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// IsStaff reports whether the user may write catalog data.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}

// UserProfile is the extended one-to-one record auto-created alongside
// every user.
type UserProfile struct {
	tableName   struct{}   `bun:"table:user_profiles,alias:up"`
	ID          uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	UserID      uuid.UUID  `bun:"user_id,type:uuid,unique,notnull" json:"user_id"`
	DateOfBirth *time.Time `bun:"date_of_birth" json:"date_of_birth,omitempty"`
	Address     string     `bun:"address" json:"address,omitempty"`
	City        string     `bun:"city" json:"city,omitempty"`
	Country     string     `bun:"country" json:"country,omitempty"`
	Website     string     `bun:"website" json:"website,omitempty"`
	CreatedAt   time.Time  `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull,default:now()" json:"updated_at"`
}

// AuthResponse is returned by login/refresh alongside the cookie pair.
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
