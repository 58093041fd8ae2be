package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
	RoleRider    = "rider"
	RoleAdmin    = "admin"
)

var validRoles = map[string]bool{
	RoleCustomer: true,
	RoleVendor:   true,
	RoleRider:    true,
	RoleAdmin:    true,
}

func ValidRole(role string) bool {
	return validRoles[role]
}

// User is keyed by the auth identity ID.
type User struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Email     string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	FullName  string    `gorm:"column:full_name;not null" json:"full_name"`
	Phone     string    `gorm:"column:phone" json:"phone,omitempty"`
	Role      string    `gorm:"column:role;not null;default:customer" json:"role"`
	Address   string    `gorm:"column:address" json:"address,omitempty"`
	City      string    `gorm:"column:city" json:"city,omitempty"`
	Country   string    `gorm:"column:country" json:"country,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Identity is an account held by the auth provider.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthIdentity backs the local auth provider when no hosted service is
// configured.
type AuthIdentity struct {
	ID           string            `gorm:"primaryKey;type:uuid"`
	Email        string            `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string            `gorm:"column:password_hash;not null"`
	Metadata     datatypes.JSONMap `gorm:"column:metadata"`
	CreatedAt    time.Time         `gorm:"column:created_at"`
}

func (AuthIdentity) TableName() string {
	return "auth_identities"
}
