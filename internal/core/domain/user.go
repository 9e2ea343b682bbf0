package domain

import "time"

// Schema selects which user profile model the service runs with.
type Schema string

const (
	// SchemaSimple is the role-only model with email verification fields.
	SchemaSimple Schema = "simple"
	// SchemaExtended adds profile fields and enum-constrained role/status.
	SchemaExtended Schema = "extended"
)

// Valid reports whether s names a supported schema.
func (s Schema) Valid() bool {
	return s == SchemaSimple || s == SchemaExtended
}

const (
	RoleAdmin     = "admin"
	RoleUser      = "user"
	RoleShopOwner = "shop_owner"
)

const (
	StatusActive          = "active"
	StatusInactive        = "inactive"
	StatusPendingApproval = "pending_approval"
)

// Roles lists the roles accepted by the extended schema.
var Roles = []string{RoleAdmin, RoleUser, RoleShopOwner}

// Statuses lists the account statuses accepted by the extended schema.
var Statuses = []string{StatusActive, StatusInactive, StatusPendingApproval}

// User models a registered account. Fields that only exist in the extended
// schema are left empty when running with SchemaSimple.
type User struct {
	ID                int64     `json:"id"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	Role              string    `json:"role"`
	Verified          bool      `json:"verified"`
	VerificationToken *string   `json:"verification_token,omitempty"`
	Firstname         string    `json:"firstname,omitempty"`
	Lastname          string    `json:"lastname,omitempty"`
	Phone             *string   `json:"phone,omitempty"`
	Status            string    `json:"status,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}

// IsRole reports whether r is one of the extended-schema roles.
func IsRole(r string) bool { return oneOf(r, Roles) }

// IsStatus reports whether s is one of the extended-schema statuses.
func IsStatus(s string) bool { return oneOf(s, Statuses) }
