package ports

import (
	"context"

	"github.com/shopkit/accounts-api/internal/core/domain"
)

// UserRepository defines the persistence operations for user accounts.
//
// FindByEmail returns domain.ErrUserNotFound when no row matches. Create
// assigns ID and returns the stored record; a rejected constraint (for
// example a duplicate email) surfaces as *domain.ValidationError.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
