package ports

import (
	"context"
	"time"

	"github.com/shopkit/accounts-api/internal/core/domain"
)

// CreateAccountInput carries the create-account request fields. Profile
// fields are only read when the service runs with the extended schema.
type CreateAccountInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Role            string
	Status          string
	Firstname       string
	Lastname        string
	Phone           *string
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AccountService defines the account use cases.
type AccountService interface {
	CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.User, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
}
