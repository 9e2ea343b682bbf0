package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopkit/accounts-api/internal/core/domain"
	"github.com/shopkit/accounts-api/internal/core/ports"
)

var validate = validator.New()

// AccountOptions tunes the account service.
type AccountOptions struct {
	Schema     domain.Schema
	BcryptCost int
}

// AccountService implements account creation and login.
type AccountService struct {
	repo   ports.UserRepository
	tokens *TokenService
	schema domain.Schema
	cost   int
	log    zerolog.Logger
}

func NewAccountService(repo ports.UserRepository, tokens *TokenService, opts AccountOptions, log zerolog.Logger) *AccountService {
	if !opts.Schema.Valid() {
		opts.Schema = domain.SchemaSimple
	}
	if opts.BcryptCost < bcrypt.MinCost || opts.BcryptCost > bcrypt.MaxCost {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{
		repo:   repo,
		tokens: tokens,
		schema: opts.Schema,
		cost:   opts.BcryptCost,
		log:    log,
	}
}

// Schema returns the user schema the service runs with.
func (s *AccountService) Schema() domain.Schema {
	return s.schema
}

// CreateAccount validates input, hashes the password and stores a new user.
// Checks run in a fixed order: required fields, email format, email
// uniqueness, password confirmation, then schema enums.
func (s *AccountService) CreateAccount(ctx context.Context, in ports.CreateAccountInput) (*domain.User, error) {
	if err := s.checkRequired(in); err != nil {
		return nil, err
	}

	if err := validate.Var(in.Email, "email"); err != nil {
		return nil, domain.ErrInvalidEmail
	}

	_, err := s.repo.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, domain.ErrEmailInUse
	case !errors.Is(err, domain.ErrUserNotFound):
		s.log.Error().Err(err).Str("email", in.Email).Msg("email lookup failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	if in.Password != in.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}

	if s.schema == domain.SchemaExtended {
		if err := checkEnums(in); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword(passwordKey(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if s.schema == domain.SchemaExtended {
		user.Firstname = in.Firstname
		user.Lastname = in.Lastname
		user.Phone = in.Phone
		user.Status = in.Status
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			s.log.Warn().Strs("errors", ve.Messages).Str("email", in.Email).Msg("user rejected by store")
			return nil, err
		}
		s.log.Error().Err(err).Str("email", in.Email).Msg("failed to create user")
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Int64("user_id", created.ID).Str("role", created.Role).Msg("account created")
	return created, nil
}

// Login checks credentials and issues a session token. Unknown email and
// wrong password both yield domain.ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	if in.Email == "" || in.Password == "" {
		return nil, &domain.RequiredFieldsError{Fields: []string{"email", "password"}}
	}

	user, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Str("email", in.Email).Msg("login for unknown email")
			return nil, domain.ErrInvalidCredentials
		}
		s.log.Error().Err(err).Str("email", in.Email).Msg("login lookup failed")
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), passwordKey(in.Password)) != nil {
		s.log.Debug().Int64("user_id", user.ID).Msg("login with wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Msg("user logged in")
	return &ports.LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// maxPasswordBytes is the most input bcrypt reads.
const maxPasswordBytes = 72

// passwordKey returns the bytes bcrypt hashes. Longer passwords are cut to
// the first 72 bytes, so hashes stay compatible with other bcrypt
// implementations that truncate silently.
func passwordKey(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

func (s *AccountService) checkRequired(in ports.CreateAccountInput) error {
	if s.schema == domain.SchemaExtended {
		if in.Firstname == "" || in.Lastname == "" || in.Email == "" ||
			in.Password == "" || in.Role == "" || in.Status == "" {
			return &domain.RequiredFieldsError{
				Fields: []string{"firstname", "lastname", "email", "password", "role", "status"},
			}
		}
		return nil
	}
	if in.Email == "" || in.Password == "" || in.Role == "" {
		return &domain.RequiredFieldsError{Fields: []string{"email", "password", "role"}}
	}
	return nil
}

func checkEnums(in ports.CreateAccountInput) error {
	var msgs []string
	if !domain.IsRole(in.Role) {
		msgs = append(msgs, "role must be one of: "+strings.Join(domain.Roles, ", "))
	}
	if !domain.IsStatus(in.Status) {
		msgs = append(msgs, "status must be one of: "+strings.Join(domain.Statuses, ", "))
	}
	if len(msgs) > 0 {
		return &domain.ValidationError{Messages: msgs}
	}
	return nil
}
