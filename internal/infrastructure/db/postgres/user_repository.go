package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shopkit/accounts-api/internal/core/domain"
)

// PostgreSQL error codes for the constraints on the users table.
const (
	codeUniqueViolation  = "23505"
	codeNotNullViolation = "23502"
	codeCheckViolation   = "23514"
)

// Querier is the subset of *pgxpool.Pool the repository needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password, role, verified, verification_token,
	firstname, lastname, phone, status, created_at, updated_at`

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	const query = `
		INSERT INTO users (email, password, role, firstname, lastname, phone, status, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, NULLIF($7, ''), $8, $9)
		RETURNING ` + userColumns

	row := r.db.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Firstname,
		user.Lastname,
		user.Phone,
		user.Status,
		user.CreatedAt,
		user.UpdatedAt,
	)

	created, err := scanUser(row)
	if err != nil {
		if ve := translateError(err); ve != nil {
			return nil, ve
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u                           domain.User
		firstname, lastname, status *string
		createdAt, updatedAt        time.Time
	)
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Verified,
		&u.VerificationToken,
		&firstname,
		&lastname,
		&u.Phone,
		&status,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	u.Firstname = deref(firstname)
	u.Lastname = deref(lastname)
	u.Status = deref(status)
	u.CreatedAt = createdAt.UTC()
	u.UpdatedAt = updatedAt.UTC()
	return &u, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// translateError maps a rejected constraint to a *domain.ValidationError.
// It returns nil for any other error.
func translateError(err error) *domain.ValidationError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		column := uniqueColumn(pgErr.ConstraintName)
		return &domain.ValidationError{Messages: []string{column + " must be unique"}}
	case codeNotNullViolation:
		return &domain.ValidationError{Messages: []string{pgErr.ColumnName + " cannot be null"}}
	case codeCheckViolation:
		if pgErr.ConstraintName == "users_status_check" {
			return &domain.ValidationError{Messages: []string{"status must be one of active, inactive, pending_approval"}}
		}
		return &domain.ValidationError{Messages: []string{pgErr.ConstraintName + " violated"}}
	}
	return nil
}

// uniqueColumn recovers the column from Postgres' default unique constraint
// name, users_<column>_key.
func uniqueColumn(constraint string) string {
	if strings.HasPrefix(constraint, "users_") && strings.HasSuffix(constraint, "_key") {
		if col := strings.TrimSuffix(strings.TrimPrefix(constraint, "users_"), "_key"); col != "" {
			return col
		}
	}
	return "email"
}
