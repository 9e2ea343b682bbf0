package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shopkit/accounts-api/internal/api/metrics"
	"github.com/shopkit/accounts-api/internal/core/domain"
	"github.com/shopkit/accounts-api/internal/core/ports"
)

const defaultCacheTTL = 5 * time.Minute

// UserCache is a read-through cache in front of a ports.UserRepository.
// Key format: user:email:<email>
//
// Only found users are cached. A cache failure never fails the request; the
// lookup falls through to the wrapped repository.
type UserCache struct {
	next   ports.UserRepository
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

var _ ports.UserRepository = (*UserCache)(nil)

// NewUserCache wraps next with a cache backed by client.
func NewUserCache(next ports.UserRepository, client *redis.Client, ttl time.Duration, log zerolog.Logger) *UserCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &UserCache{next: next, client: client, ttl: ttl, log: log}
}

// cachedUser mirrors domain.User including the password hash, which the
// domain type keeps out of JSON.
type cachedUser struct {
	ID                int64     `json:"id"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"password_hash"`
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

func (c *UserCache) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, userKey(email)).Bytes()
	switch {
	case err == nil:
		var cu cachedUser
		if err := json.Unmarshal(raw, &cu); err == nil {
			metrics.UserCacheRequestsTotal.WithLabelValues(metrics.CacheHit).Inc()
			return cu.toDomain(), nil
		}
		c.log.Warn().Str("email", email).Msg("discarding unreadable cache entry")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Msg("user cache read failed")
	}
	metrics.UserCacheRequestsTotal.WithLabelValues(metrics.CacheMiss).Inc()

	u, err := c.next.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	c.store(ctx, u)
	return u, nil
}

func (c *UserCache) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	created, err := c.next.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	c.store(ctx, created)
	return created, nil
}

func (c *UserCache) store(ctx context.Context, u *domain.User) {
	raw, err := json.Marshal(fromDomain(u))
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, userKey(u.Email), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("user cache write failed")
	}
}

func userKey(email string) string {
	return "user:email:" + email
}

func fromDomain(u *domain.User) cachedUser {
	return cachedUser{
		ID:                u.ID,
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		Role:              u.Role,
		Verified:          u.Verified,
		VerificationToken: u.VerificationToken,
		Firstname:         u.Firstname,
		Lastname:          u.Lastname,
		Phone:             u.Phone,
		Status:            u.Status,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func (cu cachedUser) toDomain() *domain.User {
	return &domain.User{
		ID:                cu.ID,
		Email:             cu.Email,
		PasswordHash:      cu.PasswordHash,
		Role:              cu.Role,
		Verified:          cu.Verified,
		VerificationToken: cu.VerificationToken,
		Firstname:         cu.Firstname,
		Lastname:          cu.Lastname,
		Phone:             cu.Phone,
		Status:            cu.Status,
		CreatedAt:         cu.CreatedAt,
		UpdatedAt:         cu.UpdatedAt,
	}
}
