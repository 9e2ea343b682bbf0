package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shopkit/accounts-api/internal/core/domain"
)

type stubUserRepo struct {
	users   map[string]*domain.User
	finds   int
	findErr error
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.finds++
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	created := *u
	created.ID = int64(len(r.users) + 1)
	r.users[u.Email] = &created
	return &created, nil
}

func newCache(t *testing.T, repo *stubUserRepo) (*UserCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewUserCache(repo, client, time.Minute, zerolog.Nop()), mr
}

func TestUserCache_ReadThrough(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*domain.User{
		"a@b.co": {ID: 1, Email: "a@b.co", PasswordHash: "hash", Role: "user"},
	}}
	cache, mr := newCache(t, repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		u, err := cache.FindByEmail(ctx, "a@b.co")
		if err != nil {
			t.Fatalf("lookup %d: %v", i, err)
		}
		if u.PasswordHash != "hash" {
			t.Fatalf("password hash lost in cache: %+v", u)
		}
	}
	if repo.finds != 1 {
		t.Fatalf("expected one store lookup, got %d", repo.finds)
	}
	if !mr.Exists(userKey("a@b.co")) {
		t.Fatal("expected cache entry")
	}
	if ttl := mr.TTL(userKey("a@b.co")); ttl != time.Minute {
		t.Fatalf("unexpected ttl %v", ttl)
	}
}

func TestUserCache_NotFoundIsNotCached(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*domain.User{}}
	cache, mr := newCache(t, repo)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := cache.FindByEmail(ctx, "x@b.co"); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	}
	if repo.finds != 2 {
		t.Fatalf("expected every miss to reach the store, got %d", repo.finds)
	}
	if mr.Exists(userKey("x@b.co")) {
		t.Fatal("unexpected negative cache entry")
	}
}

func TestUserCache_CreatePopulates(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*domain.User{}}
	cache, _ := newCache(t, repo)
	ctx := context.Background()

	created, err := cache.Create(ctx, &domain.User{Email: "n@b.co", PasswordHash: "h", Role: "admin"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	u, err := cache.FindByEmail(ctx, "n@b.co")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if u.ID != created.ID || repo.finds != 0 {
		t.Fatalf("expected cached user, got %+v after %d store lookups", u, repo.finds)
	}
}

func TestUserCache_FallsBackWhenRedisDown(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*domain.User{
		"a@b.co": {ID: 1, Email: "a@b.co"},
	}}
	cache, mr := newCache(t, repo)
	mr.Close()

	u, err := cache.FindByEmail(context.Background(), "a@b.co")
	if err != nil {
		t.Fatalf("expected store result, got %v", err)
	}
	if u.ID != 1 {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestUserCache_StoreErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	cache, _ := newCache(t, &stubUserRepo{findErr: boom})

	if _, err := cache.FindByEmail(context.Background(), "a@b.co"); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}
