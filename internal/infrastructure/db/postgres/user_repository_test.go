package postgres

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shopkit/accounts-api/internal/core/domain"
)

// stubRow fills Scan destinations from values in column order.
type stubRow struct {
	values []any
	err    error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: want %d destinations, got %d", len(r.values), len(dest))
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

type stubQuerier struct {
	row      stubRow
	lastSQL  string
	lastArgs []any
}

func (q *stubQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.lastSQL, q.lastArgs = sql, args
	return q.row
}

func strPtr(s string) *string { return &s }

func userRow(firstname, status *string) stubRow {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return stubRow{values: []any{
		int64(7), "a@b.co", "hash", "user", false, (*string)(nil),
		firstname, (*string)(nil), (*string)(nil), status, ts, ts,
	}}
}

func TestFindByEmail(t *testing.T) {
	q := &stubQuerier{row: userRow(strPtr("Ana"), strPtr("active"))}
	repo := NewUserRepository(q)

	u, err := repo.FindByEmail(context.Background(), "a@b.co")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != 7 || u.Email != "a@b.co" || u.PasswordHash != "hash" {
		t.Fatalf("unexpected user %+v", u)
	}
	if u.Firstname != "Ana" || u.Lastname != "" || u.Status != "active" {
		t.Fatalf("nullable columns not mapped: %+v", u)
	}
	if q.lastArgs[0] != "a@b.co" {
		t.Fatalf("expected email argument, got %v", q.lastArgs)
	}
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo := NewUserRepository(&stubQuerier{row: stubRow{err: pgx.ErrNoRows}})

	_, err := repo.FindByEmail(context.Background(), "missing@b.co")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestFindByEmail_DriverError(t *testing.T) {
	boom := errors.New("conn reset")
	repo := NewUserRepository(&stubQuerier{row: stubRow{err: boom}})

	_, err := repo.FindByEmail(context.Background(), "a@b.co")
	if !errors.Is(err, boom) || errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected wrapped driver error, got %v", err)
	}
}

func TestCreate(t *testing.T) {
	q := &stubQuerier{row: userRow(nil, nil)}
	repo := NewUserRepository(q)

	u, err := repo.Create(context.Background(), &domain.User{Email: "a@b.co", PasswordHash: "hash", Role: "user"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != 7 || u.Verified {
		t.Fatalf("unexpected user %+v", u)
	}
	if len(q.lastArgs) != 9 {
		t.Fatalf("expected 9 insert arguments, got %d", len(q.lastArgs))
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	q := &stubQuerier{row: stubRow{err: &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}}}
	repo := NewUserRepository(q)

	_, err := repo.Create(context.Background(), &domain.User{Email: "a@b.co"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Messages) != 1 || ve.Messages[0] != "email must be unique" {
		t.Fatalf("unexpected messages %v", ve.Messages)
	}
}

func TestTranslateError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want []string
	}{
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, []string{"email must be unique"}},
		{"unique unknown constraint", &pgconn.PgError{Code: "23505", ConstraintName: "idx"}, []string{"email must be unique"}},
		{"not null", &pgconn.PgError{Code: "23502", ColumnName: "password"}, []string{"password cannot be null"}},
		{"status check", &pgconn.PgError{Code: "23514", ConstraintName: "users_status_check"},
			[]string{"status must be one of active, inactive, pending_approval"}},
		{"wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}),
			[]string{"email must be unique"}},
		{"other pg error", &pgconn.PgError{Code: "08006"}, nil},
		{"plain error", errors.New("boom"), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ve := translateError(tc.err)
			if tc.want == nil {
				if ve != nil {
					t.Fatalf("expected nil, got %v", ve)
				}
				return
			}
			if ve == nil || !reflect.DeepEqual(ve.Messages, tc.want) {
				t.Fatalf("got %v, want %v", ve, tc.want)
			}
		})
	}
}

func TestMigrationNames(t *testing.T) {
	names, err := migrationNames()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) == 0 || names[0] != "001_create_users.sql" {
		t.Fatalf("unexpected migrations %v", names)
	}
}
