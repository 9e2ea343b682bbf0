package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopkit/accounts-api/internal/core/domain"
)

const (
	collectionUsers    = "users"
	collectionCounters = "counters"
)

// UserRepository stores accounts in MongoDB. IDs are drawn from a counter
// document so they stay numeric like the relational store's.
type UserRepository struct {
	users    *mongo.Collection
	counters *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users:    db.Collection(collectionUsers),
		counters: db.Collection(collectionCounters),
	}
}

type userDocument struct {
	ID                int64     `bson:"_id"`
	Email             string    `bson:"email"`
	Password          string    `bson:"password"`
	Role              string    `bson:"role"`
	Verified          bool      `bson:"verified"`
	VerificationToken *string   `bson:"verification_token,omitempty"`
	Firstname         string    `bson:"firstname,omitempty"`
	Lastname          string    `bson:"lastname,omitempty"`
	Phone             *string   `bson:"phone,omitempty"`
	Status            string    `bson:"status,omitempty"`
	CreatedAt         time.Time `bson:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at"`
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := userDocument{
		ID:        id,
		Email:     user.Email,
		Password:  user.PasswordHash,
		Role:      user.Role,
		Firstname: user.Firstname,
		Lastname:  user.Lastname,
		Phone:     user.Phone,
		Status:    user.Status,
		CreatedAt: user.CreatedAt.UTC().Truncate(time.Millisecond),
		UpdatedAt: user.UpdatedAt.UTC().Truncate(time.Millisecond),
	}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &domain.ValidationError{Messages: []string{"email must be unique"}}
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the unique email index the duplicate check relies on.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *UserRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": collectionUsers},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next user id: %w", err)
	}
	return counter.Seq, nil
}

func (d userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:                d.ID,
		Email:             d.Email,
		PasswordHash:      d.Password,
		Role:              d.Role,
		Verified:          d.Verified,
		VerificationToken: d.VerificationToken,
		Firstname:         d.Firstname,
		Lastname:          d.Lastname,
		Phone:             d.Phone,
		Status:            d.Status,
		CreatedAt:         d.CreatedAt.UTC(),
		UpdatedAt:         d.UpdatedAt.UTC(),
	}
}
