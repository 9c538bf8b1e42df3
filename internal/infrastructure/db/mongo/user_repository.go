package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dailynotes/notes-api/internal/core/domain"
)

const collectionUsers = "users"

// UserRepository implements ports.UserDirectory on the users collection.
// Each user is a single document, so every read and write is atomic.
type UserRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers), now: time.Now}
}

type userDocument struct {
	ID                 string    `bson:"_id"`
	Email              string    `bson:"email"`
	PasswordHash       string    `bson:"password_hash"`
	RefreshToken       string    `bson:"refresh_token"`
	RefreshTokenExpiry int64     `bson:"refresh_token_expiry"`
	CreatedAt          time.Time `bson:"created_at"`
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:                 d.ID,
		Email:              d.Email,
		PasswordHash:       d.PasswordHash,
		RefreshToken:       d.RefreshToken,
		RefreshTokenExpiry: d.RefreshTokenExpiry,
		CreatedAt:          d.CreatedAt,
	}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": userID})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: find user: %v", domain.ErrUnavailable, err)
	}
	return doc.toDomain(), nil
}

// Create inserts a new user with a generated id. The unique email index
// turns a lost signup race into domain.ErrUserExists.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash, refreshToken string, refreshTokenExpiry int64) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := userDocument{
		ID:                 uuid.NewString(),
		Email:              email,
		PasswordHash:       passwordHash,
		RefreshToken:       refreshToken,
		RefreshTokenExpiry: refreshTokenExpiry,
		CreatedAt:          r.now().UTC(),
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

// SetRefreshToken writes token and expiry in a single $set. Concurrent
// callers are last-write-wins.
func (r *UserRepository) SetRefreshToken(ctx context.Context, userID, token string, expiry int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"refresh_token": token, "refresh_token_expiry": expiry}},
	)
	if err != nil {
		return false, fmt.Errorf("update refresh token: %w", err)
	}
	return res.MatchedCount == 1, nil
}

// EnsureIndexes creates the unique email index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
