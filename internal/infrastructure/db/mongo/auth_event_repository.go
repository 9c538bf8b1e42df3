package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dailynotes/notes-api/internal/core/domain"
)

const collectionAuthEvents = "auth_events"

// AuthEventRepository implements ports.AuthEventRepository on the
// auth_events audit collection.
type AuthEventRepository struct {
	col *mongo.Collection
}

func NewAuthEventRepository(db *mongo.Database) *AuthEventRepository {
	return &AuthEventRepository{col: db.Collection(collectionAuthEvents)}
}

func (r *AuthEventRepository) Insert(ctx context.Context, event *domain.AuthEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, authEventDocument(event, time.Now()))
	return err
}

func authEventDocument(event *domain.AuthEvent, recordedAt time.Time) bson.M {
	doc := bson.M{
		"kind":        string(event.Kind),
		"at":          event.At.UTC(),
		"recorded_at": recordedAt.UTC(),
	}
	if event.UserID != "" {
		doc["user_id"] = event.UserID
	}
	if event.Email != "" {
		doc["email"] = event.Email
	}
	if event.Reason != "" {
		doc["reason"] = event.Reason
	}
	return doc
}

func (r *AuthEventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "kind", Value: 1}}},
	})
	return err
}
