package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dailynotes/notes-api/internal/core/domain"
	"github.com/dailynotes/notes-api/internal/core/ports"
)

const collectionNotes = "notes"

// NoteRepository implements ports.NoteRepository. Listing uses keyset
// pagination over (note_date, _id).
type NoteRepository struct {
	col *mongo.Collection
}

func NewNoteRepository(db *mongo.Database) *NoteRepository {
	return &NoteRepository{col: db.Collection(collectionNotes)}
}

func (r *NoteRepository) Create(ctx context.Context, n *domain.Note) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func (r *NoteRepository) Update(ctx context.Context, userID, noteID string, upd ports.NoteUpdate, at time.Time) (*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": at}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Content != nil {
		set["content"] = *upd.Content
	}
	if upd.AttachmentKey != nil {
		set["attachment_key"] = *upd.AttachmentKey
	}

	var n domain.Note
	err := r.col.FindOneAndUpdate(ctx,
		liveNote(userID, noteID),
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&n)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, fmt.Errorf("update note: %w", err)
	}
	return &n, nil
}

func (r *NoteRepository) SoftDelete(ctx context.Context, userID, noteID string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		liveNote(userID, noteID),
		bson.M{"$set": bson.M{"is_deleted": true, "updated_at": at}},
	)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

func (r *NoteRepository) List(ctx context.Context, q ports.NoteQuery) ([]*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(listSort(q.Descending))
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := r.col.Find(ctx, listFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer cur.Close(ctx)

	notes := make([]*domain.Note, 0, q.Limit)
	for cur.Next(ctx) {
		var n domain.Note
		if err := cur.Decode(&n); err != nil {
			return nil, fmt.Errorf("decode note: %w", err)
		}
		notes = append(notes, &n)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// EnsureIndexes creates the indexes backing listing and search.
func (r *NoteRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_deleted", Value: 1}, {Key: "note_date", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "title", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func liveNote(userID, noteID string) bson.M {
	return bson.M{"_id": noteID, "user_id": userID, "is_deleted": false}
}

func listFilter(q ports.NoteQuery) bson.D {
	filter := bson.D{
		{Key: "user_id", Value: q.UserID},
		{Key: "is_deleted", Value: false},
	}

	if q.MinDate != nil || q.MaxDate != nil {
		rng := bson.D{}
		if q.MinDate != nil {
			rng = append(rng, bson.E{Key: "$gte", Value: *q.MinDate})
		}
		if q.MaxDate != nil {
			rng = append(rng, bson.E{Key: "$lte", Value: *q.MaxDate})
		}
		filter = append(filter, bson.E{Key: "note_date", Value: rng})
	}

	if q.TitleContains != "" {
		filter = append(filter, bson.E{Key: "title", Value: bson.M{
			"$regex":   regexp.QuoteMeta(q.TitleContains),
			"$options": "i",
		}})
	}

	if q.After != nil {
		op := "$gt"
		if q.Descending {
			op = "$lt"
		}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.M{"note_date": bson.M{op: q.After.NoteDate}},
			bson.M{"note_date": q.After.NoteDate, "_id": bson.M{op: q.After.NoteID}},
		}})
	}

	return filter
}

func listSort(descending bool) bson.D {
	dir := 1
	if descending {
		dir = -1
	}
	return bson.D{{Key: "note_date", Value: dir}, {Key: "_id", Value: dir}}
}
