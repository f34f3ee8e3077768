// internal/app/store/activity/store.go
package activity

import (
	"context"
	"time"

	"github.com/communa-dev/communa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages the append-only activity log. Entries are never updated or
// deleted by the application.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activity_log")}
}

// Append writes one entry. The timestamp is set here so callers can't skew it.
func (s *Store) Append(ctx context.Context, action string, actorID primitive.ObjectID, threadID *primitive.ObjectID) error {
	entry := models.ActivityEntry{
		ID:        primitive.NewObjectID(),
		Action:    action,
		ActorID:   actorID,
		ThreadID:  threadID,
		Timestamp: time.Now().UTC(),
	}
	_, err := s.c.InsertOne(ctx, entry)
	return err
}

// ListByThread returns a page of entries for a thread, oldest first, plus
// the total count.
func (s *Store) ListByThread(ctx context.Context, threadID primitive.ObjectID, skip, limit int64) ([]models.ActivityEntry, int64, error) {
	filter := bson.M{"thread_id": threadID}
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(skip).SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var entries []models.ActivityEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ListByActor returns a page of entries recorded for an actor, newest first.
func (s *Store) ListByActor(ctx context.Context, actorID primitive.ObjectID, skip, limit int64) ([]models.ActivityEntry, int64, error) {
	filter := bson.M{"actor_id": actorID}
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var entries []models.ActivityEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
