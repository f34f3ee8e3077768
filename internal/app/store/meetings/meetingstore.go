// internal/app/store/meetings/meetingstore.go
package meetingstore

import (
	"context"
	"time"

	"github.com/communa-dev/communa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("meetings")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Meeting, error) {
	var m models.Meeting
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return models.Meeting{}, err
	}
	return m, nil
}

func (s *Store) Create(ctx context.Context, m models.Meeting) (models.Meeting, error) {
	now := time.Now().UTC()
	m.ID = primitive.NewObjectID()
	m.CreatedAt = now
	m.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Meeting{}, err
	}
	return m, nil
}

// Update replaces topic/location/schedule. Zero times keep current values.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, topic, location string, startsAt, endsAt time.Time) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if topic != "" {
		set["topic"] = topic
	}
	set["location"] = location
	if !startsAt.IsZero() {
		set["starts_at"] = startsAt
	}
	if !endsAt.IsZero() {
		set["ends_at"] = endsAt
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByCourse returns a page of meetings ordered by start time.
func (s *Store) ListByCourse(ctx context.Context, courseID primitive.ObjectID, skip, limit int64) ([]models.Meeting, int64, error) {
	filter := bson.M{"course_id": courseID}
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "starts_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(skip).SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var meetings []models.Meeting
	if err := cur.All(ctx, &meetings); err != nil {
		return nil, 0, err
	}
	return meetings, total, nil
}
