// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/communa-dev/communa/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrDuplicateGroupName = errors.New("a group with this name already exists in the course")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("study_groups")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.StudyGroup, error) {
	var g models.StudyGroup
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.StudyGroup{}, err
	}
	return g, nil
}

func (s *Store) Create(ctx context.Context, g models.StudyGroup) (models.StudyGroup, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.NameCI = text.Fold(g.Name)
	g.TotalContribution = 0
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		if wafflemongo.IsDup(err) {
			return models.StudyGroup{}, ErrDuplicateGroupName
		}
		return models.StudyGroup{}, err
	}
	return g, nil
}

// UpdateInfo replaces name/description/capacity/registration state.
// Zero capacity keeps the current value; empty name keeps the current name.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name, desc string, capacity int, isClosed *bool) error {
	set := bson.M{
		"updated_at":  time.Now().UTC(),
		"description": desc,
	}
	if strings.TrimSpace(name) != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if capacity > 0 {
		set["capacity"] = capacity
	}
	if isClosed != nil {
		set["is_closed"] = *isClosed
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateGroupName
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a group by ID. Returns the number of documents deleted (0 or 1).
// Callers cascade membership deletion via the membership store.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByCourse returns a page of groups in a course plus the total count.
func (s *Store) ListByCourse(ctx context.Context, courseID primitive.ObjectID, skip, limit int64) ([]models.StudyGroup, int64, error) {
	filter := bson.M{"course_id": courseID}
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(skip).SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var groups []models.StudyGroup
	if err := cur.All(ctx, &groups); err != nil {
		return nil, 0, err
	}
	return groups, total, nil
}

// IncTotalContribution applies a point delta to the group's running total.
// Single-document $inc, atomic on its own.
func (s *Store) IncTotalContribution(ctx context.Context, id primitive.ObjectID, delta int) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"total_contribution": delta}})
	return err
}
