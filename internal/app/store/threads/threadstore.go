// internal/app/store/threads/threadstore.go
package threadstore

import (
	"context"
	"time"

	"github.com/communa-dev/communa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_threads")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.GroupThread, error) {
	var t models.GroupThread
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.GroupThread{}, err
	}
	return t, nil
}

func (s *Store) Create(ctx context.Context, t models.GroupThread) (models.GroupThread, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.Contribution = 0
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.GroupThread{}, err
	}
	return t, nil
}

// ThreadRow is one row of the thread listing with the assignment title
// resolved when the thread is linked to one.
type ThreadRow struct {
	ID              primitive.ObjectID  `bson:"_id" json:"id"`
	Title           string              `bson:"title" json:"title"`
	AuthorID        primitive.ObjectID  `bson:"author_id" json:"author_id"`
	AssignmentID    *primitive.ObjectID `bson:"assignment_id,omitempty" json:"assignment_id,omitempty"`
	AssignmentTitle string              `bson:"assignment_title,omitempty" json:"assignment_title,omitempty"`
	Contribution    int                 `bson:"contribution" json:"contribution"`
	CreatedAt       time.Time           `bson:"created_at" json:"created_at"`
}

// ListPage returns a page of threads in a group, newest first, plus the
// total count. Assignment titles are resolved in the same aggregation.
func (s *Store) ListPage(ctx context.Context, groupID primitive.ObjectID, skip, limit int64) ([]ThreadRow, int64, error) {
	total, err := s.c.CountDocuments(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return nil, 0, err
	}

	cur, err := s.c.Aggregate(ctx, []bson.M{
		{"$match": bson.M{"group_id": groupID}},
		{"$sort": bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		{"$skip": skip},
		{"$limit": limit},
		{"$lookup": bson.M{
			"from":         "assignments",
			"localField":   "assignment_id",
			"foreignField": "_id",
			"as":           "assignment",
		}},
		{"$unwind": bson.M{"path": "$assignment", "preserveNullAndEmptyArrays": true}},
		{"$project": bson.M{
			"title":            1,
			"author_id":        1,
			"assignment_id":    1,
			"contribution":     1,
			"created_at":       1,
			"assignment_title": "$assignment.title",
		}},
	})
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var rows []ThreadRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// IncContribution applies a point delta to the thread's running sum.
func (s *Store) IncContribution(ctx context.Context, id primitive.ObjectID, delta int) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"contribution": delta}})
	return err
}
