// internal/app/store/tasks/taskstore.go
package taskstore

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
	return &Store{c: db.Collection("group_tasks")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.GroupTask, error) {
	var t models.GroupTask
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.GroupTask{}, err
	}
	return t, nil
}

func (s *Store) Create(ctx context.Context, t models.GroupTask) (models.GroupTask, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	if t.AssigneeIDs == nil {
		t.AssigneeIDs = []primitive.ObjectID{}
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.GroupTask{}, err
	}
	return t, nil
}

// Update applies a partial field replacement. Nil pointers keep the current
// values; a non-nil empty assignee slice clears the assignment list.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, description, status *string, assigneeIDs *[]primitive.ObjectID) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if description != nil {
		set["description"] = *description
	}
	if status != nil {
		set["status"] = *status
	}
	if assigneeIDs != nil {
		set["assignee_ids"] = *assigneeIDs
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

// Delete is a hard delete.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListPage returns a page of tasks in a thread ordered oldest first, plus
// the total count.
func (s *Store) ListPage(ctx context.Context, threadID primitive.ObjectID, skip, limit int64) ([]models.GroupTask, int64, error) {
	filter := bson.M{"thread_id": threadID}
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(skip).SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var tasks []models.GroupTask
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}
