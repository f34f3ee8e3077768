// internal/app/store/posts/poststore.go
package poststore

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
	return &Store{c: db.Collection("group_posts")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.GroupPost, error) {
	var p models.GroupPost
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.GroupPost{}, err
	}
	return p, nil
}

func (s *Store) Create(ctx context.Context, p models.GroupPost) (models.GroupPost, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.GroupPost{}, err
	}
	return p, nil
}

func (s *Store) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"content":    content,
		"updated_at": time.Now().UTC(),
	}})
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

// ListPage returns a page of posts in a thread ordered oldest first, plus
// the total count.
func (s *Store) ListPage(ctx context.Context, threadID primitive.ObjectID, skip, limit int64) ([]models.GroupPost, int64, error) {
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

	var posts []models.GroupPost
	if err := cur.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
