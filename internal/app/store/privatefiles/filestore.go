// internal/app/store/privatefiles/filestore.go
package filestore

import (
	"context"
	"time"

	"github.com/communa-dev/communa/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("private_files")}
}

// Create records file metadata for the owner. A fresh uuid becomes the
// storage key; the path stays whatever opaque string the caller supplied.
func (s *Store) Create(ctx context.Context, ownerID primitive.ObjectID, fileName, path string) (models.PrivateFile, error) {
	now := time.Now().UTC()
	f := models.PrivateFile{
		ID:        primitive.NewObjectID(),
		OwnerID:   ownerID,
		FileName:  fileName,
		FileKey:   uuid.NewString(),
		Path:      path,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, f); err != nil {
		return models.PrivateFile{}, err
	}
	return f, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.PrivateFile, error) {
	var f models.PrivateFile
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		return models.PrivateFile{}, err
	}
	return f, nil
}

func (s *Store) Rename(ctx context.Context, id primitive.ObjectID, fileName string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"file_name":  fileName,
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

// ListByOwner returns a page of the owner's files, newest first.
func (s *Store) ListByOwner(ctx context.Context, ownerID primitive.ObjectID, skip, limit int64) ([]models.PrivateFile, int64, error) {
	filter := bson.M{"owner_id": ownerID}
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var files []models.PrivateFile
	if err := cur.All(ctx, &files); err != nil {
		return nil, 0, err
	}
	return files, total, nil
}
