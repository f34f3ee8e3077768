// internal/app/store/submissions/submissionstore.go
package submissionstore

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
	return &Store{c: db.Collection("submissions")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Submission, error) {
	var sub models.Submission
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sub); err != nil {
		return models.Submission{}, err
	}
	return sub, nil
}

// Upsert creates or replaces the student's submission for an assignment.
// The unique (assignment_id, student_id) index guarantees one document per
// pair; re-submitting replaces the file key and note and clears any grade.
func (s *Store) Upsert(ctx context.Context, assignmentID, studentID primitive.ObjectID, fileKey, note string) (models.Submission, error) {
	now := time.Now().UTC()
	filter := bson.M{"assignment_id": assignmentID, "student_id": studentID}
	update := bson.M{
		"$set": bson.M{
			"file_key":   fileKey,
			"note":       note,
			"updated_at": now,
		},
		"$unset": bson.M{"score": "", "feedback": ""},
		"$setOnInsert": bson.M{
			"assignment_id": assignmentID,
			"student_id":    studentID,
			"submitted_at":  now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var sub models.Submission
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&sub); err != nil {
		return models.Submission{}, err
	}
	return sub, nil
}

// Grade records a score and feedback on a submission.
func (s *Store) Grade(ctx context.Context, id primitive.ObjectID, score int, feedback string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"score":      score,
		"feedback":   feedback,
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

// ListByAssignment returns a page of submissions for grading.
func (s *Store) ListByAssignment(ctx context.Context, assignmentID primitive.ObjectID, skip, limit int64) ([]models.Submission, int64, error) {
	filter := bson.M{"assignment_id": assignmentID}
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "submitted_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(skip).SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var subs []models.Submission
	if err := cur.All(ctx, &subs); err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// GetByStudent returns the student's submission for an assignment.
func (s *Store) GetByStudent(ctx context.Context, assignmentID, studentID primitive.ObjectID) (models.Submission, error) {
	var sub models.Submission
	err := s.c.FindOne(ctx, bson.M{"assignment_id": assignmentID, "student_id": studentID}).Decode(&sub)
	if err != nil {
		return models.Submission{}, err
	}
	return sub, nil
}
