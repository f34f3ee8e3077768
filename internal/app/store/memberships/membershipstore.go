// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/communa-dev/communa/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateRequest surfaces the partial unique index on
// (group_id, student_id) over PENDING/APPROVED documents. It backstops the
// read-then-insert in the join flow under concurrent requests.
var ErrDuplicateRequest = errors.New("an active membership request already exists for this student")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_memberships")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.GroupMembership, error) {
	var m models.GroupMembership
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return models.GroupMembership{}, err
	}
	return m, nil
}

// GetActive returns the student's PENDING or APPROVED membership in the
// group, if any. REJECTED records are history and never returned here.
func (s *Store) GetActive(ctx context.Context, groupID, studentID primitive.ObjectID) (models.GroupMembership, error) {
	var m models.GroupMembership
	err := s.c.FindOne(ctx, bson.M{
		"group_id":   groupID,
		"student_id": studentID,
		"status":     bson.M{"$in": bson.A{models.MembershipPending, models.MembershipApproved}},
	}).Decode(&m)
	if err != nil {
		return models.GroupMembership{}, err
	}
	return m, nil
}

// Join inserts a fresh PENDING membership with zero contribution.
func (s *Store) Join(ctx context.Context, groupID, studentID primitive.ObjectID) (models.GroupMembership, error) {
	now := time.Now().UTC()
	m := models.GroupMembership{
		ID:           primitive.NewObjectID(),
		GroupID:      groupID,
		StudentID:    studentID,
		Status:       models.MembershipPending,
		Contribution: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.GroupMembership{}, ErrDuplicateRequest
		}
		return models.GroupMembership{}, err
	}
	return m, nil
}

// SetStatus moves a membership to the given status.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     status,
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

// CountByStatus returns the number of memberships in a group with the status.
// The approval flow uses this as a live count; check-then-act under
// concurrent approvals can overshoot capacity (accepted limitation).
func (s *Store) CountByStatus(ctx context.Context, groupID primitive.ObjectID, status string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"group_id": groupID, "status": status})
}

// MemberRow is one row of the membership listing with resolved student info.
type MemberRow struct {
	MembershipID primitive.ObjectID `bson:"_id" json:"membership_id"`
	StudentID    primitive.ObjectID `bson:"student_id" json:"student_id"`
	NRP          string             `bson:"nrp" json:"nrp"`
	FullName     string             `bson:"full_name" json:"name"`
	Status       string             `bson:"status" json:"status"`
	Contribution int                `bson:"contribution" json:"contribution"`
}

// ListPage returns a page of membership rows with the student's NRP and name
// resolved, plus the total membership count for the group.
func (s *Store) ListPage(ctx context.Context, groupID primitive.ObjectID, skip, limit int64) ([]MemberRow, int64, error) {
	total, err := s.c.CountDocuments(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return nil, 0, err
	}

	cur, err := s.c.Aggregate(ctx, []bson.M{
		{"$match": bson.M{"group_id": groupID}},
		{"$sort": bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}},
		{"$skip": skip},
		{"$limit": limit},
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "student_id",
			"foreignField": "_id",
			"as":           "student",
		}},
		{"$unwind": bson.M{"path": "$student", "preserveNullAndEmptyArrays": true}},
		{"$project": bson.M{
			"student_id":   1,
			"status":       1,
			"contribution": 1,
			"nrp":          "$student.nrp",
			"full_name":    "$student.full_name",
		}},
	})
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var rows []MemberRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// IncContribution applies a point delta to the student's APPROVED membership
// in the group. A student with no approved membership is silently skipped;
// this can under-count contribution for non-member authors.
func (s *Store) IncContribution(ctx context.Context, groupID, studentID primitive.ObjectID, delta int) error {
	_, err := s.c.UpdateOne(ctx, bson.M{
		"group_id":   groupID,
		"student_id": studentID,
		"status":     models.MembershipApproved,
	}, bson.M{"$inc": bson.M{"contribution": delta}})
	return err
}

// DeleteByGroup removes all memberships for a group (cascade on group delete).
// Returns the number of documents deleted.
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByStudent returns all of a student's memberships, newest first.
func (s *Store) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.GroupMembership, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"student_id": studentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var memberships []models.GroupMembership
	if err := cur.All(ctx, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}
