// internal/app/store/refdata/refdatastore.go

// Package refdatastore manages the academic reference collections: terms,
// faculties, and majors. They are small, admin-maintained lists, so the
// three stores share a package.
package refdatastore

import (
	"context"
	"errors"
	"time"

	"github.com/communa-dev/communa/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrDuplicate = errors.New("a record with this name or code already exists")

type Store struct {
	terms     *mongo.Collection
	faculties *mongo.Collection
	majors    *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		terms:     db.Collection("academic_terms"),
		faculties: db.Collection("faculties"),
		majors:    db.Collection("majors"),
	}
}

/* ---- academic terms ---- */

func (s *Store) CreateTerm(ctx context.Context, t models.AcademicTerm) (models.AcademicTerm, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.NameCI = text.Fold(t.Name)
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.terms.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return models.AcademicTerm{}, ErrDuplicate
		}
		return models.AcademicTerm{}, err
	}
	return t, nil
}

func (s *Store) GetTerm(ctx context.Context, id primitive.ObjectID) (models.AcademicTerm, error) {
	var t models.AcademicTerm
	if err := s.terms.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.AcademicTerm{}, err
	}
	return t, nil
}

func (s *Store) ListTerms(ctx context.Context) ([]models.AcademicTerm, error) {
	opts := options.Find().SetSort(bson.D{{Key: "starts_at", Value: -1}})
	cur, err := s.terms.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var terms []models.AcademicTerm
	if err := cur.All(ctx, &terms); err != nil {
		return nil, err
	}
	return terms, nil
}

func (s *Store) DeleteTerm(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.terms.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

/* ---- faculties ---- */

func (s *Store) CreateFaculty(ctx context.Context, f models.Faculty) (models.Faculty, error) {
	now := time.Now().UTC()
	f.ID = primitive.NewObjectID()
	f.NameCI = text.Fold(f.Name)
	f.CreatedAt = now
	f.UpdatedAt = now
	if _, err := s.faculties.InsertOne(ctx, f); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Faculty{}, ErrDuplicate
		}
		return models.Faculty{}, err
	}
	return f, nil
}

func (s *Store) GetFaculty(ctx context.Context, id primitive.ObjectID) (models.Faculty, error) {
	var f models.Faculty
	if err := s.faculties.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		return models.Faculty{}, err
	}
	return f, nil
}

func (s *Store) ListFaculties(ctx context.Context) ([]models.Faculty, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.faculties.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var faculties []models.Faculty
	if err := cur.All(ctx, &faculties); err != nil {
		return nil, err
	}
	return faculties, nil
}

func (s *Store) DeleteFaculty(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.faculties.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

/* ---- majors ---- */

func (s *Store) CreateMajor(ctx context.Context, m models.Major) (models.Major, error) {
	now := time.Now().UTC()
	m.ID = primitive.NewObjectID()
	m.NameCI = text.Fold(m.Name)
	m.CreatedAt = now
	m.UpdatedAt = now
	if _, err := s.majors.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Major{}, ErrDuplicate
		}
		return models.Major{}, err
	}
	return m, nil
}

func (s *Store) GetMajor(ctx context.Context, id primitive.ObjectID) (models.Major, error) {
	var m models.Major
	if err := s.majors.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return models.Major{}, err
	}
	return m, nil
}

// ListMajors returns all majors, optionally restricted to one faculty.
func (s *Store) ListMajors(ctx context.Context, facultyID *primitive.ObjectID) ([]models.Major, error) {
	filter := bson.M{}
	if facultyID != nil {
		filter["faculty_id"] = *facultyID
	}
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.majors.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var majors []models.Major
	if err := cur.All(ctx, &majors); err != nil {
		return nil, err
	}
	return majors, nil
}

func (s *Store) DeleteMajor(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.majors.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
