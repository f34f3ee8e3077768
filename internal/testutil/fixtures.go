// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/communa-dev/communa/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given roles.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, nrp string, roles ...string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		Email:        email,
		PasswordHash: "$2a$10$test-not-a-real-hash",
		NRP:          nrp,
		Roles:        roles,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("create test user: %v", err)
	}
	return user
}

// CreateStudent inserts a MAHASISWA user with an NRP.
func (f *Fixtures) CreateStudent(ctx context.Context, fullName, email, nrp string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, nrp, models.RoleMahasiswa)
}

// CreateLecturer inserts a DOSEN user.
func (f *Fixtures) CreateLecturer(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "", models.RoleDosen)
}

// CreateCourse inserts a course taught by the given lecturers.
func (f *Fixtures) CreateCourse(ctx context.Context, code, name string, lecturerIDs ...primitive.ObjectID) models.Course {
	f.t.Helper()

	if lecturerIDs == nil {
		lecturerIDs = []primitive.ObjectID{}
	}
	now := time.Now().UTC()
	course := models.Course{
		ID:          primitive.NewObjectID(),
		Code:        code,
		Name:        name,
		NameCI:      text.Fold(name),
		MajorID:     primitive.NewObjectID(),
		TermID:      primitive.NewObjectID(),
		LecturerIDs: lecturerIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("courses").InsertOne(ctx, course); err != nil {
		f.t.Fatalf("create test course: %v", err)
	}
	return course
}

// CreateGroup inserts a study group in the course with the given capacity.
func (f *Fixtures) CreateGroup(ctx context.Context, courseID primitive.ObjectID, name string, capacity int) models.StudyGroup {
	f.t.Helper()

	now := time.Now().UTC()
	group := models.StudyGroup{
		ID:        primitive.NewObjectID(),
		CourseID:  courseID,
		Name:      name,
		NameCI:    text.Fold(name),
		Capacity:  capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("study_groups").InsertOne(ctx, group); err != nil {
		f.t.Fatalf("create test group: %v", err)
	}
	return group
}

// CreateMembership inserts a membership with the given status.
func (f *Fixtures) CreateMembership(ctx context.Context, groupID, studentID primitive.ObjectID, status string) models.GroupMembership {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.GroupMembership{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		StudentID: studentID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("group_memberships").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("create test membership: %v", err)
	}
	return m
}

// CreateThread inserts a thread in the group.
func (f *Fixtures) CreateThread(ctx context.Context, groupID, authorID primitive.ObjectID, title string) models.GroupThread {
	f.t.Helper()

	now := time.Now().UTC()
	thread := models.GroupThread{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		AuthorID:  authorID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("group_threads").InsertOne(ctx, thread); err != nil {
		f.t.Fatalf("create test thread: %v", err)
	}
	return thread
}

// CreateAssignment inserts an assignment in the course.
func (f *Fixtures) CreateAssignment(ctx context.Context, courseID primitive.ObjectID, title string) models.Assignment {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Assignment{
		ID:        primitive.NewObjectID(),
		CourseID:  courseID,
		Title:     title,
		DueAt:     now.Add(7 * 24 * time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("assignments").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("create test assignment: %v", err)
	}
	return a
}
