package groupstore_test

import (
	"testing"

	groupstore "github.com/communa-dev/communa/internal/app/store/groups"
	"github.com/communa-dev/communa/internal/domain/models"
	"github.com/communa-dev/communa/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lecturer := fixtures.CreateLecturer(ctx, "Trial Lecturer", "lecturer@example.com")
	course := fixtures.CreateCourse(ctx, "IF101", "Intro", lecturer.ID)

	g, err := store.Create(ctx, models.StudyGroup{
		CourseID: course.ID,
		Name:     "Team Alpha",
		Capacity: 4,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if g.TotalContribution != 0 {
		t.Errorf("expected zero total contribution, got %d", g.TotalContribution)
	}
}

func TestStore_Create_DuplicateNameInCourse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lecturer := fixtures.CreateLecturer(ctx, "Trial Lecturer", "lecturer@example.com")
	course := fixtures.CreateCourse(ctx, "IF101", "Intro", lecturer.ID)
	other := fixtures.CreateCourse(ctx, "IF102", "Algorithms", lecturer.ID)
	fixtures.CreateGroup(ctx, course.ID, "Team Alpha", 4)

	// Same name, case-folded, in the same course is a duplicate.
	_, err := store.Create(ctx, models.StudyGroup{
		CourseID: course.ID,
		Name:     "team alpha",
		Capacity: 4,
	})
	if err != groupstore.ErrDuplicateGroupName {
		t.Fatalf("expected ErrDuplicateGroupName, got %v", err)
	}

	// The same name in a different course is fine.
	if _, err := store.Create(ctx, models.StudyGroup{
		CourseID: other.ID,
		Name:     "Team Alpha",
		Capacity: 4,
	}); err != nil {
		t.Fatalf("Create in other course failed: %v", err)
	}
}

func TestStore_IncTotalContribution(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lecturer := fixtures.CreateLecturer(ctx, "Trial Lecturer", "lecturer@example.com")
	course := fixtures.CreateCourse(ctx, "IF101", "Intro", lecturer.ID)
	group := fixtures.CreateGroup(ctx, course.ID, "Team Alpha", 4)

	if err := store.IncTotalContribution(ctx, group.ID, 10); err != nil {
		t.Fatalf("IncTotalContribution failed: %v", err)
	}
	if err := store.IncTotalContribution(ctx, group.ID, -10); err != nil {
		t.Fatalf("IncTotalContribution failed: %v", err)
	}

	got, err := store.GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.TotalContribution != 0 {
		t.Errorf("expected total contribution 0 after round trip, got %d", got.TotalContribution)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lecturer := fixtures.CreateLecturer(ctx, "Trial Lecturer", "lecturer@example.com")
	course := fixtures.CreateCourse(ctx, "IF101", "Intro", lecturer.ID)
	group := fixtures.CreateGroup(ctx, course.ID, "Team Alpha", 4)

	deleted, err := store.Delete(ctx, group.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted, got %d", deleted)
	}

	// A second delete finds nothing.
	deleted, err = store.Delete(ctx, group.ID)
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 deleted, got %d", deleted)
	}
}
