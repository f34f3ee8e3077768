package contrib_test

import (
	"testing"

	"github.com/communa-dev/communa/internal/app/store/contrib"
	groupstore "github.com/communa-dev/communa/internal/app/store/groups"
	membershipstore "github.com/communa-dev/communa/internal/app/store/memberships"
	threadstore "github.com/communa-dev/communa/internal/app/store/threads"
	"github.com/communa-dev/communa/internal/domain/models"
	"github.com/communa-dev/communa/internal/testutil"
	"go.uber.org/zap"
)

func TestLedger_ApplyDelta_RoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ledger := contrib.NewLedger(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lecturer := fixtures.CreateLecturer(ctx, "Trial Lecturer", "lecturer@example.com")
	course := fixtures.CreateCourse(ctx, "IF101", "Intro", lecturer.ID)
	group := fixtures.CreateGroup(ctx, course.ID, "Team Alpha", 4)
	student := fixtures.CreateStudent(ctx, "Budi Santoso", "budi@example.com", "5025211001")
	ms := fixtures.CreateMembership(ctx, group.ID, student.ID, models.MembershipApproved)
	thread := fixtures.CreateThread(ctx, group.ID, student.ID, "Week 1 discussion")

	ledger.ApplyDelta(ctx, group.ID, thread.ID, student.ID, contrib.PostPoints)

	gotMs, err := membershipstore.New(db).GetByID(ctx, ms.ID)
	if err != nil {
		t.Fatalf("loading membership: %v", err)
	}
	gotGroup, err := groupstore.New(db).GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("loading group: %v", err)
	}
	gotThread, err := threadstore.New(db).GetByID(ctx, thread.ID)
	if err != nil {
		t.Fatalf("loading thread: %v", err)
	}

	if gotMs.Contribution != contrib.PostPoints {
		t.Errorf("membership contribution = %d, want %d", gotMs.Contribution, contrib.PostPoints)
	}
	if gotGroup.TotalContribution != contrib.PostPoints {
		t.Errorf("group total contribution = %d, want %d", gotGroup.TotalContribution, contrib.PostPoints)
	}
	if gotThread.Contribution != contrib.PostPoints {
		t.Errorf("thread contribution = %d, want %d", gotThread.Contribution, contrib.PostPoints)
	}

	// The reverse delta restores all three counters.
	ledger.ApplyDelta(ctx, group.ID, thread.ID, student.ID, -contrib.PostPoints)

	gotMs, _ = membershipstore.New(db).GetByID(ctx, ms.ID)
	gotGroup, _ = groupstore.New(db).GetByID(ctx, group.ID)
	gotThread, _ = threadstore.New(db).GetByID(ctx, thread.ID)

	if gotMs.Contribution != 0 || gotGroup.TotalContribution != 0 || gotThread.Contribution != 0 {
		t.Errorf("expected all counters back to zero, got membership=%d group=%d thread=%d",
			gotMs.Contribution, gotGroup.TotalContribution, gotThread.Contribution)
	}
}

func TestLedger_ApplyDelta_NonMemberAuthor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ledger := contrib.NewLedger(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lecturer := fixtures.CreateLecturer(ctx, "Trial Lecturer", "lecturer@example.com")
	course := fixtures.CreateCourse(ctx, "IF101", "Intro", lecturer.ID)
	group := fixtures.CreateGroup(ctx, course.ID, "Team Alpha", 4)
	thread := fixtures.CreateThread(ctx, group.ID, lecturer.ID, "Announcements")

	// A lecturer has no membership record; the group and thread
	// counters still move.
	ledger.ApplyDelta(ctx, group.ID, thread.ID, lecturer.ID, contrib.PostPoints)

	gotGroup, err := groupstore.New(db).GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("loading group: %v", err)
	}
	gotThread, err := threadstore.New(db).GetByID(ctx, thread.ID)
	if err != nil {
		t.Fatalf("loading thread: %v", err)
	}

	if gotGroup.TotalContribution != contrib.PostPoints {
		t.Errorf("group total contribution = %d, want %d", gotGroup.TotalContribution, contrib.PostPoints)
	}
	if gotThread.Contribution != contrib.PostPoints {
		t.Errorf("thread contribution = %d, want %d", gotThread.Contribution, contrib.PostPoints)
	}
}
