package groups_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/communa-dev/communa/internal/app/features/groups"
	activitystore "github.com/communa-dev/communa/internal/app/store/activity"
	"github.com/communa-dev/communa/internal/app/system/activitylog"
	"github.com/communa-dev/communa/internal/domain/models"
	"github.com/communa-dev/communa/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (http.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	handler := groups.NewHandler(db, zap.NewNop(), nil)
	return groups.Routes(handler), testutil.NewFixtures(t, db)
}

func serve(t *testing.T, router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// membershipID looks up the latest membership document for the student.
func membershipID(t *testing.T, f *testutil.Fixtures, groupID, studentID primitive.ObjectID, status string) primitive.ObjectID {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	var doc models.GroupMembership
	err := f.DB().Collection("group_memberships").FindOne(ctx, bson.M{
		"group_id":   groupID,
		"student_id": studentID,
		"status":     status,
	}).Decode(&doc)
	if err != nil {
		t.Fatalf("looking up membership: %v", err)
	}
	return doc.ID
}

func TestJoinApprove_CapacityScenario(t *testing.T) {
	router, fixtures := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lecturer := fixtures.CreateLecturer(ctx, "Trial Lecturer", "lecturer@example.com")
	course := fixtures.CreateCourse(ctx, "IF101", "Intro", lecturer.ID)
	group := fixtures.CreateGroup(ctx, course.ID, "Team Alpha", 1)
	a := fixtures.CreateStudent(ctx, "Student A", "a@example.com", "5025211001")
	b := fixtures.CreateStudent(ctx, "Student B", "b@example.com", "5025211002")
	moderator := testutil.Principal(lecturer)

	base := "/" + group.ID.Hex() + "/memberships"

	// A requests and is approved, filling the single slot.
	rec := serve(t, router, testutil.NewAuthedRequest("POST", base, "", testutil.Principal(a)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("A join: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	aID := membershipID(t, fixtures, group.ID, a.ID, models.MembershipPending)
	rec = serve(t, router, testutil.NewAuthedRequest("POST", base+"/"+aID.Hex()+"/approve", "", moderator))
	if rec.Code != http.StatusOK {
		t.Fatalf("A approve: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// B can still request, but approval must fail on capacity.
	rec = serve(t, router, testutil.NewAuthedRequest("POST", base, "", testutil.Principal(b)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("B join: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	bID := membershipID(t, fixtures, group.ID, b.ID, models.MembershipPending)
	rec = serve(t, router, testutil.NewAuthedRequest("POST", base+"/"+bID.Hex()+"/approve", "", moderator))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("B approve: expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	// B's request is still pending and rejection still works.
	rec = serve(t, router, testutil.NewAuthedRequest("POST", base+"/"+bID.Hex()+"/reject", "", moderator))
	if rec.Code != http.StatusOK {
		t.Fatalf("B reject: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestJoinGroup_Closed(t *testing.T) {
	router, fixtures := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lecturer := fixtures.CreateLecturer(ctx, "Trial Lecturer", "lecturer@example.com")
	course := fixtures.CreateCourse(ctx, "IF101", "Intro", lecturer.ID)
	group := fixtures.CreateGroup(ctx, course.ID, "Team Alpha", 5)
	student := fixtures.CreateStudent(ctx, "Budi", "budi@example.com", "5025211001")

	if _, err := fixtures.DB().Collection("study_groups").UpdateByID(ctx, group.ID,
		bson.M{"$set": bson.M{"is_closed": true}}); err != nil {
		t.Fatalf("closing group: %v", err)
	}

	rec := serve(t, router, testutil.NewAuthedRequest(
		"POST", "/"+group.ID.Hex()+"/memberships", "", testutil.Principal(student)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for closed group, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestJoinGroup_DuplicateAndRejoinAfterRejection(t *testing.T) {
	router, fixtures := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lecturer := fixtures.CreateLecturer(ctx, "Trial Lecturer", "lecturer@example.com")
	course := fixtures.CreateCourse(ctx, "IF101", "Intro", lecturer.ID)
	group := fixtures.CreateGroup(ctx, course.ID, "Team Alpha", 5)
	student := fixtures.CreateStudent(ctx, "Budi", "budi@example.com", "5025211001")

	base := "/" + group.ID.Hex() + "/memberships"
	me := testutil.Principal(student)

	rec := serve(t, router, testutil.NewAuthedRequest("POST", base, "", me))
	if rec.Code != http.StatusCreated {
		t.Fatalf("join: expected 201, got %d", rec.Code)
	}

	// A second request while the first is pending is rejected.
	rec = serve(t, router, testutil.NewAuthedRequest("POST", base, "", me))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate join: expected 400, got %d", rec.Code)
	}

	mID := membershipID(t, fixtures, group.ID, student.ID, models.MembershipPending)
	rec = serve(t, router, testutil.NewAuthedRequest(
		"POST", base+"/"+mID.Hex()+"/reject", "", testutil.Principal(lecturer)))
	if rec.Code != http.StatusOK {
		t.Fatalf("reject: expected 200, got %d", rec.Code)
	}

	// After rejection a fresh request goes through.
	rec = serve(t, router, testutil.NewAuthedRequest("POST", base, "", me))
	if rec.Code != http.StatusCreated {
		t.Fatalf("rejoin after rejection: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	count, err := fixtures.DB().Collection("group_memberships").CountDocuments(ctx, bson.M{
		"group_id":   group.ID,
		"student_id": student.ID,
	})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 membership documents, got %d", count)
	}
}

func TestJoinGroup_NonStudentForbidden(t *testing.T) {
	router, fixtures := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lecturer := fixtures.CreateLecturer(ctx, "Trial Lecturer", "lecturer@example.com")
	course := fixtures.CreateCourse(ctx, "IF101", "Intro", lecturer.ID)
	group := fixtures.CreateGroup(ctx, course.ID, "Team Alpha", 5)

	rec := serve(t, router, testutil.NewAuthedRequest(
		"POST", "/"+group.ID.Hex()+"/memberships", "", testutil.Principal(lecturer)))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for lecturer join, got %d", rec.Code)
	}
}

func TestListMemberships(t *testing.T) {
	router, fixtures := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lecturer := fixtures.CreateLecturer(ctx, "Trial Lecturer", "lecturer@example.com")
	course := fixtures.CreateCourse(ctx, "IF101", "Intro", lecturer.ID)
	group := fixtures.CreateGroup(ctx, course.ID, "Team Alpha", 5)

	a := fixtures.CreateStudent(ctx, "Student A", "a@example.com", "5025211001")
	b := fixtures.CreateStudent(ctx, "Student B", "b@example.com", "5025211002")
	fixtures.CreateMembership(ctx, group.ID, a.ID, models.MembershipApproved)
	fixtures.CreateMembership(ctx, group.ID, b.ID, models.MembershipPending)

	rec := serve(t, router, testutil.NewAuthedRequest(
		"GET", "/"+group.ID.Hex()+"/memberships", "", testutil.Principal(lecturer)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Status string `json:"status"`
		Data   struct {
			Members []struct {
				StudentID string `json:"student_id"`
				NRP       string `json:"nrp"`
				FullName  string `json:"full_name"`
				Status    string `json:"status"`
			} `json:"members"`
			PendingCount int64 `json:"pending_count"`
		} `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(body.Data.Members) != 2 {
		t.Errorf("expected 2 members, got %d", len(body.Data.Members))
	}
	if body.Data.PendingCount != 1 {
		t.Errorf("expected pending count 1, got %d", body.Data.PendingCount)
	}
	if body.Meta.Total != 2 {
		t.Errorf("expected total 2, got %d", body.Meta.Total)
	}
}

func TestListMemberships_StudentForbidden(t *testing.T) {
	router, fixtures := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lecturer := fixtures.CreateLecturer(ctx, "Trial Lecturer", "lecturer@example.com")
	course := fixtures.CreateCourse(ctx, "IF101", "Intro", lecturer.ID)
	group := fixtures.CreateGroup(ctx, course.ID, "Team Alpha", 5)
	student := fixtures.CreateStudent(ctx, "Budi", "budi@example.com", "5025211001")
	fixtures.CreateMembership(ctx, group.ID, student.ID, models.MembershipApproved)

	// Even an approved member cannot read the roster; it exposes other
	// students' NRPs and is reserved for moderators.
	rec := serve(t, router, testutil.NewAuthedRequest(
		"GET", "/"+group.ID.Hex()+"/memberships", "", testutil.Principal(student)))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for student roster read, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMembershipLifecycle_WritesActivity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	recorder := activitylog.NewRecorder(activitystore.New(db), zap.NewNop())
	router := groups.Routes(groups.NewHandler(db, zap.NewNop(), recorder))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lecturer := fixtures.CreateLecturer(ctx, "Trial Lecturer", "lecturer@example.com")
	course := fixtures.CreateCourse(ctx, "IF101", "Intro", lecturer.ID)
	group := fixtures.CreateGroup(ctx, course.ID, "Team Alpha", 5)
	a := fixtures.CreateStudent(ctx, "Student A", "a@example.com", "5025211001")
	b := fixtures.CreateStudent(ctx, "Student B", "b@example.com", "5025211002")
	moderator := testutil.Principal(lecturer)

	base := "/" + group.ID.Hex() + "/memberships"

	rec := serve(t, router, testutil.NewAuthedRequest("POST", base, "", testutil.Principal(a)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("A join: expected 201, got %d", rec.Code)
	}
	rec = serve(t, router, testutil.NewAuthedRequest("POST", base, "", testutil.Principal(b)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("B join: expected 201, got %d", rec.Code)
	}

	aID := membershipID(t, fixtures, group.ID, a.ID, models.MembershipPending)
	rec = serve(t, router, testutil.NewAuthedRequest("POST", base+"/"+aID.Hex()+"/approve", "", moderator))
	if rec.Code != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	bID := membershipID(t, fixtures, group.ID, b.ID, models.MembershipPending)
	rec = serve(t, router, testutil.NewAuthedRequest("POST", base+"/"+bID.Hex()+"/reject", "", moderator))
	if rec.Code != http.StatusOK {
		t.Fatalf("reject: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Close drains the queue, so every entry is visible afterwards.
	recorder.Close()

	for action, want := range map[string]int64{
		"requested to join a group":     2,
		"approved a membership request": 1,
		"rejected a membership request": 1,
	} {
		count, err := fixtures.DB().Collection("activity_log").CountDocuments(ctx, bson.M{"action": action})
		if err != nil {
			t.Fatalf("CountDocuments failed: %v", err)
		}
		if count != want {
			t.Errorf("action %q: expected %d entries, got %d", action, want, count)
		}
	}
}

func TestListMemberships_GroupMissing(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(t, router, testutil.NewAuthedRequest(
		"GET", "/"+primitive.NewObjectID().Hex()+"/memberships", "", testutil.AdminPrincipal()))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing group, got %d", rec.Code)
	}
}

func TestCreateGroup_RequiresModerator(t *testing.T) {
	router, fixtures := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fixtures.CreateStudent(ctx, "Budi", "budi@example.com", "5025211001")
	body := `{"course_id":"` + primitive.NewObjectID().Hex() + `","name":"Team Alpha","capacity":4}`

	rec := serve(t, router, testutil.NewAuthedRequest("POST", "/", body, testutil.Principal(student)))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for student create, got %d", rec.Code)
	}
}
