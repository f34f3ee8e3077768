package threads_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/communa-dev/communa/internal/app/features/threads"
	activitystore "github.com/communa-dev/communa/internal/app/store/activity"
	"github.com/communa-dev/communa/internal/app/store/contrib"
	groupstore "github.com/communa-dev/communa/internal/app/store/groups"
	membershipstore "github.com/communa-dev/communa/internal/app/store/memberships"
	threadstore "github.com/communa-dev/communa/internal/app/store/threads"
	"github.com/communa-dev/communa/internal/app/system/activitylog"
	"github.com/communa-dev/communa/internal/domain/models"
	"github.com/communa-dev/communa/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type testEnv struct {
	db       *mongo.Database
	router   http.Handler
	recorder *activitylog.Recorder
	fixtures *testutil.Fixtures
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	recorder := activitylog.NewRecorder(activitystore.New(db), logger)
	handler := threads.NewHandler(db, logger, contrib.NewLedger(db, logger), recorder)
	return &testEnv{
		db:       db,
		router:   threads.Routes(handler),
		recorder: recorder,
		fixtures: testutil.NewFixtures(t, db),
	}
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// counters reads the three contribution counters touched by the ledger.
func (e *testEnv) counters(t *testing.T, membershipID, groupID, threadID primitive.ObjectID) (int, int, int) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m, err := membershipstore.New(e.db).GetByID(ctx, membershipID)
	if err != nil {
		t.Fatalf("loading membership: %v", err)
	}
	g, err := groupstore.New(e.db).GetByID(ctx, groupID)
	if err != nil {
		t.Fatalf("loading group: %v", err)
	}
	th, err := threadstore.New(e.db).GetByID(ctx, threadID)
	if err != nil {
		t.Fatalf("loading thread: %v", err)
	}
	return m.Contribution, g.TotalContribution, th.Contribution
}

func TestPostLifecycle_LedgerRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lecturer := env.fixtures.CreateLecturer(ctx, "Trial Lecturer", "lecturer@example.com")
	course := env.fixtures.CreateCourse(ctx, "IF101", "Intro", lecturer.ID)
	group := env.fixtures.CreateGroup(ctx, course.ID, "Team Alpha", 5)
	author := env.fixtures.CreateStudent(ctx, "Budi", "budi@example.com", "5025211001")
	ms := env.fixtures.CreateMembership(ctx, group.ID, author.ID, models.MembershipApproved)
	thread := env.fixtures.CreateThread(ctx, group.ID, author.ID, "Week 1")

	me := testutil.Principal(author)
	base := "/" + thread.ID.Hex() + "/posts"

	// Create earns the post points on all three counters.
	rec := env.serve(testutil.NewAuthedRequest("POST", base, `{"content":"first findings"}`, me))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	mc, gc, tc := env.counters(t, ms.ID, group.ID, thread.ID)
	if mc != contrib.PostPoints || gc != contrib.PostPoints || tc != contrib.PostPoints {
		t.Fatalf("after create: counters = %d/%d/%d, want %d", mc, gc, tc, contrib.PostPoints)
	}

	var post models.GroupPost
	if err := env.db.Collection("group_posts").FindOne(ctx, bson.M{"thread_id": thread.ID}).Decode(&post); err != nil {
		t.Fatalf("loading post: %v", err)
	}

	// Editing moves no points.
	rec = env.serve(testutil.NewAuthedRequest("PUT", base+"/"+post.ID.Hex(), `{"content":"revised findings"}`, me))
	if rec.Code != http.StatusOK {
		t.Fatalf("edit post: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	mc, gc, tc = env.counters(t, ms.ID, group.ID, thread.ID)
	if mc != contrib.PostPoints || gc != contrib.PostPoints || tc != contrib.PostPoints {
		t.Fatalf("after edit: counters = %d/%d/%d, want %d", mc, gc, tc, contrib.PostPoints)
	}

	// Deleting takes the points back.
	rec = env.serve(testutil.NewAuthedRequest("DELETE", base+"/"+post.ID.Hex(), "", me))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete post: expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	mc, gc, tc = env.counters(t, ms.ID, group.ID, thread.ID)
	if mc != 0 || gc != 0 || tc != 0 {
		t.Fatalf("after delete: counters = %d/%d/%d, want 0", mc, gc, tc)
	}

	// Drain the recorder, then check the feed has both entries.
	env.recorder.Close()

	for _, action := range []string{"created a post", "deleted a post"} {
		count, err := env.db.Collection("activity_log").CountDocuments(ctx, bson.M{
			"thread_id": thread.ID,
			"action":    action,
		})
		if err != nil {
			t.Fatalf("CountDocuments failed: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 %q entry, got %d", action, count)
		}
	}
}

func TestDeletePost_ForbiddenForOtherStudent(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lecturer := env.fixtures.CreateLecturer(ctx, "Trial Lecturer", "lecturer@example.com")
	course := env.fixtures.CreateCourse(ctx, "IF101", "Intro", lecturer.ID)
	group := env.fixtures.CreateGroup(ctx, course.ID, "Team Alpha", 5)
	author := env.fixtures.CreateStudent(ctx, "Budi", "budi@example.com", "5025211001")
	other := env.fixtures.CreateStudent(ctx, "Siti", "siti@example.com", "5025211002")
	ms := env.fixtures.CreateMembership(ctx, group.ID, author.ID, models.MembershipApproved)
	env.fixtures.CreateMembership(ctx, group.ID, other.ID, models.MembershipApproved)
	thread := env.fixtures.CreateThread(ctx, group.ID, author.ID, "Week 1")

	base := "/" + thread.ID.Hex() + "/posts"

	rec := env.serve(testutil.NewAuthedRequest("POST", base, `{"content":"mine"}`, testutil.Principal(author)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post: expected 201, got %d", rec.Code)
	}

	var post models.GroupPost
	if err := env.db.Collection("group_posts").FindOne(ctx, bson.M{"thread_id": thread.ID}).Decode(&post); err != nil {
		t.Fatalf("loading post: %v", err)
	}

	// A fellow member who is not the author cannot delete it, and the
	// counters stay put.
	rec = env.serve(testutil.NewAuthedRequest("DELETE", base+"/"+post.ID.Hex(), "", testutil.Principal(other)))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}

	mc, gc, tc := env.counters(t, ms.ID, group.ID, thread.ID)
	if mc != contrib.PostPoints || gc != contrib.PostPoints || tc != contrib.PostPoints {
		t.Fatalf("after forbidden delete: counters = %d/%d/%d, want %d", mc, gc, tc, contrib.PostPoints)
	}

	// A moderator can.
	rec = env.serve(testutil.NewAuthedRequest("DELETE", base+"/"+post.ID.Hex(), "", testutil.Principal(lecturer)))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("moderator delete: expected 204, got %d", rec.Code)
	}
}

func TestCreatePost_SanitizesContent(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lecturer := env.fixtures.CreateLecturer(ctx, "Trial Lecturer", "lecturer@example.com")
	course := env.fixtures.CreateCourse(ctx, "IF101", "Intro", lecturer.ID)
	group := env.fixtures.CreateGroup(ctx, course.ID, "Team Alpha", 5)
	author := env.fixtures.CreateStudent(ctx, "Budi", "budi@example.com", "5025211001")
	env.fixtures.CreateMembership(ctx, group.ID, author.ID, models.MembershipApproved)
	thread := env.fixtures.CreateThread(ctx, group.ID, author.ID, "Week 1")

	rec := env.serve(testutil.NewAuthedRequest("POST", "/"+thread.ID.Hex()+"/posts",
		`{"content":"hello <script>alert(1)</script><b>world</b>"}`, testutil.Principal(author)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var post models.GroupPost
	if err := env.db.Collection("group_posts").FindOne(ctx, bson.M{"thread_id": thread.ID}).Decode(&post); err != nil {
		t.Fatalf("loading post: %v", err)
	}
	if post.Content != "hello <b>world</b>" {
		t.Errorf("expected script stripped, got %q", post.Content)
	}
}

func TestCreatePost_NonMemberForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lecturer := env.fixtures.CreateLecturer(ctx, "Trial Lecturer", "lecturer@example.com")
	course := env.fixtures.CreateCourse(ctx, "IF101", "Intro", lecturer.ID)
	group := env.fixtures.CreateGroup(ctx, course.ID, "Team Alpha", 5)
	author := env.fixtures.CreateStudent(ctx, "Budi", "budi@example.com", "5025211001")
	outsider := env.fixtures.CreateStudent(ctx, "Siti", "siti@example.com", "5025211002")
	thread := env.fixtures.CreateThread(ctx, group.ID, author.ID, "Week 1")

	rec := env.serve(testutil.NewAuthedRequest("POST", "/"+thread.ID.Hex()+"/posts",
		`{"content":"hi"}`, testutil.Principal(outsider)))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-member, got %d", rec.Code)
	}
}

func TestCreateThread_AssignmentMustResolve(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lecturer := env.fixtures.CreateLecturer(ctx, "Trial Lecturer", "lecturer@example.com")
	course := env.fixtures.CreateCourse(ctx, "IF101", "Intro", lecturer.ID)
	group := env.fixtures.CreateGroup(ctx, course.ID, "Team Alpha", 5)
	author := env.fixtures.CreateStudent(ctx, "Budi", "budi@example.com", "5025211001")
	env.fixtures.CreateMembership(ctx, group.ID, author.ID, models.MembershipApproved)

	body := `{"group_id":"` + group.ID.Hex() + `","title":"Hw 1","assignment_id":"` +
		primitive.NewObjectID().Hex() + `"}`
	rec := env.serve(testutil.NewAuthedRequest("POST", "/", body, testutil.Principal(author)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown assignment, got %d: %s", rec.Code, rec.Body.String())
	}

	a := env.fixtures.CreateAssignment(ctx, course.ID, "Homework 1")
	body = `{"group_id":"` + group.ID.Hex() + `","title":"Hw 1","assignment_id":"` + a.ID.Hex() + `"}`
	rec = env.serve(testutil.NewAuthedRequest("POST", "/", body, testutil.Principal(author)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTasks_WriteActivityNotLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lecturer := env.fixtures.CreateLecturer(ctx, "Trial Lecturer", "lecturer@example.com")
	course := env.fixtures.CreateCourse(ctx, "IF101", "Intro", lecturer.ID)
	group := env.fixtures.CreateGroup(ctx, course.ID, "Team Alpha", 5)
	author := env.fixtures.CreateStudent(ctx, "Budi", "budi@example.com", "5025211001")
	ghost := primitive.NewObjectID()
	ms := env.fixtures.CreateMembership(ctx, group.ID, author.ID, models.MembershipApproved)
	thread := env.fixtures.CreateThread(ctx, group.ID, author.ID, "Week 1")

	// Duplicate and unknown assignees are filtered without error.
	body := `{"description":"write the report","assignee_ids":["` +
		author.ID.Hex() + `","` + author.ID.Hex() + `","` + ghost.Hex() + `"]}`
	rec := env.serve(testutil.NewAuthedRequest("POST", "/"+thread.ID.Hex()+"/tasks", body, testutil.Principal(author)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create task: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var task models.GroupTask
	if err := env.db.Collection("group_tasks").FindOne(ctx, bson.M{"thread_id": thread.ID}).Decode(&task); err != nil {
		t.Fatalf("loading task: %v", err)
	}
	if len(task.AssigneeIDs) != 1 || task.AssigneeIDs[0] != author.ID {
		t.Errorf("expected a single deduplicated assignee, got %v", task.AssigneeIDs)
	}
	if task.Status != models.TaskDo {
		t.Errorf("expected default status %q, got %q", models.TaskDo, task.Status)
	}

	// Tasks never move contribution points.
	mc, gc, tc := env.counters(t, ms.ID, group.ID, thread.ID)
	if mc != 0 || gc != 0 || tc != 0 {
		t.Fatalf("after task create: counters = %d/%d/%d, want 0", mc, gc, tc)
	}

	env.recorder.Close()
	count, err := env.db.Collection("activity_log").CountDocuments(ctx, bson.M{
		"thread_id": thread.ID,
		"action":    "created a task",
	})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 task activity entry, got %d", count)
	}
}
