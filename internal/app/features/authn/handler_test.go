package authn_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/communa-dev/communa/internal/app/features/authn"
	activitystore "github.com/communa-dev/communa/internal/app/store/activity"
	userstore "github.com/communa-dev/communa/internal/app/store/users"
	"github.com/communa-dev/communa/internal/app/system/auth"
	"github.com/communa-dev/communa/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestRouter(t *testing.T) (http.Handler, *testutil.Fixtures, *auth.TokenManager) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	tokens := auth.NewTokenManager("login-test-secret", time.Hour)
	h := authn.NewHandler(db, zap.NewNop(), tokens)
	return authn.Routes(h), testutil.NewFixtures(t, db), tokens
}

func serve(router http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, r)
	return rr
}

func TestLogin(t *testing.T) {
	router, fx, _ := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fx.CreateStudent(ctx, "Budi Santoso", "budi@univ.ac.id", "5025211001")
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := userstore.New(fx.DB()).SetPasswordHash(ctx, student.ID, string(hash)); err != nil {
		t.Fatalf("set password hash: %v", err)
	}

	rr := serve(router, testutil.NewRequest(http.MethodPost, "/login",
		`{"email":"budi@univ.ac.id","password":"s3cret-pass"}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("login: got %d, body %s", rr.Code, rr.Body.String())
	}

	var body struct {
		Data struct {
			Token string `json:"token"`
			User  struct {
				Email string `json:"email"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Data.Token == "" {
		t.Error("expected a token")
	}
	if body.Data.User.Email != "budi@univ.ac.id" {
		t.Errorf("got user email %q", body.Data.User.Email)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	router, fx, _ := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fx.CreateStudent(ctx, "Siti Rahma", "siti@univ.ac.id", "5025211002")
	hash, _ := bcrypt.GenerateFromPassword([]byte("right-pass"), bcrypt.DefaultCost)
	if err := userstore.New(fx.DB()).SetPasswordHash(ctx, student.ID, string(hash)); err != nil {
		t.Fatalf("set password hash: %v", err)
	}

	// Wrong password and unknown email produce the same response.
	for _, payload := range []string{
		`{"email":"siti@univ.ac.id","password":"wrong-pass"}`,
		`{"email":"nobody@univ.ac.id","password":"right-pass"}`,
	} {
		rr := serve(router, testutil.NewRequest(http.MethodPost, "/login", payload))
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("payload %s: got %d, want 401", payload, rr.Code)
		}
		var body struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.Message != "invalid email or password" {
			t.Errorf("got message %q", body.Message)
		}
	}
}

func TestMe(t *testing.T) {
	router, fx, tokens := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fx.CreateStudent(ctx, "Budi Santoso", "budi@univ.ac.id", "5025211001")
	token, err := tokens.Issue(student)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := testutil.NewRequest(http.MethodGet, "/me", "")
	req.Header.Set("Authorization", "Bearer "+token)
	rr := serve(router, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("me: got %d, body %s", rr.Code, rr.Body.String())
	}

	var body struct {
		Data struct {
			FullName string `json:"full_name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Data.FullName != "Budi Santoso" {
		t.Errorf("got full name %q", body.Data.FullName)
	}
}

func TestMyActivity(t *testing.T) {
	router, fx, tokens := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fx.CreateStudent(ctx, "Budi Santoso", "budi@univ.ac.id", "5025211001")
	other := fx.CreateStudent(ctx, "Siti Rahma", "siti@univ.ac.id", "5025211002")

	store := activitystore.New(fx.DB())
	if err := store.Append(ctx, "created a post", student.ID, nil); err != nil {
		t.Fatalf("append activity: %v", err)
	}
	if err := store.Append(ctx, "created a thread", student.ID, nil); err != nil {
		t.Fatalf("append activity: %v", err)
	}
	if err := store.Append(ctx, "created a post", other.ID, nil); err != nil {
		t.Fatalf("append activity: %v", err)
	}

	token, err := tokens.Issue(student)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	req := testutil.NewRequest(http.MethodGet, "/me/activity", "")
	req.Header.Set("Authorization", "Bearer "+token)
	rr := serve(router, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("activity: got %d, body %s", rr.Code, rr.Body.String())
	}

	var body struct {
		Data []struct {
			Action string `json:"action"`
		} `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// Only the caller's entries, newest first.
	if body.Meta.Total != 2 || len(body.Data) != 2 {
		t.Fatalf("expected 2 entries, got total %d len %d", body.Meta.Total, len(body.Data))
	}
	if body.Data[0].Action != "created a thread" {
		t.Errorf("expected newest entry first, got %q", body.Data[0].Action)
	}
}

func TestMe_Unauthenticated(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rr := serve(router, testutil.NewRequest(http.MethodGet, "/me", ""))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want 401", rr.Code)
	}
}
