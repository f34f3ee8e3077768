package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/communa-dev/communa/internal/app/system/auth"
	"github.com/communa-dev/communa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testUser() models.User {
	return models.User{
		ID:       primitive.NewObjectID(),
		FullName: "Budi Santoso",
		Roles:    []string{models.RoleMahasiswa},
	}
}

func TestTokenManager_IssueAndVerify(t *testing.T) {
	mgr := auth.NewTokenManager("test-secret", time.Hour)
	user := testUser()

	token, err := mgr.Issue(user)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	p, err := mgr.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if p.ID != user.ID.Hex() {
		t.Errorf("principal ID = %q, want %q", p.ID, user.ID.Hex())
	}
	if p.Name != user.FullName {
		t.Errorf("principal Name = %q, want %q", p.Name, user.FullName)
	}
	if !p.HasRole(models.RoleMahasiswa) {
		t.Error("expected MAHASISWA role on principal")
	}
}

func TestTokenManager_Verify_WrongSecret(t *testing.T) {
	token, err := auth.NewTokenManager("secret-one", time.Hour).Issue(testUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := auth.NewTokenManager("secret-two", time.Hour).Verify(token); err == nil {
		t.Fatal("expected verification to fail with a different secret")
	}
}

func TestTokenManager_Verify_Expired(t *testing.T) {
	mgr := auth.NewTokenManager("test-secret", -time.Minute)
	token, err := mgr.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := mgr.Verify(token); err == nil {
		t.Fatal("expected verification to fail for an expired token")
	}
}

func TestRequireSignedIn(t *testing.T) {
	mgr := auth.NewTokenManager("test-secret", time.Hour)
	user := testUser()

	var got *auth.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
		w.WriteHeader(http.StatusOK)
	})
	protected := mgr.RequireSignedIn(next)

	// No header.
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no header: expected 401, got %d", rec.Code)
	}

	// Malformed header.
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("malformed header: expected 401, got %d", rec.Code)
	}

	// Valid bearer token.
	token, err := mgr.Issue(user)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token: expected 200, got %d", rec.Code)
	}
	if got == nil || got.ID != user.ID.Hex() {
		t.Errorf("expected principal %q in context, got %+v", user.ID.Hex(), got)
	}
}

func TestRequireSignedIn_TestPrincipalPassesThrough(t *testing.T) {
	mgr := auth.NewTokenManager("test-secret", time.Hour)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.Principal{ID: "x"})
	rec := httptest.NewRecorder()
	mgr.RequireSignedIn(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected injected principal to pass, got %d", rec.Code)
	}
}
