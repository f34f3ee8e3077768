package webid_test

import (
	"net/http/httptest"
	"testing"

	"github.com/communa-dev/communa/internal/app/system/apierr"
	"github.com/communa-dev/communa/internal/app/system/webid"
	"github.com/communa-dev/communa/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFromPath(t *testing.T) {
	want := primitive.NewObjectID()
	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/", nil), "id", want.Hex())

	got, err := webid.FromPath(req, "id")
	if err != nil {
		t.Fatalf("FromPath failed: %v", err)
	}
	if got != want {
		t.Errorf("FromPath = %s, want %s", got.Hex(), want.Hex())
	}
}

func TestFromPath_Malformed(t *testing.T) {
	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/", nil), "id", "zzz")

	if _, err := webid.FromPath(req, "id"); apierr.KindOf(err) != apierr.Invalid {
		t.Errorf("expected Invalid, got %v", err)
	}
}

func TestFromString(t *testing.T) {
	want := primitive.NewObjectID()
	got, err := webid.FromString(want.Hex(), "user id")
	if err != nil {
		t.Fatalf("FromString failed: %v", err)
	}
	if got != want {
		t.Errorf("FromString = %s, want %s", got.Hex(), want.Hex())
	}

	if _, err := webid.FromString("nope", "user id"); apierr.KindOf(err) != apierr.Invalid {
		t.Errorf("expected Invalid, got %v", err)
	}
}
