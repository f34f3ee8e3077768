package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/communa-dev/communa/internal/app/system/apierr"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apierr.Kind
	}{
		{"tagged", apierr.E(apierr.Forbidden, "nope"), apierr.Forbidden},
		{"wrapped in fmt", fmt.Errorf("loading group: %w", apierr.E(apierr.NotFound, "group not found")), apierr.NotFound},
		{"mongo no documents", mongo.ErrNoDocuments, apierr.NotFound},
		{"wrapped mongo no documents", fmt.Errorf("lookup: %w", mongo.ErrNoDocuments), apierr.NotFound},
		{"plain error", errors.New("boom"), apierr.Internal},
		{"wrap keeps kind", apierr.Wrap(apierr.Conflict, "duplicate", errors.New("E11000")), apierr.Conflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apierr.KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		kind apierr.Kind
		want int
	}{
		{apierr.Invalid, http.StatusBadRequest},
		{apierr.Conflict, http.StatusBadRequest},
		{apierr.NotFound, http.StatusNotFound},
		{apierr.Unauthorized, http.StatusUnauthorized},
		{apierr.Forbidden, http.StatusForbidden},
		{apierr.Internal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := apierr.StatusCode(tt.kind); got != tt.want {
			t.Errorf("StatusCode(%d) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestPublicMessage(t *testing.T) {
	if got := apierr.PublicMessage(apierr.E(apierr.Invalid, "score must be between 0 and 100")); got != "score must be between 0 and 100" {
		t.Errorf("got %q", got)
	}

	// Internal causes never leak their text.
	leak := apierr.Wrap(apierr.Internal, "dial tcp 10.0.0.1:27017: connection refused", errors.New("net down"))
	if got := apierr.PublicMessage(leak); got != "internal server error" {
		t.Errorf("internal message leaked: %q", got)
	}
	if got := apierr.PublicMessage(errors.New("raw driver error")); got != "internal server error" {
		t.Errorf("unclassified message leaked: %q", got)
	}

	if got := apierr.PublicMessage(mongo.ErrNoDocuments); got != "not found" {
		t.Errorf("got %q", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := apierr.Wrap(apierr.NotFound, "thread not found", cause)
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to survive errors.Is")
	}
	if err.Error() != "thread not found: root cause" {
		t.Errorf("got %q", err.Error())
	}
}
