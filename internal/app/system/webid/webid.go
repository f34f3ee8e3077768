// internal/app/system/webid/webid.go
package webid

import (
	"net/http"

	"github.com/communa-dev/communa/internal/app/system/apierr"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FromPath parses the named chi URL parameter as a Mongo ObjectID.
// A malformed id is an Invalid error, not a NotFound: the resource
// was never addressable in the first place.
func FromPath(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, apierr.E(apierr.Invalid, "invalid "+name)
	}
	return id, nil
}

// FromString parses a request-body or query-string id the same way.
func FromString(hex, label string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apierr.E(apierr.Invalid, "invalid "+label)
	}
	return id, nil
}
