// internal/app/features/refdata/majors.go
package refdata

import (
	"context"
	"net/http"

	refdatastore "github.com/communa-dev/communa/internal/app/store/refdata"
	"github.com/communa-dev/communa/internal/app/system/apierr"
	"github.com/communa-dev/communa/internal/app/system/authz"
	"github.com/communa-dev/communa/internal/app/system/httpjson"
	"github.com/communa-dev/communa/internal/app/system/inputval"
	"github.com/communa-dev/communa/internal/app/system/timeouts"
	"github.com/communa-dev/communa/internal/app/system/webid"
	"github.com/communa-dev/communa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type createMajorInput struct {
	FacultyID string `json:"faculty_id" validate:"required,len=24"`
	Name      string `json:"name" validate:"required,max=200"`
	Code      string `json:"code" validate:"required,max=20"`
}

func (h *Handler) HandleCreateMajor(w http.ResponseWriter, r *http.Request) {
	if !authz.Can(r, authz.CapManageCourses) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "you do not have access to manage reference data"))
		return
	}
	var in createMajorInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := inputval.Check(in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	facultyID, err := webid.FromString(in.FacultyID, "faculty_id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := refdatastore.New(h.DB)

	// The referenced faculty must exist.
	if _, err := store.GetFaculty(ctx, facultyID); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "faculty not found"))
			return
		}
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading faculty", err))
		return
	}

	created, err := store.CreateMajor(ctx, models.Major{
		FacultyID: facultyID,
		Name:      in.Name,
		Code:      in.Code,
	})
	if err == refdatastore.ErrDuplicate {
		httpjson.Error(w, h.Log, apierr.E(apierr.Conflict, "a major with this code already exists in the faculty"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "creating major", err))
		return
	}
	httpjson.OK(w, http.StatusCreated, created)
}

// HandleListMajors lists majors, optionally scoped to one faculty
// (?faculty=<id>).
func (h *Handler) HandleListMajors(w http.ResponseWriter, r *http.Request) {
	var facultyID *primitive.ObjectID
	if hex := r.URL.Query().Get("faculty"); hex != "" {
		id, err := webid.FromString(hex, "faculty")
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		facultyID = &id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := refdatastore.New(h.DB).ListMajors(ctx, facultyID)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "listing majors", err))
		return
	}
	httpjson.OK(w, http.StatusOK, list)
}

func (h *Handler) HandleDeleteMajor(w http.ResponseWriter, r *http.Request) {
	if !authz.Can(r, authz.CapManageCourses) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "you do not have access to manage reference data"))
		return
	}
	id, err := webid.FromPath(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	deleted, err := refdatastore.New(h.DB).DeleteMajor(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "deleting major", err))
		return
	}
	if deleted == 0 {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "major not found"))
		return
	}
	httpjson.NoContent(w)
}
