// internal/app/features/refdata/faculties.go
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
)

type createFacultyInput struct {
	Name string `json:"name" validate:"required,max=200"`
	Code string `json:"code" validate:"required,max=20"`
}

func (h *Handler) HandleCreateFaculty(w http.ResponseWriter, r *http.Request) {
	if !authz.Can(r, authz.CapManageCourses) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "you do not have access to manage reference data"))
		return
	}
	var in createFacultyInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := inputval.Check(in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := refdatastore.New(h.DB).CreateFaculty(ctx, models.Faculty{
		Name: in.Name,
		Code: in.Code,
	})
	if err == refdatastore.ErrDuplicate {
		httpjson.Error(w, h.Log, apierr.E(apierr.Conflict, "a faculty with this code already exists"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "creating faculty", err))
		return
	}
	httpjson.OK(w, http.StatusCreated, created)
}

func (h *Handler) HandleListFaculties(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := refdatastore.New(h.DB).ListFaculties(ctx)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "listing faculties", err))
		return
	}
	httpjson.OK(w, http.StatusOK, list)
}

func (h *Handler) HandleDeleteFaculty(w http.ResponseWriter, r *http.Request) {
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

	deleted, err := refdatastore.New(h.DB).DeleteFaculty(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "deleting faculty", err))
		return
	}
	if deleted == 0 {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "faculty not found"))
		return
	}
	httpjson.NoContent(w)
}
