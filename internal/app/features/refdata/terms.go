// internal/app/features/refdata/terms.go
package refdata

import (
	"context"
	"net/http"
	"time"

	refdatastore "github.com/communa-dev/communa/internal/app/store/refdata"
	"github.com/communa-dev/communa/internal/app/system/apierr"
	"github.com/communa-dev/communa/internal/app/system/authz"
	"github.com/communa-dev/communa/internal/app/system/httpjson"
	"github.com/communa-dev/communa/internal/app/system/inputval"
	"github.com/communa-dev/communa/internal/app/system/timeouts"
	"github.com/communa-dev/communa/internal/app/system/webid"
	"github.com/communa-dev/communa/internal/domain/models"
)

type createTermInput struct {
	Name     string    `json:"name" validate:"required,max=100"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	IsActive bool      `json:"is_active"`
}

func (h *Handler) HandleCreateTerm(w http.ResponseWriter, r *http.Request) {
	if !authz.Can(r, authz.CapManageCourses) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "you do not have access to manage reference data"))
		return
	}
	var in createTermInput
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

	created, err := refdatastore.New(h.DB).CreateTerm(ctx, models.AcademicTerm{
		Name:     in.Name,
		StartsAt: in.StartsAt,
		EndsAt:   in.EndsAt,
		IsActive: in.IsActive,
	})
	if err == refdatastore.ErrDuplicate {
		httpjson.Error(w, h.Log, apierr.E(apierr.Conflict, "an academic term with this name already exists"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "creating term", err))
		return
	}
	httpjson.OK(w, http.StatusCreated, created)
}

func (h *Handler) HandleListTerms(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := refdatastore.New(h.DB).ListTerms(ctx)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "listing terms", err))
		return
	}
	httpjson.OK(w, http.StatusOK, list)
}

func (h *Handler) HandleDeleteTerm(w http.ResponseWriter, r *http.Request) {
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

	deleted, err := refdatastore.New(h.DB).DeleteTerm(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "deleting term", err))
		return
	}
	if deleted == 0 {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "term not found"))
		return
	}
	httpjson.NoContent(w)
}
