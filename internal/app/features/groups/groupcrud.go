// internal/app/features/groups/groupcrud.go
package groups

import (
	"context"
	"net/http"

	groupstore "github.com/communa-dev/communa/internal/app/store/groups"
	membershipstore "github.com/communa-dev/communa/internal/app/store/memberships"
	"github.com/communa-dev/communa/internal/app/system/apierr"
	"github.com/communa-dev/communa/internal/app/system/authz"
	"github.com/communa-dev/communa/internal/app/system/httpjson"
	"github.com/communa-dev/communa/internal/app/system/inputval"
	"github.com/communa-dev/communa/internal/app/system/paging"
	"github.com/communa-dev/communa/internal/app/system/timeouts"
	"github.com/communa-dev/communa/internal/app/system/webid"
	"github.com/communa-dev/communa/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type createGroupInput struct {
	CourseID    string `json:"course_id" validate:"required,len=24"`
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Capacity    int    `json:"capacity" validate:"required,min=1"`
}

// HandleCreateGroup creates a study group in a course.
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	if !authz.Can(r, authz.CapModerateGroups) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "you do not have access to create groups"))
		return
	}

	var in createGroupInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := inputval.Check(in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	courseID, err := webid.FromString(in.CourseID, "course_id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := groupstore.New(h.DB).Create(ctx, models.StudyGroup{
		CourseID:    courseID,
		Name:        in.Name,
		Description: in.Description,
		Capacity:    in.Capacity,
	})
	if err == groupstore.ErrDuplicateGroupName {
		httpjson.Error(w, h.Log, apierr.E(apierr.Conflict, err.Error()))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "creating group", err))
		return
	}

	httpjson.OK(w, http.StatusCreated, created)
}

// HandleListGroups lists a course's groups (?course=<id>).
func (h *Handler) HandleListGroups(w http.ResponseWriter, r *http.Request) {
	courseID, err := webid.FromString(r.URL.Query().Get("course"), "course")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, total, err := groupstore.New(h.DB).ListByCourse(ctx, courseID, p.Skip(), p.Limit64())
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "listing groups", err))
		return
	}

	httpjson.Page(w, list, httpjson.PageMeta{Page: p.Page, Limit: p.Limit, Total: total})
}

// HandleGetGroup returns one group.
func (h *Handler) HandleGetGroup(w http.ResponseWriter, r *http.Request) {
	id, err := webid.FromPath(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := groupstore.New(h.DB).GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "group not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading group", err))
		return
	}

	httpjson.OK(w, http.StatusOK, g)
}

type updateGroupInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Capacity    int    `json:"capacity" validate:"required,min=1"`
	IsClosed    *bool  `json:"is_closed"`
}

// HandleUpdateGroup updates a group's details. Lowering capacity does
// not evict existing members; it only blocks further approvals.
func (h *Handler) HandleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	if !authz.Can(r, authz.CapModerateGroups) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "you do not have access to modify groups"))
		return
	}
	id, err := webid.FromPath(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var in updateGroupInput
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

	store := groupstore.New(h.DB)
	if err := store.UpdateInfo(ctx, id, in.Name, in.Description, in.Capacity, in.IsClosed); err != nil {
		switch err {
		case mongo.ErrNoDocuments:
			httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "group not found"))
		case groupstore.ErrDuplicateGroupName:
			httpjson.Error(w, h.Log, apierr.E(apierr.Conflict, err.Error()))
		default:
			httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "updating group", err))
		}
		return
	}

	g, err := store.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "reloading group", err))
		return
	}
	httpjson.OK(w, http.StatusOK, g)
}

// HandleDeleteGroup removes a group and all of its membership records.
// Threads and their contents are left in place.
func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	if !authz.Can(r, authz.CapModerateGroups) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "you do not have access to delete groups"))
		return
	}
	id, err := webid.FromPath(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deleted, err := groupstore.New(h.DB).Delete(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "deleting group", err))
		return
	}
	if deleted == 0 {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "group not found"))
		return
	}

	// Cascade is two steps without a transaction; a failure here leaves
	// orphaned membership rows, which the list endpoints never surface.
	if _, err := membershipstore.New(h.DB).DeleteByGroup(ctx, id); err != nil {
		h.Log.Error("cascading membership delete failed",
			zap.String("group_id", id.Hex()),
			zap.Error(err))
	}

	httpjson.NoContent(w)
}
