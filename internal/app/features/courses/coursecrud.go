// internal/app/features/courses/coursecrud.go
package courses

import (
	"context"
	"net/http"

	coursestore "github.com/communa-dev/communa/internal/app/store/courses"
	"github.com/communa-dev/communa/internal/app/system/apierr"
	"github.com/communa-dev/communa/internal/app/system/authz"
	"github.com/communa-dev/communa/internal/app/system/httpjson"
	"github.com/communa-dev/communa/internal/app/system/inputval"
	"github.com/communa-dev/communa/internal/app/system/paging"
	"github.com/communa-dev/communa/internal/app/system/timeouts"
	"github.com/communa-dev/communa/internal/app/system/webid"
	"github.com/communa-dev/communa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type createCourseInput struct {
	Code        string   `json:"code" validate:"required,max=20"`
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	MajorID     string   `json:"major_id" validate:"required,len=24"`
	TermID      string   `json:"term_id" validate:"required,len=24"`
	LecturerIDs []string `json:"lecturer_ids" validate:"dive,len=24"`
}

// HandleCreateCourse creates a course. Only super-admins create
// courses; lecturers are assigned, not self-service.
func (h *Handler) HandleCreateCourse(w http.ResponseWriter, r *http.Request) {
	if !authz.IsSuperAdmin(r) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "you do not have access to create courses"))
		return
	}

	var in createCourseInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := inputval.Check(in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	majorID, err := webid.FromString(in.MajorID, "major_id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	termID, err := webid.FromString(in.TermID, "term_id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	lecturerIDs, err := parseLecturerIDs(in.LecturerIDs)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := coursestore.New(h.DB).Create(ctx, models.Course{
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		MajorID:     majorID,
		TermID:      termID,
		LecturerIDs: lecturerIDs,
	})
	if err == coursestore.ErrDuplicateCode {
		httpjson.Error(w, h.Log, apierr.E(apierr.Conflict, err.Error()))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "creating course", err))
		return
	}

	httpjson.OK(w, http.StatusCreated, created)
}

// HandleListCourses lists courses for any signed-in user, optionally
// filtered by term and major.
func (h *Handler) HandleListCourses(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r)

	var termID, majorID *primitive.ObjectID
	if hex := r.URL.Query().Get("term"); hex != "" {
		id, err := webid.FromString(hex, "term")
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		termID = &id
	}
	if hex := r.URL.Query().Get("major"); hex != "" {
		id, err := webid.FromString(hex, "major")
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		majorID = &id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, total, err := coursestore.New(h.DB).List(ctx, termID, majorID, p.Skip(), p.Limit64())
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "listing courses", err))
		return
	}

	httpjson.Page(w, list, httpjson.PageMeta{Page: p.Page, Limit: p.Limit, Total: total})
}

// HandleGetCourse returns one course.
func (h *Handler) HandleGetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := webid.FromPath(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	course, err := coursestore.New(h.DB).GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "course not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading course", err))
		return
	}

	httpjson.OK(w, http.StatusOK, course)
}

type updateCourseInput struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	LecturerIDs []string `json:"lecturer_ids" validate:"dive,len=24"`
}

// HandleUpdateCourse updates name, description and the lecturer set.
func (h *Handler) HandleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, err := webid.FromPath(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var in updateCourseInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := inputval.Check(in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	lecturerIDs, err := parseLecturerIDs(in.LecturerIDs)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := coursestore.New(h.DB)
	course, err := store.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "course not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading course", err))
		return
	}
	if !canManageCourse(r, course) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "you do not have access to modify this course"))
		return
	}

	if err := store.UpdateInfo(ctx, id, in.Name, in.Description, lecturerIDs); err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "updating course", err))
		return
	}

	updated, err := store.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "reloading course", err))
		return
	}
	httpjson.OK(w, http.StatusOK, updated)
}

// HandleDeleteCourse removes a course. Super-admin only.
func (h *Handler) HandleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	if !authz.IsSuperAdmin(r) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "you do not have access to delete courses"))
		return
	}
	id, err := webid.FromPath(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	deleted, err := coursestore.New(h.DB).Delete(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "deleting course", err))
		return
	}
	if deleted == 0 {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "course not found"))
		return
	}
	httpjson.NoContent(w)
}

func parseLecturerIDs(hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, hex := range hexes {
		id, err := webid.FromString(hex, "lecturer id")
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
