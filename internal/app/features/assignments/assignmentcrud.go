// internal/app/features/assignments/assignmentcrud.go
package assignments

import (
	"context"
	"net/http"
	"time"

	assignmentstore "github.com/communa-dev/communa/internal/app/store/assignments"
	"github.com/communa-dev/communa/internal/app/system/apierr"
	"github.com/communa-dev/communa/internal/app/system/httpjson"
	"github.com/communa-dev/communa/internal/app/system/inputval"
	"github.com/communa-dev/communa/internal/app/system/paging"
	"github.com/communa-dev/communa/internal/app/system/timeouts"
	"github.com/communa-dev/communa/internal/app/system/webid"
	"github.com/communa-dev/communa/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

type createAssignmentInput struct {
	CourseID    string    `json:"course_id" validate:"required,len=24"`
	Title       string    `json:"title" validate:"required,max=300"`
	Description string    `json:"description" validate:"max=5000"`
	DueAt       time.Time `json:"due_at" validate:"required"`
}

// HandleCreateAssignment creates coursework on a course the caller
// teaches.
func (h *Handler) HandleCreateAssignment(w http.ResponseWriter, r *http.Request) {
	var in createAssignmentInput
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

	if _, ok := h.requireCourseLecturer(ctx, w, r, courseID); !ok {
		return
	}

	created, err := assignmentstore.New(h.DB).Create(ctx, models.Assignment{
		CourseID:    courseID,
		Title:       in.Title,
		Description: in.Description,
		DueAt:       in.DueAt,
	})
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "creating assignment", err))
		return
	}

	httpjson.OK(w, http.StatusCreated, created)
}

// HandleListAssignments lists a course's assignments (?course=<id>),
// ordered by due date.
func (h *Handler) HandleListAssignments(w http.ResponseWriter, r *http.Request) {
	courseID, err := webid.FromString(r.URL.Query().Get("course"), "course")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, total, err := assignmentstore.New(h.DB).ListByCourse(ctx, courseID, p.Skip(), p.Limit64())
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "listing assignments", err))
		return
	}

	httpjson.Page(w, list, httpjson.PageMeta{Page: p.Page, Limit: p.Limit, Total: total})
}

// HandleGetAssignment returns one assignment.
func (h *Handler) HandleGetAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := webid.FromPath(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := assignmentstore.New(h.DB).GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "assignment not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading assignment", err))
		return
	}

	httpjson.OK(w, http.StatusOK, a)
}

type updateAssignmentInput struct {
	Title       string    `json:"title" validate:"required,max=300"`
	Description string    `json:"description" validate:"max=5000"`
	DueAt       time.Time `json:"due_at" validate:"required"`
}

// HandleUpdateAssignment replaces an assignment's details.
func (h *Handler) HandleUpdateAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := webid.FromPath(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var in updateAssignmentInput
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

	store := assignmentstore.New(h.DB)
	a, err := store.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "assignment not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading assignment", err))
		return
	}
	if _, ok := h.requireCourseLecturer(ctx, w, r, a.CourseID); !ok {
		return
	}

	if err := store.Update(ctx, id, in.Title, in.Description, in.DueAt); err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "updating assignment", err))
		return
	}

	updated, err := store.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "reloading assignment", err))
		return
	}
	httpjson.OK(w, http.StatusOK, updated)
}

// HandleDeleteAssignment removes an assignment.
func (h *Handler) HandleDeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := webid.FromPath(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := assignmentstore.New(h.DB)
	a, err := store.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "assignment not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading assignment", err))
		return
	}
	if _, ok := h.requireCourseLecturer(ctx, w, r, a.CourseID); !ok {
		return
	}

	if _, err := store.Delete(ctx, id); err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "deleting assignment", err))
		return
	}
	httpjson.NoContent(w)
}
