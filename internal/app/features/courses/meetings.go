// internal/app/features/courses/meetings.go
package courses

import (
	"context"
	"net/http"
	"time"

	coursestore "github.com/communa-dev/communa/internal/app/store/courses"
	meetingstore "github.com/communa-dev/communa/internal/app/store/meetings"
	"github.com/communa-dev/communa/internal/app/system/apierr"
	"github.com/communa-dev/communa/internal/app/system/httpjson"
	"github.com/communa-dev/communa/internal/app/system/inputval"
	"github.com/communa-dev/communa/internal/app/system/paging"
	"github.com/communa-dev/communa/internal/app/system/timeouts"
	"github.com/communa-dev/communa/internal/app/system/webid"
	"github.com/communa-dev/communa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type meetingInput struct {
	Topic    string    `json:"topic" validate:"required,max=300"`
	Location string    `json:"location" validate:"max=300"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
}

// loadManagedCourse fetches the course from the URL and enforces the
// lecturer-or-admin rule shared by every meeting mutation.
func (h *Handler) loadManagedCourse(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Course, primitive.ObjectID, bool) {
	courseID, err := webid.FromPath(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return models.Course{}, primitive.NilObjectID, false
	}

	course, err := coursestore.New(h.DB).GetByID(ctx, courseID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "course not found"))
		return models.Course{}, primitive.NilObjectID, false
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading course", err))
		return models.Course{}, primitive.NilObjectID, false
	}
	if !canManageCourse(r, course) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "you do not have access to manage meetings for this course"))
		return models.Course{}, primitive.NilObjectID, false
	}
	return course, courseID, true
}

// HandleCreateMeeting schedules a session for a course.
func (h *Handler) HandleCreateMeeting(w http.ResponseWriter, r *http.Request) {
	var in meetingInput
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

	_, courseID, ok := h.loadManagedCourse(ctx, w, r)
	if !ok {
		return
	}

	created, err := meetingstore.New(h.DB).Create(ctx, models.Meeting{
		CourseID: courseID,
		Topic:    in.Topic,
		Location: in.Location,
		StartsAt: in.StartsAt,
		EndsAt:   in.EndsAt,
	})
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "creating meeting", err))
		return
	}

	httpjson.OK(w, http.StatusCreated, created)
}

// HandleListMeetings lists a course's meetings by start time.
func (h *Handler) HandleListMeetings(w http.ResponseWriter, r *http.Request) {
	courseID, err := webid.FromPath(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, total, err := meetingstore.New(h.DB).ListByCourse(ctx, courseID, p.Skip(), p.Limit64())
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "listing meetings", err))
		return
	}

	httpjson.Page(w, list, httpjson.PageMeta{Page: p.Page, Limit: p.Limit, Total: total})
}

// HandleUpdateMeeting replaces a meeting's details.
func (h *Handler) HandleUpdateMeeting(w http.ResponseWriter, r *http.Request) {
	meetingID, err := webid.FromPath(r, "meetingID")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var in meetingInput
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

	_, courseID, ok := h.loadManagedCourse(ctx, w, r)
	if !ok {
		return
	}

	store := meetingstore.New(h.DB)
	meeting, err := store.GetByID(ctx, meetingID)
	if err == mongo.ErrNoDocuments || (err == nil && meeting.CourseID != courseID) {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "meeting not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading meeting", err))
		return
	}

	if err := store.Update(ctx, meetingID, in.Topic, in.Location, in.StartsAt, in.EndsAt); err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "updating meeting", err))
		return
	}

	updated, err := store.GetByID(ctx, meetingID)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "reloading meeting", err))
		return
	}
	httpjson.OK(w, http.StatusOK, updated)
}

// HandleDeleteMeeting removes a meeting from the course schedule.
func (h *Handler) HandleDeleteMeeting(w http.ResponseWriter, r *http.Request) {
	meetingID, err := webid.FromPath(r, "meetingID")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, courseID, ok := h.loadManagedCourse(ctx, w, r)
	if !ok {
		return
	}

	store := meetingstore.New(h.DB)
	meeting, err := store.GetByID(ctx, meetingID)
	if err == mongo.ErrNoDocuments || (err == nil && meeting.CourseID != courseID) {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "meeting not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading meeting", err))
		return
	}

	if _, err := store.Delete(ctx, meetingID); err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "deleting meeting", err))
		return
	}
	httpjson.NoContent(w)
}
