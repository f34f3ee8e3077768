// internal/app/features/assignments/submissions.go
package assignments

import (
	"context"
	"net/http"

	assignmentstore "github.com/communa-dev/communa/internal/app/store/assignments"
	submissionstore "github.com/communa-dev/communa/internal/app/store/submissions"
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

type submitInput struct {
	FileKey string `json:"file_key" validate:"required,max=300"`
	Note    string `json:"note" validate:"max=2000"`
}

// HandleSubmit records a student's submission metadata. Re-submitting
// replaces the previous file key and note and clears any grade.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if !authz.Can(r, authz.CapSubmitWork) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "only students can submit work"))
		return
	}
	studentID, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apierr.E(apierr.Unauthorized, "sign in required"))
		return
	}
	assignmentID, err := webid.FromPath(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var in submitInput
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

	if _, ok := h.loadAssignment(ctx, w, assignmentID); !ok {
		return
	}

	sub, err := submissionstore.New(h.DB).Upsert(ctx, assignmentID, studentID, in.FileKey, in.Note)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "saving submission", err))
		return
	}

	httpjson.OK(w, http.StatusOK, sub)
}

// HandleListSubmissions lists an assignment's submissions for its
// lecturers.
func (h *Handler) HandleListSubmissions(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := webid.FromPath(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, ok := h.loadAssignment(ctx, w, assignmentID)
	if !ok {
		return
	}
	if _, ok := h.requireCourseLecturer(ctx, w, r, a.CourseID); !ok {
		return
	}

	list, total, err := submissionstore.New(h.DB).ListByAssignment(ctx, assignmentID, p.Skip(), p.Limit64())
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "listing submissions", err))
		return
	}

	httpjson.Page(w, list, httpjson.PageMeta{Page: p.Page, Limit: p.Limit, Total: total})
}

// HandleMySubmission returns the caller's own submission.
func (h *Handler) HandleMySubmission(w http.ResponseWriter, r *http.Request) {
	studentID, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apierr.E(apierr.Unauthorized, "sign in required"))
		return
	}
	assignmentID, err := webid.FromPath(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sub, err := submissionstore.New(h.DB).GetByStudent(ctx, assignmentID, studentID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "submission not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading submission", err))
		return
	}

	httpjson.OK(w, http.StatusOK, sub)
}

type gradeInput struct {
	Score    int    `json:"score" validate:"min=0,max=100"`
	Feedback string `json:"feedback" validate:"max=2000"`
}

// HandleGrade records a score and feedback on a submission.
func (h *Handler) HandleGrade(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := webid.FromPath(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	submissionID, err := webid.FromPath(r, "submissionID")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var in gradeInput
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

	a, ok := h.loadAssignment(ctx, w, assignmentID)
	if !ok {
		return
	}
	if _, ok := h.requireCourseLecturer(ctx, w, r, a.CourseID); !ok {
		return
	}

	store := submissionstore.New(h.DB)
	sub, err := store.GetByID(ctx, submissionID)
	if err == mongo.ErrNoDocuments || (err == nil && sub.AssignmentID != assignmentID) {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "submission not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading submission", err))
		return
	}

	if err := store.Grade(ctx, submissionID, in.Score, in.Feedback); err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "grading submission", err))
		return
	}

	graded, err := store.GetByID(ctx, submissionID)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "reloading submission", err))
		return
	}
	httpjson.OK(w, http.StatusOK, graded)
}

func (h *Handler) loadAssignment(ctx context.Context, w http.ResponseWriter, id primitive.ObjectID) (models.Assignment, bool) {
	a, err := assignmentstore.New(h.DB).GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "assignment not found"))
		return models.Assignment{}, false
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading assignment", err))
		return models.Assignment{}, false
	}
	return a, true
}
