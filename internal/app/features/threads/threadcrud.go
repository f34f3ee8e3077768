// internal/app/features/threads/threadcrud.go
package threads

import (
	"context"
	"net/http"

	assignmentstore "github.com/communa-dev/communa/internal/app/store/assignments"
	groupstore "github.com/communa-dev/communa/internal/app/store/groups"
	threadstore "github.com/communa-dev/communa/internal/app/store/threads"
	"github.com/communa-dev/communa/internal/app/system/apierr"
	"github.com/communa-dev/communa/internal/app/system/httpjson"
	"github.com/communa-dev/communa/internal/app/system/inputval"
	"github.com/communa-dev/communa/internal/app/system/paging"
	"github.com/communa-dev/communa/internal/app/system/timeouts"
	"github.com/communa-dev/communa/internal/app/system/webid"
	"github.com/communa-dev/communa/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

type createThreadInput struct {
	GroupID      string `json:"group_id" validate:"required,len=24"`
	Title        string `json:"title" validate:"required,max=300"`
	AssignmentID string `json:"assignment_id" validate:"omitempty,len=24"`
}

// HandleCreateThread opens a discussion thread in a group, optionally
// tied to an assignment. The assignment reference must resolve.
func (h *Handler) HandleCreateThread(w http.ResponseWriter, r *http.Request) {
	var in createThreadInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := inputval.Check(in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	groupID, err := webid.FromString(in.GroupID, "group_id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := groupstore.New(h.DB).GetByID(ctx, groupID); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "group not found"))
			return
		}
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading group", err))
		return
	}

	authorID, ok := h.requireParticipant(ctx, w, r, groupID)
	if !ok {
		return
	}

	t := models.GroupThread{
		GroupID:  groupID,
		Title:    in.Title,
		AuthorID: authorID,
	}
	if in.AssignmentID != "" {
		aid, err := webid.FromString(in.AssignmentID, "assignment_id")
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		if _, err := assignmentstore.New(h.DB).GetByID(ctx, aid); err != nil {
			if err == mongo.ErrNoDocuments {
				httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "assignment not found"))
				return
			}
			httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading assignment", err))
			return
		}
		t.AssignmentID = &aid
	}

	created, err := threadstore.New(h.DB).Create(ctx, t)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "creating thread", err))
		return
	}

	h.Recorder.Record("created a thread", authorID, &created.ID)

	httpjson.OK(w, http.StatusCreated, created)
}

// HandleListThreads pages through a group's threads, newest first,
// with assignment titles resolved.
func (h *Handler) HandleListThreads(w http.ResponseWriter, r *http.Request) {
	groupID, err := webid.FromString(r.URL.Query().Get("group"), "group")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, total, err := threadstore.New(h.DB).ListPage(ctx, groupID, p.Skip(), p.Limit64())
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "listing threads", err))
		return
	}

	httpjson.Page(w, rows, httpjson.PageMeta{Page: p.Page, Limit: p.Limit, Total: total})
}

// HandleGetThread returns one thread.
func (h *Handler) HandleGetThread(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, ok := h.loadThread(ctx, w, r, "id")
	if !ok {
		return
	}
	httpjson.OK(w, http.StatusOK, t)
}
