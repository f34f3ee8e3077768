// internal/app/features/threads/tasks.go
package threads

import (
	"context"
	"net/http"

	taskstore "github.com/communa-dev/communa/internal/app/store/tasks"
	userstore "github.com/communa-dev/communa/internal/app/store/users"
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

type createTaskInput struct {
	Description string   `json:"description" validate:"required,max=1000"`
	Status      string   `json:"status" validate:"omitempty,oneof=DO IN_PROGRESS DONE"`
	AssigneeIDs []string `json:"assignee_ids" validate:"dive,len=24"`
}

// HandleCreateTask adds a work item to a thread. Tasks write activity
// entries but move no contribution points.
func (h *Handler) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in createTaskInput
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

	t, ok := h.loadThread(ctx, w, r, "id")
	if !ok {
		return
	}
	creatorID, ok := h.requireParticipant(ctx, w, r, t.GroupID)
	if !ok {
		return
	}

	assignees, err := h.resolveAssignees(ctx, in.AssigneeIDs)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	status := in.Status
	if status == "" {
		status = models.TaskDo
	}

	created, err := taskstore.New(h.DB).Create(ctx, models.GroupTask{
		ThreadID:    t.ID,
		Description: in.Description,
		Status:      status,
		AssigneeIDs: assignees,
		CreatedBy:   creatorID,
	})
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "creating task", err))
		return
	}

	h.Recorder.Record("created a task", creatorID, &t.ID)

	httpjson.OK(w, http.StatusCreated, created)
}

// HandleListTasks pages through a thread's tasks.
func (h *Handler) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	t, ok := h.loadThread(ctx, w, r, "id")
	if !ok {
		return
	}

	list, total, err := taskstore.New(h.DB).ListPage(ctx, t.ID, p.Skip(), p.Limit64())
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "listing tasks", err))
		return
	}

	httpjson.Page(w, list, httpjson.PageMeta{Page: p.Page, Limit: p.Limit, Total: total})
}

type updateTaskInput struct {
	Description *string   `json:"description" validate:"omitempty,max=1000"`
	Status      *string   `json:"status" validate:"omitempty,oneof=DO IN_PROGRESS DONE"`
	AssigneeIDs *[]string `json:"assignee_ids" validate:"omitempty,dive,len=24"`
}

// HandleUpdateTask partially updates a task; omitted fields keep
// their values.
func (h *Handler) HandleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var in updateTaskInput
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

	t, task, ok := h.loadGroupTask(ctx, w, r)
	if !ok {
		return
	}
	actorID, ok := h.requireParticipant(ctx, w, r, t.GroupID)
	if !ok {
		return
	}

	var assignees *[]primitive.ObjectID
	if in.AssigneeIDs != nil {
		resolved, err := h.resolveAssignees(ctx, *in.AssigneeIDs)
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		assignees = &resolved
	}

	store := taskstore.New(h.DB)
	if err := store.Update(ctx, task.ID, in.Description, in.Status, assignees); err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "updating task", err))
		return
	}

	h.Recorder.Record("updated a task", actorID, &t.ID)

	updated, err := store.GetByID(ctx, task.ID)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "reloading task", err))
		return
	}
	httpjson.OK(w, http.StatusOK, updated)
}

// HandleDeleteTask removes a task.
func (h *Handler) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, task, ok := h.loadGroupTask(ctx, w, r)
	if !ok {
		return
	}
	actorID, ok := h.requireParticipant(ctx, w, r, t.GroupID)
	if !ok {
		return
	}

	deleted, err := taskstore.New(h.DB).Delete(ctx, task.ID)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "deleting task", err))
		return
	}
	if deleted == 0 {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "task not found"))
		return
	}

	h.Recorder.Record("deleted a task", actorID, &t.ID)

	httpjson.NoContent(w)
}

func (h *Handler) loadGroupTask(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.GroupThread, models.GroupTask, bool) {
	t, ok := h.loadThread(ctx, w, r, "id")
	if !ok {
		return models.GroupThread{}, models.GroupTask{}, false
	}

	taskID, err := webid.FromPath(r, "taskID")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return models.GroupThread{}, models.GroupTask{}, false
	}
	task, err := taskstore.New(h.DB).GetByID(ctx, taskID)
	if err == mongo.ErrNoDocuments || (err == nil && task.ThreadID != t.ID) {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "task not found"))
		return models.GroupThread{}, models.GroupTask{}, false
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading task", err))
		return models.GroupThread{}, models.GroupTask{}, false
	}

	return t, task, true
}

// resolveAssignees deduplicates the requested assignee ids and keeps
// only those that name existing users; unknown ids are dropped
// without error.
func (h *Handler) resolveAssignees(ctx context.Context, hexes []string) ([]primitive.ObjectID, error) {
	seen := make(map[primitive.ObjectID]struct{}, len(hexes))
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, hex := range hexes {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			// Malformed ids are filtered, matching the unknown-id rule.
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return ids, nil
	}

	existing, err := userstore.New(h.DB).GetMany(ctx, ids)
	if err != nil {
		return nil, apierr.Wrap(apierr.Internal, "resolving assignees", err)
	}
	keep := make(map[primitive.ObjectID]struct{}, len(existing))
	for _, u := range existing {
		keep[u.ID] = struct{}{}
	}

	filtered := ids[:0]
	for _, id := range ids {
		if _, ok := keep[id]; ok {
			filtered = append(filtered, id)
		}
	}
	return filtered, nil
}
