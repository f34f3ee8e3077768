// internal/app/features/groups/memberships.go
package groups

import (
	"context"
	"net/http"

	groupstore "github.com/communa-dev/communa/internal/app/store/groups"
	membershipstore "github.com/communa-dev/communa/internal/app/store/memberships"
	"github.com/communa-dev/communa/internal/app/system/apierr"
	"github.com/communa-dev/communa/internal/app/system/authz"
	"github.com/communa-dev/communa/internal/app/system/httpjson"
	"github.com/communa-dev/communa/internal/app/system/paging"
	"github.com/communa-dev/communa/internal/app/system/timeouts"
	"github.com/communa-dev/communa/internal/app/system/webid"
	"github.com/communa-dev/communa/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleJoinGroup files a PENDING membership request for the signed-in
// student. A REJECTED record from an earlier attempt does not block a
// new request.
func (h *Handler) HandleJoinGroup(w http.ResponseWriter, r *http.Request) {
	if !authz.Can(r, authz.CapJoinGroups) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "only students can join groups"))
		return
	}
	studentID, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apierr.E(apierr.Unauthorized, "sign in required"))
		return
	}
	groupID, err := webid.FromPath(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := groupstore.New(h.DB).GetByID(ctx, groupID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "group not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading group", err))
		return
	}
	if g.IsClosed {
		httpjson.Error(w, h.Log, apierr.E(apierr.Invalid, "this group is closed to new members"))
		return
	}

	store := membershipstore.New(h.DB)
	existing, err := store.GetActive(ctx, groupID, studentID)
	if err == nil {
		switch existing.Status {
		case models.MembershipApproved:
			httpjson.Error(w, h.Log, apierr.E(apierr.Invalid, "you are already a member of this group"))
		default:
			httpjson.Error(w, h.Log, apierr.E(apierr.Invalid, "you have already requested to join this group"))
		}
		return
	}
	if err != mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "checking membership", err))
		return
	}

	m, err := store.Join(ctx, groupID, studentID)
	if err == membershipstore.ErrDuplicateRequest {
		// Lost the race against a concurrent request from the same
		// student; the unique index is the arbiter.
		httpjson.Error(w, h.Log, apierr.E(apierr.Invalid, "you have already requested to join this group"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "creating membership request", err))
		return
	}

	h.Recorder.Record("requested to join a group", studentID, nil)
	httpjson.OK(w, http.StatusCreated, m)
}

// HandleApproveMembership admits a pending member, subject to the
// group's capacity. The count and the status flip are two steps; two
// racing approvals can both pass the check, which is accepted.
func (h *Handler) HandleApproveMembership(w http.ResponseWriter, r *http.Request) {
	if !authz.Can(r, authz.CapModerateGroups) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "you do not have access to moderate groups"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, g, ok := h.loadPendingMembership(ctx, w, r)
	if !ok {
		return
	}

	store := membershipstore.New(h.DB)
	approved, err := store.CountByStatus(ctx, g.ID, models.MembershipApproved)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "counting members", err))
		return
	}
	if approved >= int64(g.Capacity) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Invalid, "this group is already at capacity"))
		return
	}

	if err := store.SetStatus(ctx, m.ID, models.MembershipApproved); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "membership request not found"))
			return
		}
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "approving membership", err))
		return
	}

	updated, err := store.GetByID(ctx, m.ID)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "reloading membership", err))
		return
	}
	if actorID, _, ok := authz.UserCtx(r); ok {
		h.Recorder.Record("approved a membership request", actorID, nil)
	}
	httpjson.OK(w, http.StatusOK, updated)
}

// HandleRejectMembership declines a pending request. Rejection has no
// capacity precondition.
func (h *Handler) HandleRejectMembership(w http.ResponseWriter, r *http.Request) {
	if !authz.Can(r, authz.CapModerateGroups) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "you do not have access to moderate groups"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, _, ok := h.loadPendingMembership(ctx, w, r)
	if !ok {
		return
	}

	store := membershipstore.New(h.DB)
	if err := store.SetStatus(ctx, m.ID, models.MembershipRejected); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "membership request not found"))
			return
		}
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "rejecting membership", err))
		return
	}

	updated, err := store.GetByID(ctx, m.ID)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "reloading membership", err))
		return
	}
	if actorID, _, ok := authz.UserCtx(r); ok {
		h.Recorder.Record("rejected a membership request", actorID, nil)
	}
	httpjson.OK(w, http.StatusOK, updated)
}

type listMembersResponse struct {
	Members      []membershipstore.MemberRow `json:"members"`
	PendingCount int64                       `json:"pending_count"`
}

// HandleListMemberships pages through a group's membership roster and
// reports how many requests are still pending.
func (h *Handler) HandleListMemberships(w http.ResponseWriter, r *http.Request) {
	if !authz.Can(r, authz.CapModerateGroups) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "you do not have access to moderate groups"))
		return
	}
	groupID, err := webid.FromPath(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := groupstore.New(h.DB).GetByID(ctx, groupID); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "group not found"))
			return
		}
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading group", err))
		return
	}

	store := membershipstore.New(h.DB)
	rows, total, err := store.ListPage(ctx, groupID, p.Skip(), p.Limit64())
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "listing memberships", err))
		return
	}
	pending, err := store.CountByStatus(ctx, groupID, models.MembershipPending)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "counting pending requests", err))
		return
	}

	httpjson.Page(w,
		listMembersResponse{Members: rows, PendingCount: pending},
		httpjson.PageMeta{Page: p.Page, Limit: p.Limit, Total: total})
}

// HandleMyMemberships lists the caller's membership records across all
// groups, newest first.
func (h *Handler) HandleMyMemberships(w http.ResponseWriter, r *http.Request) {
	studentID, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apierr.E(apierr.Unauthorized, "sign in required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := membershipstore.New(h.DB).ListByStudent(ctx, studentID)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "listing memberships", err))
		return
	}
	httpjson.OK(w, http.StatusOK, list)
}

// loadPendingMembership fetches the membership named in the URL,
// confirms it belongs to the group in the URL and is still PENDING,
// and returns it with its group.
func (h *Handler) loadPendingMembership(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.GroupMembership, models.StudyGroup, bool) {
	groupID, err := webid.FromPath(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return models.GroupMembership{}, models.StudyGroup{}, false
	}
	membershipID, err := webid.FromPath(r, "membershipID")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return models.GroupMembership{}, models.StudyGroup{}, false
	}

	g, err := groupstore.New(h.DB).GetByID(ctx, groupID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "group not found"))
		return models.GroupMembership{}, models.StudyGroup{}, false
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading group", err))
		return models.GroupMembership{}, models.StudyGroup{}, false
	}

	m, err := membershipstore.New(h.DB).GetByID(ctx, membershipID)
	if err == mongo.ErrNoDocuments || (err == nil && m.GroupID != groupID) {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "membership request not found"))
		return models.GroupMembership{}, models.StudyGroup{}, false
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading membership", err))
		return models.GroupMembership{}, models.StudyGroup{}, false
	}
	if m.Status != models.MembershipPending {
		httpjson.Error(w, h.Log, apierr.E(apierr.Invalid, "membership request is not pending"))
		return models.GroupMembership{}, models.StudyGroup{}, false
	}

	return m, g, true
}
