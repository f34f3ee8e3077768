// internal/app/features/threads/posts.go
package threads

import (
	"context"
	"net/http"

	"github.com/communa-dev/communa/internal/app/store/contrib"
	poststore "github.com/communa-dev/communa/internal/app/store/posts"
	"github.com/communa-dev/communa/internal/app/system/apierr"
	"github.com/communa-dev/communa/internal/app/system/authz"
	"github.com/communa-dev/communa/internal/app/system/httpjson"
	"github.com/communa-dev/communa/internal/app/system/inputval"
	"github.com/communa-dev/communa/internal/app/system/paging"
	"github.com/communa-dev/communa/internal/app/system/timeouts"
	"github.com/communa-dev/communa/internal/app/system/webid"
	"github.com/communa-dev/communa/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

type postInput struct {
	Content string `json:"content" validate:"required,max=10000"`
}

// HandleCreatePost adds a reply to a thread and credits the author
// with contribution points.
func (h *Handler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	var in postInput
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
	authorID, ok := h.requireParticipant(ctx, w, r, t.GroupID)
	if !ok {
		return
	}

	created, err := poststore.New(h.DB).Create(ctx, models.GroupPost{
		ThreadID: t.ID,
		AuthorID: authorID,
		Content:  sanitizer.Sanitize(in.Content),
	})
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "creating post", err))
		return
	}

	h.Ledger.ApplyDelta(ctx, t.GroupID, t.ID, authorID, contrib.PostPoints)
	h.Recorder.Record("created a post", authorID, &t.ID)

	httpjson.OK(w, http.StatusCreated, created)
}

// HandleListPosts pages through a thread's posts, oldest first.
func (h *Handler) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	t, ok := h.loadThread(ctx, w, r, "id")
	if !ok {
		return
	}

	list, total, err := poststore.New(h.DB).ListPage(ctx, t.ID, p.Skip(), p.Limit64())
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "listing posts", err))
		return
	}

	httpjson.Page(w, list, httpjson.PageMeta{Page: p.Page, Limit: p.Limit, Total: total})
}

// HandleUpdatePost replaces a post's content. Editing moves no
// contribution points.
func (h *Handler) HandleUpdatePost(w http.ResponseWriter, r *http.Request) {
	var in postInput
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

	_, post, ok := h.loadOwnedPost(ctx, w, r)
	if !ok {
		return
	}

	store := poststore.New(h.DB)
	if err := store.UpdateContent(ctx, post.ID, sanitizer.Sanitize(in.Content)); err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "updating post", err))
		return
	}

	updated, err := store.GetByID(ctx, post.ID)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "reloading post", err))
		return
	}
	httpjson.OK(w, http.StatusOK, updated)
}

// HandleDeletePost removes a post and takes back the points it earned.
// The reversal is charged to the post's author, not the caller.
func (h *Handler) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, post, ok := h.loadOwnedPost(ctx, w, r)
	if !ok {
		return
	}

	deleted, err := poststore.New(h.DB).Delete(ctx, post.ID)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "deleting post", err))
		return
	}
	if deleted == 0 {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "post not found"))
		return
	}

	uid, _, _ := authz.UserCtx(r)
	h.Ledger.ApplyDelta(ctx, t.GroupID, t.ID, post.AuthorID, -contrib.PostPoints)
	h.Recorder.Record("deleted a post", uid, &t.ID)

	httpjson.NoContent(w)
}

// loadOwnedPost fetches the thread and post from the URL and enforces
// the owner-or-moderator rule shared by post edit and delete.
func (h *Handler) loadOwnedPost(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.GroupThread, models.GroupPost, bool) {
	t, ok := h.loadThread(ctx, w, r, "id")
	if !ok {
		return models.GroupThread{}, models.GroupPost{}, false
	}

	postID, err := webid.FromPath(r, "postID")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return models.GroupThread{}, models.GroupPost{}, false
	}
	post, err := poststore.New(h.DB).GetByID(ctx, postID)
	if err == mongo.ErrNoDocuments || (err == nil && post.ThreadID != t.ID) {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "post not found"))
		return models.GroupThread{}, models.GroupPost{}, false
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading post", err))
		return models.GroupThread{}, models.GroupPost{}, false
	}

	uid, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apierr.E(apierr.Unauthorized, "sign in required"))
		return models.GroupThread{}, models.GroupPost{}, false
	}
	if post.AuthorID != uid && !authz.Can(r, authz.CapModerateGroups) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "you can only modify your own posts"))
		return models.GroupThread{}, models.GroupPost{}, false
	}

	return t, post, true
}
