// internal/app/features/privatefiles/files.go
package privatefiles

import (
	"context"
	"net/http"

	filestore "github.com/communa-dev/communa/internal/app/store/privatefiles"
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

type createFileInput struct {
	FileName string `json:"file_name" validate:"required,max=300"`
	Path     string `json:"path" validate:"required,max=1000"`
}

// HandleCreateFile records file metadata for the signed-in user and
// mints a fresh storage key.
func (h *Handler) HandleCreateFile(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var in createFileInput
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

	created, err := filestore.New(h.DB).Create(ctx, ownerID, in.FileName, in.Path)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "creating file record", err))
		return
	}

	httpjson.OK(w, http.StatusCreated, created)
}

// HandleListFiles pages through the caller's own files.
func (h *Handler) HandleListFiles(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, total, err := filestore.New(h.DB).ListByOwner(ctx, ownerID, p.Skip(), p.Limit64())
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "listing files", err))
		return
	}

	httpjson.Page(w, list, httpjson.PageMeta{Page: p.Page, Limit: p.Limit, Total: total})
}

type renameFileInput struct {
	FileName string `json:"file_name" validate:"required,max=300"`
}

// HandleRenameFile changes a file's display name.
func (h *Handler) HandleRenameFile(w http.ResponseWriter, r *http.Request) {
	var in renameFileInput
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

	f, ok := h.loadOwnedFile(ctx, w, r)
	if !ok {
		return
	}

	store := filestore.New(h.DB)
	if err := store.Rename(ctx, f.ID, in.FileName); err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "renaming file", err))
		return
	}

	renamed, err := store.GetByID(ctx, f.ID)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "reloading file", err))
		return
	}
	httpjson.OK(w, http.StatusOK, renamed)
}

// HandleDeleteFile removes a file record.
func (h *Handler) HandleDeleteFile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	f, ok := h.loadOwnedFile(ctx, w, r)
	if !ok {
		return
	}

	if _, err := filestore.New(h.DB).Delete(ctx, f.ID); err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "deleting file", err))
		return
	}
	httpjson.NoContent(w)
}

func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	uid, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apierr.E(apierr.Unauthorized, "sign in required"))
		return primitive.NilObjectID, false
	}
	return uid, true
}

// loadOwnedFile fetches the file from the URL and hides other users'
// files behind a 404 rather than a 403.
func (h *Handler) loadOwnedFile(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.PrivateFile, bool) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return models.PrivateFile{}, false
	}
	id, err := webid.FromPath(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return models.PrivateFile{}, false
	}

	f, err := filestore.New(h.DB).GetByID(ctx, id)
	if err == mongo.ErrNoDocuments || (err == nil && f.OwnerID != ownerID) {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "file not found"))
		return models.PrivateFile{}, false
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading file", err))
		return models.PrivateFile{}, false
	}
	return f, true
}
