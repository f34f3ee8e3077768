// internal/app/features/users/useredit.go
package users

import (
	"context"
	"net/http"

	userstore "github.com/communa-dev/communa/internal/app/store/users"
	"github.com/communa-dev/communa/internal/app/system/apierr"
	"github.com/communa-dev/communa/internal/app/system/authz"
	"github.com/communa-dev/communa/internal/app/system/httpjson"
	"github.com/communa-dev/communa/internal/app/system/inputval"
	"github.com/communa-dev/communa/internal/app/system/timeouts"
	"github.com/communa-dev/communa/internal/app/system/webid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleGetUser returns one user by id.
func (h *Handler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	if !authz.Can(r, authz.CapManageUsers) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "you do not have access to manage users"))
		return
	}
	id, err := webid.FromPath(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := userstore.New(h.DB).GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "user not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading user", err))
		return
	}

	httpjson.OK(w, http.StatusOK, user)
}

type updateUserInput struct {
	FullName string   `json:"full_name" validate:"required,max=200"`
	Roles    []string `json:"roles" validate:"required,min=1,dive,oneof=SUPER_ADMIN DOSEN MAHASISWA"`
	MajorID  string   `json:"major_id" validate:"omitempty,len=24"`
}

// HandleUpdateUser replaces a user's name, roles and major.
func (h *Handler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	if !authz.Can(r, authz.CapManageUsers) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "you do not have access to manage users"))
		return
	}
	id, err := webid.FromPath(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var in updateUserInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := inputval.Check(in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var majorID *primitive.ObjectID
	if in.MajorID != "" {
		mid, err := webid.FromString(in.MajorID, "major_id")
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		majorID = &mid
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := userstore.New(h.DB)
	if err := store.UpdateInfo(ctx, id, in.FullName, in.Roles, majorID); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "user not found"))
			return
		}
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "updating user", err))
		return
	}

	user, err := store.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "reloading user", err))
		return
	}
	httpjson.OK(w, http.StatusOK, user)
}

// HandleDeleteUser removes a user.
func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if !authz.Can(r, authz.CapManageUsers) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "you do not have access to manage users"))
		return
	}
	id, err := webid.FromPath(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	deleted, err := userstore.New(h.DB).Delete(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "deleting user", err))
		return
	}
	if deleted == 0 {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "user not found"))
		return
	}

	httpjson.NoContent(w)
}
