// internal/app/features/users/usercreate.go
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
	"github.com/communa-dev/communa/internal/domain/models"
	"golang.org/x/crypto/bcrypt"
)

type createUserInput struct {
	FullName string   `json:"full_name" validate:"required,max=200"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	NRP      string   `json:"nrp" validate:"omitempty,max=20"`
	Roles    []string `json:"roles" validate:"required,min=1,dive,oneof=SUPER_ADMIN DOSEN MAHASISWA"`
	MajorID  string   `json:"major_id" validate:"omitempty,len=24"`
}

// HandleCreateUser creates a user with the given roles. Students must
// carry an NRP.
func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	if !authz.Can(r, authz.CapManageUsers) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "you do not have access to manage users"))
		return
	}

	var in createUserInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := inputval.Check(in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	u := models.User{
		FullName: in.FullName,
		Email:    in.Email,
		NRP:      in.NRP,
		Roles:    in.Roles,
	}
	if u.HasRole(models.RoleMahasiswa) && in.NRP == "" {
		httpjson.Error(w, h.Log, apierr.E(apierr.Invalid, "nrp is required for students"))
		return
	}
	if in.MajorID != "" {
		id, err := webid.FromString(in.MajorID, "major_id")
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		u.MajorID = &id
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "hashing password", err))
		return
	}
	u.PasswordHash = string(hash)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := userstore.New(h.DB).Create(ctx, u)
	if err == userstore.ErrDuplicate {
		httpjson.Error(w, h.Log, apierr.E(apierr.Conflict, err.Error()))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "creating user", err))
		return
	}

	httpjson.OK(w, http.StatusCreated, created)
}
