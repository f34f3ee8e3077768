// internal/app/features/authn/login.go
package authn

import (
	"context"
	"net/http"

	userstore "github.com/communa-dev/communa/internal/app/store/users"
	"github.com/communa-dev/communa/internal/app/system/apierr"
	"github.com/communa-dev/communa/internal/app/system/auth"
	"github.com/communa-dev/communa/internal/app/system/httpjson"
	"github.com/communa-dev/communa/internal/app/system/inputval"
	"github.com/communa-dev/communa/internal/app/system/timeouts"
	"github.com/communa-dev/communa/internal/app/system/webid"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// HandleLogin verifies credentials and issues a bearer token.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
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

	user, err := userstore.New(h.DB).GetByEmail(ctx, in.Email)
	if err == mongo.ErrNoDocuments {
		// Same message as a bad password so the endpoint does not leak
		// which accounts exist.
		httpjson.Error(w, h.Log, apierr.E(apierr.Unauthorized, "invalid email or password"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading user", err))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		httpjson.Error(w, h.Log, apierr.E(apierr.Unauthorized, "invalid email or password"))
		return
	}

	token, err := h.Tokens.Issue(user)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "issuing token", err))
		return
	}

	httpjson.OK(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// HandleMe returns the signed-in user's profile.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, h.Log, apierr.E(apierr.Unauthorized, "sign in required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := webid.FromString(p.ID, "user id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	user, err := userstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.NotFound, "user not found", err))
		return
	}

	httpjson.OK(w, http.StatusOK, user)
}
