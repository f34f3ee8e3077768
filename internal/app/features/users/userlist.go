// internal/app/features/users/userlist.go
package users

import (
	"context"
	"net/http"
	"strings"

	userstore "github.com/communa-dev/communa/internal/app/store/users"
	"github.com/communa-dev/communa/internal/app/system/apierr"
	"github.com/communa-dev/communa/internal/app/system/authz"
	"github.com/communa-dev/communa/internal/app/system/httpjson"
	"github.com/communa-dev/communa/internal/app/system/paging"
	"github.com/communa-dev/communa/internal/app/system/timeouts"
)

// HandleListUsers lists users, optionally filtered by role and a
// folded-name prefix (?role=MAHASISWA&q=bud).
func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	if !authz.Can(r, authz.CapManageUsers) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "you do not have access to manage users"))
		return
	}

	p := paging.Parse(r)
	role := strings.TrimSpace(r.URL.Query().Get("role"))
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, total, err := userstore.New(h.DB).List(ctx, role, q, p.Skip(), p.Limit64())
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "listing users", err))
		return
	}

	httpjson.Page(w, list, httpjson.PageMeta{Page: p.Page, Limit: p.Limit, Total: total})
}
