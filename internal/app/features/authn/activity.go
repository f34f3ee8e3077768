// internal/app/features/authn/activity.go
package authn

import (
	"context"
	"net/http"

	activitystore "github.com/communa-dev/communa/internal/app/store/activity"
	"github.com/communa-dev/communa/internal/app/system/apierr"
	"github.com/communa-dev/communa/internal/app/system/auth"
	"github.com/communa-dev/communa/internal/app/system/httpjson"
	"github.com/communa-dev/communa/internal/app/system/paging"
	"github.com/communa-dev/communa/internal/app/system/timeouts"
	"github.com/communa-dev/communa/internal/app/system/webid"
)

// HandleMyActivity pages through the caller's own recorded actions,
// newest first.
func (h *Handler) HandleMyActivity(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, h.Log, apierr.E(apierr.Unauthorized, "sign in required"))
		return
	}
	actorID, err := webid.FromString(p.ID, "user id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	pg := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	entries, total, err := activitystore.New(h.DB).ListByActor(ctx, actorID, pg.Skip(), pg.Limit64())
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "listing activity", err))
		return
	}
	httpjson.Page(w, entries, httpjson.PageMeta{Page: pg.Page, Limit: pg.Limit, Total: total})
}
