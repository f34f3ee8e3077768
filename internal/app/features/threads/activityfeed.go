// internal/app/features/threads/activityfeed.go
package threads

import (
	"context"
	"net/http"

	activitystore "github.com/communa-dev/communa/internal/app/store/activity"
	"github.com/communa-dev/communa/internal/app/system/apierr"
	"github.com/communa-dev/communa/internal/app/system/httpjson"
	"github.com/communa-dev/communa/internal/app/system/paging"
	"github.com/communa-dev/communa/internal/app/system/timeouts"
)

// HandleListActivity pages through a thread's activity entries,
// oldest first. Entries are best-effort, so the feed may lag the
// actions it describes.
func (h *Handler) HandleListActivity(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	t, ok := h.loadThread(ctx, w, r, "id")
	if !ok {
		return
	}

	list, total, err := activitystore.New(h.DB).ListByThread(ctx, t.ID, p.Skip(), p.Limit64())
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "listing activity", err))
		return
	}

	httpjson.Page(w, list, httpjson.PageMeta{Page: p.Page, Limit: p.Limit, Total: total})
}
