// internal/app/features/threads/handler.go
package threads

import (
	"context"
	"net/http"

	"github.com/communa-dev/communa/internal/app/store/contrib"
	membershipstore "github.com/communa-dev/communa/internal/app/store/memberships"
	threadstore "github.com/communa-dev/communa/internal/app/store/threads"
	"github.com/communa-dev/communa/internal/app/system/activitylog"
	"github.com/communa-dev/communa/internal/app/system/apierr"
	"github.com/communa-dev/communa/internal/app/system/authz"
	"github.com/communa-dev/communa/internal/app/system/httpjson"
	"github.com/communa-dev/communa/internal/app/system/webid"
	"github.com/communa-dev/communa/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// sanitizer strips everything but user-generated-content-safe HTML
// from post bodies before they are stored.
var sanitizer = bluemonday.UGCPolicy()

// Handler is the shared dependency container for group threads, posts,
// tasks and the activity feed.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Ledger   *contrib.Ledger
	Recorder *activitylog.Recorder
}

func NewHandler(db *mongo.Database, logger *zap.Logger, ledger *contrib.Ledger, rec *activitylog.Recorder) *Handler {
	return &Handler{DB: db, Log: logger, Ledger: ledger, Recorder: rec}
}

// requireParticipant writes an error response unless the caller is an
// approved member of the thread's group or a moderator. Returns the
// caller's id on success.
func (h *Handler) requireParticipant(ctx context.Context, w http.ResponseWriter, r *http.Request, groupID primitive.ObjectID) (primitive.ObjectID, bool) {
	uid, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apierr.E(apierr.Unauthorized, "sign in required"))
		return primitive.NilObjectID, false
	}
	if authz.Can(r, authz.CapModerateGroups) {
		return uid, true
	}

	m, err := membershipstore.New(h.DB).GetActive(ctx, groupID, uid)
	if err == mongo.ErrNoDocuments || (err == nil && m.Status != models.MembershipApproved) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "you are not a member of this group"))
		return primitive.NilObjectID, false
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "checking membership", err))
		return primitive.NilObjectID, false
	}
	return uid, true
}

// loadThread fetches the thread named in the URL parameter.
func (h *Handler) loadThread(ctx context.Context, w http.ResponseWriter, r *http.Request, param string) (models.GroupThread, bool) {
	id, err := webid.FromPath(r, param)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return models.GroupThread{}, false
	}
	t, err := threadstore.New(h.DB).GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "thread not found"))
		return models.GroupThread{}, false
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading thread", err))
		return models.GroupThread{}, false
	}
	return t, true
}
