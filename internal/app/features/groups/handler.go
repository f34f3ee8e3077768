// internal/app/features/groups/handler.go
package groups

import (
	"github.com/communa-dev/communa/internal/app/system/activitylog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the study-groups
// feature: group CRUD plus the membership approval workflow.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Recorder *activitylog.Recorder
}

func NewHandler(db *mongo.Database, logger *zap.Logger, rec *activitylog.Recorder) *Handler {
	return &Handler{DB: db, Log: logger, Recorder: rec}
}
