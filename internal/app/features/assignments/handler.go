// internal/app/features/assignments/handler.go
package assignments

import (
	"context"
	"net/http"

	coursestore "github.com/communa-dev/communa/internal/app/store/courses"
	"github.com/communa-dev/communa/internal/app/system/apierr"
	"github.com/communa-dev/communa/internal/app/system/authz"
	"github.com/communa-dev/communa/internal/app/system/httpjson"
	"github.com/communa-dev/communa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the assignments
// feature, which also owns the nested submission routes.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

// requireCourseLecturer loads the course and writes an error response
// unless the caller is a super-admin or one of its lecturers.
func (h *Handler) requireCourseLecturer(ctx context.Context, w http.ResponseWriter, r *http.Request, courseID primitive.ObjectID) (models.Course, bool) {
	course, err := coursestore.New(h.DB).GetByID(ctx, courseID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apierr.E(apierr.NotFound, "course not found"))
		return models.Course{}, false
	}
	if err != nil {
		httpjson.Error(w, h.Log, apierr.Wrap(apierr.Internal, "loading course", err))
		return models.Course{}, false
	}

	if authz.IsSuperAdmin(r) {
		return course, true
	}
	uid, _, ok := authz.UserCtx(r)
	if !ok || !authz.Can(r, authz.CapManageCourses) || !course.HasLecturer(uid) {
		httpjson.Error(w, h.Log, apierr.E(apierr.Forbidden, "you do not have access to manage this course's assignments"))
		return models.Course{}, false
	}
	return course, true
}
