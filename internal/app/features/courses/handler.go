// internal/app/features/courses/handler.go
package courses

import (
	"net/http"

	"github.com/communa-dev/communa/internal/app/system/authz"
	"github.com/communa-dev/communa/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the courses feature,
// which also owns the nested meeting routes.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

// canManageCourse reports whether the caller may modify this specific
// course: super-admins always, lecturers only for courses they teach.
func canManageCourse(r *http.Request, c models.Course) bool {
	if authz.IsSuperAdmin(r) {
		return true
	}
	if !authz.Can(r, authz.CapManageCourses) {
		return false
	}
	uid, _, ok := authz.UserCtx(r)
	return ok && c.HasLecturer(uid)
}
