// internal/app/features/authn/handler.go
package authn

import (
	"github.com/communa-dev/communa/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the authn feature.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	Tokens *auth.TokenManager
}

// NewHandler constructs an authn Handler. It is called from the
// bootstrap BuildHandler function, where the application's DB, logger
// and token manager are already initialized.
func NewHandler(db *mongo.Database, logger *zap.Logger, tokens *auth.TokenManager) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		Tokens: tokens,
	}
}
