// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	userstore "github.com/communa-dev/communa/internal/app/store/users"
	"github.com/communa-dev/communa/internal/app/system/timeouts"
	"github.com/communa-dev/communa/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// Communa uses it to guarantee a reachable SUPER_ADMIN account.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SuperAdminEmail == "" {
		return nil
	}
	return ensureSuperAdmin(ctx, appCfg, deps, logger)
}

// ensureSuperAdmin promotes an existing account to SUPER_ADMIN, or
// creates one when the configured email is unknown.
func ensureSuperAdmin(ctx context.Context, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	opCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	store := userstore.New(deps.MongoDatabase)

	existing, err := store.GetByEmail(opCtx, appCfg.SuperAdminEmail)
	if err == nil {
		if existing.HasRole(models.RoleSuperAdmin) {
			return nil
		}
		roles := append(existing.Roles, models.RoleSuperAdmin)
		if err := store.UpdateInfo(opCtx, existing.ID, existing.FullName, roles, existing.MajorID); err != nil {
			return fmt.Errorf("promoting superadmin: %w", err)
		}
		logger.Info("promoted existing user to superadmin",
			zap.String("email", appCfg.SuperAdminEmail))
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return fmt.Errorf("looking up superadmin: %w", err)
	}

	if appCfg.SuperAdminPassword == "" {
		return fmt.Errorf("superadmin_password is required to create %s", appCfg.SuperAdminEmail)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(appCfg.SuperAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing superadmin password: %w", err)
	}

	if _, err := store.Create(opCtx, models.User{
		FullName:     appCfg.SuperAdminName,
		Email:        appCfg.SuperAdminEmail,
		PasswordHash: string(hash),
		Roles:        []string{models.RoleSuperAdmin},
	}); err != nil {
		return fmt.Errorf("creating superadmin: %w", err)
	}

	logger.Info("created superadmin account",
		zap.String("email", appCfg.SuperAdminEmail))
	return nil
}
