// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	assignmentsfeature "github.com/communa-dev/communa/internal/app/features/assignments"
	authnfeature "github.com/communa-dev/communa/internal/app/features/authn"
	coursesfeature "github.com/communa-dev/communa/internal/app/features/courses"
	groupsfeature "github.com/communa-dev/communa/internal/app/features/groups"
	healthfeature "github.com/communa-dev/communa/internal/app/features/health"
	privatefilesfeature "github.com/communa-dev/communa/internal/app/features/privatefiles"
	refdatafeature "github.com/communa-dev/communa/internal/app/features/refdata"
	threadsfeature "github.com/communa-dev/communa/internal/app/features/threads"
	usersfeature "github.com/communa-dev/communa/internal/app/features/users"
	"github.com/communa-dev/communa/internal/app/store/contrib"
	"github.com/communa-dev/communa/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. Communa mounts the health
// endpoint and the login route publicly; everything else sits behind
// the bearer-token middleware.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase
	tokens := auth.NewTokenManager(appCfg.JWTSecret, appCfg.JWTExpiry)
	ledger := contrib.NewLedger(db, logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Get("/healthz", healthHandler.ServeHealth)

	// Authentication (login is public, /auth/me is not)
	authnHandler := authnfeature.NewHandler(db, logger, tokens)
	r.Mount("/auth", authnfeature.Routes(authnHandler))

	// API surface, all behind the token middleware.
	r.Group(func(pr chi.Router) {
		pr.Use(tokens.RequireSignedIn)

		usersHandler := usersfeature.NewHandler(db, logger)
		pr.Mount("/users", usersfeature.Routes(usersHandler))

		refdataHandler := refdatafeature.NewHandler(db, logger)
		pr.Mount("/refdata", refdatafeature.Routes(refdataHandler))

		coursesHandler := coursesfeature.NewHandler(db, logger)
		pr.Mount("/courses", coursesfeature.Routes(coursesHandler))

		assignmentsHandler := assignmentsfeature.NewHandler(db, logger)
		pr.Mount("/assignments", assignmentsfeature.Routes(assignmentsHandler))

		groupsHandler := groupsfeature.NewHandler(db, logger, deps.Recorder)
		pr.Mount("/groups", groupsfeature.Routes(groupsHandler))

		threadsHandler := threadsfeature.NewHandler(db, logger, ledger, deps.Recorder)
		pr.Mount("/threads", threadsfeature.Routes(threadsHandler))

		filesHandler := privatefilesfeature.NewHandler(db, logger)
		pr.Mount("/files", privatefilesfeature.Routes(filesHandler))
	})

	return r, nil
}
