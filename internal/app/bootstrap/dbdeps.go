// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/communa-dev/communa/internal/app/system/activitylog"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Recorder is the background activity-log writer. It is created in
	// ConnectDB and drained in Shutdown.
	Recorder *activitylog.Recorder
}
