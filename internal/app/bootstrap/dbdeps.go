// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/taskforge/internal/bus"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// The bus lives here so that Startup can bind services to it and
// BuildHandler can hand it to the gateway.
type DBDeps struct {
	TaskForgeMongoClient   *mongo.Client
	TaskForgeMongoDatabase *mongo.Database
	Bus                    *bus.Bus
}
