// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	apifeature "github.com/dalemusser/taskforge/internal/app/features/api"
	healthfeature "github.com/dalemusser/taskforge/internal/app/features/health"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point the bus already carries
// every command handler, so the router is thin: a health endpoint for load
// balancers and the JSON API gateway, which translates HTTP requests into
// bus commands.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.TaskForgeMongoClient, deps.Bus, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// JSON API gateway
	apiHandler := apifeature.NewHandler(deps.Bus, logger)
	r.Mount("/", apifeature.Routes(apiHandler))

	return r, nil
}
