// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/taskforge/internal/app/policy/projectpolicy"
	contextstore "github.com/dalemusser/taskforge/internal/app/store/contexts"
	membershipstore "github.com/dalemusser/taskforge/internal/app/store/memberships"
	projectstore "github.com/dalemusser/taskforge/internal/app/store/projects"
	taskstore "github.com/dalemusser/taskforge/internal/app/store/tasks"
	userstore "github.com/dalemusser/taskforge/internal/app/store/users"
	"github.com/dalemusser/taskforge/internal/services/assistant"
	"github.com/dalemusser/taskforge/internal/services/auth"
	"github.com/dalemusser/taskforge/internal/services/project"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup wires the stores and services together and binds every command
// handler and event subscription onto the bus. After this runs the bus can
// serve the full command surface; BuildHandler only has to expose it over
// HTTP.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.TaskForgeMongoDatabase

	users := userstore.New(db)
	projects := projectstore.New(deps.TaskForgeMongoClient, db, logger)
	memberships := membershipstore.New(db)
	tasks := taskstore.New(db)
	contexts := contextstore.New(db)

	policy := projectpolicy.New(memberships)

	tokens := auth.NewTokenCodec(appCfg.AuthSecret, appCfg.TokenTTL)
	authSvc := auth.New(users, tokens, logger)
	authSvc.Bind(deps.Bus)

	projectSvc := project.New(projects, memberships, tasks, users, policy, deps.Bus, logger)
	projectSvc.Bind(deps.Bus)

	var generator assistant.Generator = assistant.DisabledGenerator{}
	if appCfg.GeminiAPIKey != "" {
		g, err := assistant.NewGeminiGenerator(ctx, appCfg.GeminiAPIKey, appCfg.GeminiModel)
		if err != nil {
			logger.Error("gemini client init failed", zap.Error(err))
			return err
		}
		generator = g
	}

	assistantSvc := assistant.New(contexts, generator, logger)
	assistantSvc.Bind(deps.Bus)

	// Exercise the model once so a bad key surfaces in the logs at startup
	// rather than on the first chat request.
	if appCfg.GeminiAPIKey != "" {
		assistantSvc.Probe(ctx)
	}

	logger.Info("services bound to bus", zap.String("gemini_model", appCfg.GeminiModel))
	return nil
}
