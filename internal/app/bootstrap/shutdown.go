// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown cleanly tears down the bus and DB connections. The bus closes
// first so in-flight events drain before the database goes away.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Bus != nil {
		if err := deps.Bus.Close(ctx); err != nil {
			logger.Warn("bus close incomplete", zap.Error(err))
		}
	}
	if deps.TaskForgeMongoClient != nil {
		logger.Info("disconnecting TaskForge MongoDB client")
		if err := deps.TaskForgeMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
