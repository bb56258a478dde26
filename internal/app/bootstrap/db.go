// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/dalemusser/eduhub/internal/app/system/indexes"
)

// EnsureSchema sets up the MongoDB indexes. Index creation needs a live
// server; when the database is down we log and continue, and the next
// startup with a reachable server reconciles the indexes.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.EduHubMongoDatabase == nil {
		return nil
	}
	if err := indexes.EnsureAll(ctx, deps.EduHubMongoDatabase); err != nil {
		logger.Warn("index setup failed, continuing in fallback mode", zap.Error(err))
	}
	return nil
}
