// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"os"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	// The upload directory must exist before the first multipart request.
	if err := os.MkdirAll(appCfg.UploadDir, 0o755); err != nil {
		logger.Error("could not create upload directory",
			zap.String("dir", appCfg.UploadDir), zap.Error(err))
		return err
	}

	logger.Info("eduhub starting",
		zap.String("upload_dir", appCfg.UploadDir),
		zap.String("fallback_data_file", appCfg.FallbackDataFile))
	return nil
}
