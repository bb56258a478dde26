// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	adminauthfeature "github.com/dalemusser/eduhub/internal/app/features/adminauth"
	browsefeature "github.com/dalemusser/eduhub/internal/app/features/browse"
	contentfeature "github.com/dalemusser/eduhub/internal/app/features/content"
	healthfeature "github.com/dalemusser/eduhub/internal/app/features/health"
	adminstore "github.com/dalemusser/eduhub/internal/app/store/admins"
	"github.com/dalemusser/eduhub/internal/app/store/catalog"
	contentstore "github.com/dalemusser/eduhub/internal/app/store/content"
	fallbackstore "github.com/dalemusser/eduhub/internal/app/store/fallback"
	"github.com/dalemusser/eduhub/internal/app/system/apiutil"
	"github.com/dalemusser/eduhub/internal/app/system/auth"
	"github.com/dalemusser/eduhub/internal/app/system/uploads"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. EduHub wires the two content backends
// behind the catalog facade, builds the admin token manager, and mounts the
// JSON API feature routers under /api.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// File storage for uploads.
	files, err := storage.NewLocal(storage.LocalConfig{
		BasePath: appCfg.UploadDir,
		BaseURL:  appCfg.UploadURL,
	})
	if err != nil {
		logger.Error("upload storage init failed", zap.Error(err))
		return nil, err
	}

	// The JSON fallback store; created up front so fallback mode works
	// from the first request.
	fb, err := fallbackstore.New(appCfg.FallbackDataFile, logger)
	if err != nil {
		logger.Error("fallback store init failed", zap.Error(err))
		return nil, err
	}

	admins := adminstore.New(deps.EduHubMongoDatabase)
	primary := contentstore.New(deps.EduHubMongoDatabase)
	cat := catalog.New(primary, fb, files, logger)

	// Admin tokens are verified against the live admins collection, so a
	// deleted account loses access as soon as its next request arrives.
	tokens, err := auth.NewManager(appCfg.TokenSecret, admins, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	saver := uploads.NewSaver(files, appCfg.BaseURL, appCfg.UploadURL, logger)

	r := chi.NewRouter()
	r.NotFound(apiutil.NotFoundHandler)

	// Uploaded files with pre-compressed file support (gzip/brotli)
	r.Handle(appCfg.UploadURL+"/*", fileserver.Handler(appCfg.UploadURL, appCfg.UploadDir))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.EduHubMongoClient, logger)
	r.Mount("/api/health", healthfeature.Routes(healthHandler))

	// Admin account management
	adminHandler := adminauthfeature.NewHandler(admins, tokens, logger)
	r.Mount("/api/admin", adminauthfeature.Routes(adminHandler, tokens))

	// Content CRUD and uploads
	contentHandler := contentfeature.NewHandler(cat, saver, logger)
	r.Mount("/api/content", contentfeature.Routes(contentHandler, tokens))

	// Discovery endpoints: stats, structure, subjects, categories
	browseHandler := browsefeature.NewHandler(cat, logger)
	r.Mount("/api", browsefeature.Routes(browseHandler))

	return r, nil
}
