// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration: WAFFLE's CoreConfig
// handles ports, TLS, logging level, CORS, and request limits.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Admin token configuration
	TokenSecret string // Secret key for signing admin JWTs (must be strong in production)

	// Upload storage configuration
	UploadDir string // Local directory uploaded files are written to
	UploadURL string // URL prefix uploaded files are served under (e.g., "/uploads")

	// Fallback store configuration
	FallbackDataFile string // Path of the JSON file used when MongoDB is unavailable

	// Base URL used when building absolute file URLs
	BaseURL string // e.g., "https://eduhub.example.com" (blank means use the request's origin)
}
