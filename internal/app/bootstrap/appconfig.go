// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where everything specific to TaskForge lives: the MongoDB
// connection, the auth token secret, and the Gemini model settings.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Auth token configuration
	AuthSecret string        // Secret key for signing bearer tokens (must be strong in production)
	TokenTTL   time.Duration // Lifetime of issued tokens (e.g., 24h)

	// Gemini configuration
	GeminiAPIKey string // API key for the Gemini API (blank disables the assistant model)
	GeminiModel  string // Model name (e.g., gemini-2.0-flash)
}
