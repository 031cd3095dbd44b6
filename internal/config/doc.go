// Package config manages application configuration for the Attendly API.
//
// The config package loads and validates configuration from environment
// variables. All configuration is centralized here to provide a single source
// of truth.
//
// # Configuration Loading
//
// Configuration is loaded from environment variables:
//
//	cfg, err := config.Load()
//	if err := cfg.Validate(); err != nil {
//	    // all validation failures joined into one error
//	}
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - DatabaseConfig: SurrealDB connection settings
//   - JWTConfig: JWT signing and validation settings
//   - RateLimitConfig: per-client request throttling
//   - StreamConfig: SSE fan-out buffering and heartbeat
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_PORT          - HTTP server port (default: 8080)
//	SERVER_ENV           - development, production or test
//	DB_HOST / DB_PORT    - SurrealDB endpoint
//	DB_NAMESPACE / DB_DATABASE
//	JWT_PRIVATE_KEY_PATH - RS256 signing key
//	JWT_EXPIRATION_MINS  - access token lifetime
//	RATE_LIMIT_RPM       - requests per minute per client
//
// Sensible defaults are provided for development.
package config
