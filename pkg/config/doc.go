// Package config provides configuration management for h2scaffold.
//
// This package handles loading, validating, and defaulting the configuration
// of the two HTTP listeners, the telemetry stack and the TLS material. It
// reads YAML files, optional .env files and environment variable overrides.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only (an empty path yields the defaults):
//     cfg, err := config.LoadConfig("h2scaffold.yaml")
//
//  2. From a YAML file with .env and environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("h2scaffold.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention H2S_SECTION_FIELD.
// For example:
//
//   - H2S_SERVER_HTTP_ADDRESS overrides server.http_address
//   - H2S_SECURITY_TLS_CERT_FILE overrides security.tls.cert_file
//   - H2S_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// The deployment environment is read from APP_ENV, or H2S_ENVIRONMENT when
// both are set. "production" selects info-level logging and anything else
// selects debug-level logging.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides (.env files never replace variables
//     already present in the process environment)
//  4. Validation (fails fast if invalid)
//
// # Validation
//
// Validation errors include field paths and helpful messages:
//
//	configuration validation failed with 2 errors:
//	  - server.tls_address: TLS listener must not share the plaintext listen address
//	  - telemetry.metrics.request_duration_buckets[3]: bucket upper bounds must be strictly increasing
//
// # Example Configuration
//
//	environment: production
//
//	server:
//	  http_address: ":3000"
//	  tls_address: ":3001"
//
//	telemetry:
//	  logging:
//	    format: "json"
//	  metrics:
//	    path: "/metrics"
//
//	security:
//	  tls:
//	    cert_file: "certs/server.crt"
//	    key_file: "certs/server.key"
package config
