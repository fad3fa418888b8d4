// Package config provides a type-safe, generic way to load application
// configuration from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
//
//   - The default `.env` in the working directory is loaded once per process;
//     LoadEnv loads additional files explicitly.
//   - Load parses the environment into a struct and caches the result per type,
//     so later calls never re-read the environment.
//   - Parse does the same without caching. The database connector uses it to
//     rebuild connection settings before every connect attempt.
//   - MustLoad panics on failure for configuration the process cannot start without.
//
// # Usage
//
//	type ServerConfig struct {
//	    Port string `env:"PORT" envDefault:"8080"`
//	}
//
//	var cfg ServerConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
// # Error Handling
//
// Sentinel errors can be compared with `errors.Is`:
//
//   - ErrParsingConfig: failed to parse env vars into struct.
//   - ErrLoadingEnvFile: an explicitly requested .env file could not be read.
//   - ErrNilPointer: nil pointer passed to Load/Parse.
//
// Use ResetCache between tests that change the environment.
package config
