// Package health builds the liveness document served at /api/health.
//
// The document is always produced, so the endpoint can answer 200 even while
// the database is down. Only the database section reflects connection state:
//
//	connected     the SELECT 1 probe succeeded
//	disconnected  the supervisor is not connected; no probe is sent
//	error         the probe failed; a reconnect is triggered in the background
//
// The top-level status becomes "degraded" only when building the report itself fails.
package health
