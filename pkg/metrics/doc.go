// Package metrics registers the Prometheus collectors exported by querygate.
//
// Collectors are package-level and registered on the default registry through
// promauto, so recording helpers can be called from any package without wiring.
//
//	metrics.SetConnectionState("connected")
//	metrics.RecordQuery(metrics.OutcomeOK, time.Since(start))
//
// Handler serves the default registry and is mounted at /api/metrics.
package metrics
