package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Connection states mirrored into ConnectionState.
var connectionStates = []string{"disconnected", "connecting", "connected"}

var (
	// ConnectionState is 1 for the current supervisor state and 0 for the others.
	ConnectionState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "querygate_db_connection_state",
			Help: "Current database connection state (1 = active state)",
		},
		[]string{"state"},
	)

	// ConnectRetries mirrors the supervisor retry counter.
	ConnectRetries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "querygate_db_connect_retries",
			Help: "Consecutive failed connect attempts since the last successful connect",
		},
	)

	// ConnectAttemptsTotal counts dial attempts by result.
	ConnectAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "querygate_db_connect_attempts_total",
			Help: "Total number of database connect attempts",
		},
		[]string{"result"},
	)

	// ReconnectTriggersTotal counts reconnects requested from outside the retry loop.
	ReconnectTriggersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "querygate_db_reconnect_triggers_total",
			Help: "Total number of reconnect requests by source",
		},
		[]string{"source"},
	)

	// QueriesTotal counts gateway calls by outcome.
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "querygate_queries_total",
			Help: "Total number of proxied queries by outcome",
		},
		[]string{"outcome"},
	)

	// QueryDuration tracks execution time of queries that reached the database.
	QueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "querygate_query_duration_seconds",
			Help:    "Duration of proxied queries in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	// HealthProbesTotal counts liveness probes by result.
	HealthProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "querygate_health_probes_total",
			Help: "Total number of database liveness probes",
		},
		[]string{"result"},
	)
)

// Query outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeFatal       = "fatal"
	OutcomeUnavailable = "unavailable"
	OutcomeInvalid     = "invalid"
)

// SetConnectionState marks state as the active one.
func SetConnectionState(state string) {
	for _, s := range connectionStates {
		v := 0.0
		if s == state {
			v = 1
		}
		ConnectionState.WithLabelValues(s).Set(v)
	}
}

// RecordConnectAttempt records the result of one dial and the retry counter after it.
func RecordConnectAttempt(ok bool, retries int) {
	result := "failure"
	if ok {
		result = "success"
	}
	ConnectAttemptsTotal.WithLabelValues(result).Inc()
	ConnectRetries.Set(float64(retries))
}

// RecordReconnectTrigger records a reconnect requested by source.
func RecordReconnectTrigger(source string) {
	ReconnectTriggersTotal.WithLabelValues(source).Inc()
}

// RecordQuery records a gateway outcome. Duration is observed only for
// queries that were sent to the database.
func RecordQuery(outcome string, d time.Duration) {
	QueriesTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK || outcome == OutcomeError || outcome == OutcomeFatal {
		QueryDuration.Observe(d.Seconds())
	}
}

// RecordHealthProbe records the result of one liveness probe.
func RecordHealthProbe(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	HealthProbesTotal.WithLabelValues(result).Inc()
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
