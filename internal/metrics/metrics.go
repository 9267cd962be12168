package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Workflow names used as label values
const (
	WorkflowRegistration = "registration"
	WorkflowCreateTeam   = "create_team"
	WorkflowJoinTeam     = "join_team"
	WorkflowDiscovery    = "discovery"
)

// Outcome label values
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

var (
	workflowCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sih_portal",
		Subsystem: "workflow",
		Name:      "outcomes_total",
		Help:      "The total number of workflow submissions by outcome",
	}, []string{"workflow", "outcome"})

	teamCodeRetryCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sih_portal",
		Subsystem: "workflow",
		Name:      "team_code_collisions_total",
		Help:      "The total number of generated team codes rejected as duplicates",
	})

	countFailureCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sih_portal",
		Subsystem: "discovery",
		Name:      "member_count_failures_total",
		Help:      "The total number of member counts reported as 0 after a store error",
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sih_portal",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// RecordWorkflow counts one workflow submission
func RecordWorkflow(workflow, outcome string) {
	workflowCounter.WithLabelValues(workflow, outcome).Inc()
}

// RecordTeamCodeCollision counts one regenerated team code
func RecordTeamCodeCollision() {
	teamCodeRetryCounter.Inc()
}

// RecordCountFailure counts one member count that fell back to 0
func RecordCountFailure() {
	countFailureCounter.Inc()
}

// ObserveRequest records the latency of a served request
func ObserveRequest(method, route, status string, seconds float64) {
	requestDuration.WithLabelValues(method, route, status).Observe(seconds)
}

// Handler serves the Prometheus exposition endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
