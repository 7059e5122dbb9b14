package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName string
}

// InitMetrics initializes the Prometheus metrics exporter.
// Returns the MeterProvider and an HTTP handler for the /metrics endpoint.
func InitMetrics(_ MetricsConfig) (*sdkmetric.MeterProvider, http.Handler, error) {
	exporter, err := promexporter.New()
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	handler := promhttp.Handler()

	return provider, handler, nil
}

// DecisionMetrics counts eligibility outcomes and created loans so the
// decision mix is observable without log scraping.
type DecisionMetrics struct {
	eligibilityChecks *prometheus.CounterVec
	loansCreated      prometheus.Counter
	creditScores      prometheus.Histogram
}

// NewDecisionMetrics registers the decision counters on the default registry.
func NewDecisionMetrics() *DecisionMetrics {
	return &DecisionMetrics{
		eligibilityChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "credit_eligibility_checks_total",
			Help: "Eligibility checks by decision outcome",
		}, []string{"outcome"}),
		loansCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "credit_loans_created_total",
			Help: "Loans persisted after an approved eligibility check",
		}),
		creditScores: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "credit_score_distribution",
			Help:    "Distribution of computed credit scores",
			Buckets: []float64{0, 10, 30, 50, 70, 90, 100},
		}),
	}
}

// ObserveDecision records one eligibility decision and its score.
func (m *DecisionMetrics) ObserveDecision(outcome string, score int) {
	m.eligibilityChecks.WithLabelValues(outcome).Inc()
	m.creditScores.Observe(float64(score))
}

// ObserveLoanCreated records one persisted loan.
func (m *DecisionMetrics) ObserveLoanCreated() {
	m.loansCreated.Inc()
}
