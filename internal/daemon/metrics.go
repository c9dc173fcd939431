package daemon

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/coderprepares/yescode-statusbar/internal/balance"
)

// metrics holds the Prometheus collectors served at /metrics. Each Service
// owns its registry so tests can construct services independently.
type metrics struct {
	registry *prometheus.Registry

	refreshes      *prometheus.CounterVec
	fetchErrors    prometheus.Counter
	classifyErrors prometheus.Counter
	percentage     *prometheus.GaugeVec
	paygoBalance   prometheus.Gauge
	severityLevel  prometheus.Gauge
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()

	m := &metrics{
		registry: reg,
		refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yescode_refreshes_total",
				Help: "Total refresh cycles by trigger reason",
			},
			[]string{"reason"},
		),
		fetchErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "yescode_fetch_errors_total",
				Help: "Total failed profile fetches",
			},
		),
		classifyErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "yescode_classification_errors_total",
				Help: "Total profile snapshots rejected as malformed",
			},
		),
		percentage: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "yescode_balance_percentage",
				Help: "Latest critical balance reading by category (dollars on the payGo path)",
			},
			[]string{"category"},
		),
		paygoBalance: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "yescode_paygo_balance_dollars",
				Help: "Latest pay-as-you-go balance in USD",
			},
		),
		severityLevel: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "yescode_severity_level",
				Help: "Latest severity: 0 none, 1 warning, 2 error",
			},
		),
	}

	reg.MustRegister(m.refreshes, m.fetchErrors, m.classifyErrors,
		m.percentage, m.paygoBalance, m.severityLevel)
	return m
}

func (m *metrics) observe(res balance.Result) {
	m.percentage.Reset()
	m.percentage.WithLabelValues(string(res.Category)).Set(res.Percentage)

	if res.Category == balance.CategoryPayGo {
		m.paygoBalance.Set(res.Percentage)
	}

	switch res.Severity {
	case balance.SeverityError:
		m.severityLevel.Set(2)
	case balance.SeverityWarning:
		m.severityLevel.Set(1)
	default:
		m.severityLevel.Set(0)
	}
}
