package metrics

import (
	"net/http"
	"sync"
	"time"

	"borrowlend/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "borrowlend"

// Metrics ledger operation and monitor scan collectors
type Metrics struct {
	operations   *prometheus.CounterVec
	accounts     prometheus.Gauge
	liquidatable prometheus.Gauge
	failed       prometheus.Gauge
	scanDuration prometheus.Histogram
}

var (
	once     sync.Once
	registry *Metrics
)

// Ledger lazily registered collectors on the default registry
func Ledger() *Metrics {
	once.Do(func() {
		registry = &Metrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "operations_total",
				Help:      "Ledger operations segmented by action and result code.",
			}, []string{"action", "code"}),
			accounts: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "monitor",
				Name:      "accounts",
				Help:      "Accounts covered by the last health scan.",
			}),
			liquidatable: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "monitor",
				Name:      "liquidatable_accounts",
				Help:      "Accounts below the minimum health factor at the last scan.",
			}),
			failed: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "monitor",
				Name:      "failed_accounts",
				Help:      "Accounts the last scan could not value.",
			}),
			scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "monitor",
				Name:      "scan_duration_seconds",
				Help:      "Duration of one health scan over every account.",
				Buckets:   prometheus.DefBuckets,
			}),
		}

		prometheus.MustRegister(
			registry.operations,
			registry.accounts,
			registry.liquidatable,
			registry.failed,
			registry.scanDuration,
		)
	})

	return registry
}

// Code label value of err, "ok" for nil
func Code(err error) string {
	if err == nil {
		return "ok"
	}

	return core.CodeOf(err).String()
}

// ObserveOperation count one ledger operation outcome
func (m *Metrics) ObserveOperation(action core.EventAction, err error) {
	m.operations.WithLabelValues(string(action), Code(err)).Inc()
}

// ObserveScan record the result of one monitor scan
func (m *Metrics) ObserveScan(accounts, liquidatable, failed int, elapsed time.Duration) {
	m.accounts.Set(float64(accounts))
	m.liquidatable.Set(float64(liquidatable))
	m.failed.Set(float64(failed))
	m.scanDuration.Observe(elapsed.Seconds())
}

// Handler exposition handler of the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
