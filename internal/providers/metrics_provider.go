package providers

import (
	"fvm/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits(area string)
	IncCacheMisses(area string)
	ObservePersistenceDuration(op string, duration time.Duration)
	IncPersistenceFailures(reason string)
	IncShareDecodes(result string)
	SetButtonsTotal(role string, count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	persistenceDuration *prometheus.HistogramVec
	persistenceFailures *prometheus.CounterVec
	shareDecodes        *prometheus.CounterVec
	buttonsTotal        *prometheus.GaugeVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits(area string) {
	m.cacheHits.WithLabelValues(area).Inc()
}

func (m *MetricsProvider) IncCacheMisses(area string) {
	m.cacheMisses.WithLabelValues(area).Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(op string, duration time.Duration) {
	m.persistenceDuration.WithLabelValues(op).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncPersistenceFailures(reason string) {
	m.persistenceFailures.WithLabelValues(reason).Inc()
}

func (m *MetricsProvider) IncShareDecodes(result string) {
	m.shareDecodes.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) SetButtonsTotal(role string, count int) {
	m.buttonsTotal.WithLabelValues(role).Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	return newMetricsProvider(conf, prometheus.DefaultRegisterer)
}

func newMetricsProvider(conf *structures.Config, reg prometheus.Registerer) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	factory := promauto.With(reg)
	return &MetricsProvider{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fvm_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fvm_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fvm_cache_hits_total",
			Help: "Total number of cache hits",
		}, []string{"area"}),

		cacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fvm_cache_misses_total",
			Help: "Total number of cache misses",
		}, []string{"area"}),

		persistenceDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fvm_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),

		persistenceFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fvm_persistence_failures_total",
			Help: "Total number of failed persistence operations",
		}, []string{"reason"}),

		shareDecodes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fvm_share_decodes_total",
			Help: "Total number of share payload decodes by result",
		}, []string{"result"}),

		buttonsTotal: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fvm_buttons_total",
			Help: "Current number of buttons per machine",
		}, []string{"role"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                     {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)     {}
func (n *noopMetrics) IncCacheHits(_ string)                                {}
func (n *noopMetrics) IncCacheMisses(_ string)                              {}
func (n *noopMetrics) ObservePersistenceDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncPersistenceFailures(_ string)                      {}
func (n *noopMetrics) IncShareDecodes(_ string)                             {}
func (n *noopMetrics) SetButtonsTotal(_ string, _ int)                      {}
