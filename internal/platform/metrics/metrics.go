package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics は打刻サービスの Prometheus メトリクスを保持します。
type Metrics struct {
	registry *prometheus.Registry

	CheckInsRecorded    *prometheus.CounterVec
	CheckInsRejected    *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New は専用レジストリにメトリクスを登録して返します。
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		CheckInsRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pointage_checkins_recorded_total",
			Help: "Total number of check-ins recorded, by kind",
		}, []string{"kind"}),
		CheckInsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pointage_checkins_rejected_total",
			Help: "Total number of check-ins rejected by the alternation rule, by reason",
		}, []string{"reason"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pointage_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route", "status"}),
	}
}

// IncrementCheckInRecorded は記録済み打刻を種別ごとに数えます。
func (m *Metrics) IncrementCheckInRecorded(kind string) {
	m.CheckInsRecorded.WithLabelValues(kind).Inc()
}

// IncrementCheckInRejected はルール違反で拒否された打刻を理由ごとに数えます。
func (m *Metrics) IncrementCheckInRejected(reason string) {
	m.CheckInsRejected.WithLabelValues(reason).Inc()
}

// ObserveHTTPRequest は start からの経過時間を記録します。
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, start time.Time) {
	m.HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}

// Registry は登録先のレジストリを返します。
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler は /metrics 用のハンドラーを返します。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
