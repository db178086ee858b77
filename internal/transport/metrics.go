package transport

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsObserver exports request counts and latencies to Prometheus.
type MetricsObserver struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetricsObserver registers the transport collectors on reg.
func NewMetricsObserver(reg prometheus.Registerer) (*MetricsObserver, error) {
	m := &MetricsObserver{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chantier",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Backend API requests by resource, method and outcome.",
		}, []string{"resource", "method", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chantier",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Backend API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource", "method"}),
	}
	for _, c := range []prometheus.Collector{m.requests, m.latency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *MetricsObserver) OnRequest(event RequestEvent) {
	resource := resourceLabel(event.Endpoint)
	m.requests.WithLabelValues(resource, event.Method, event.Outcome).Inc()
	if event.Latency > 0 {
		m.latency.WithLabelValues(resource, event.Method).Observe(event.Latency.Seconds())
	}
}

// resourceLabel keeps label cardinality bounded: "/projects/12/" and
// "/projects/?x=1" both map to "projects".
func resourceLabel(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "unknown"
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) == 0 || segs[0] == "" {
		return "root"
	}
	if segs[0] == "auth" && len(segs) > 1 {
		return "auth_" + segs[1]
	}
	if _, err := strconv.Atoi(segs[0]); err == nil {
		return "unknown"
	}
	return segs[0]
}
