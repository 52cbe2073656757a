package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nao1215/webinfo/internal/ipinfo"
	"github.com/nao1215/webinfo/internal/model"
)

// Outcome label values of the tool counter.
const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

// metrics holds the collectors of one Server. Each Server owns its registry
// so tests can run servers side by side.
type metrics struct {
	registry *prometheus.Registry
	tools    *prometheus.CounterVec
	lookups  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		tools: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "webinfo",
			Name:      "tool_requests_total",
			Help:      "Tool invocations by tool and outcome.",
		}, []string{"tool", "outcome"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "webinfo",
			Name:      "ip_lookups_total",
			Help:      "IP resolutions by source (lookup or fallback).",
		}, []string{"source"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "webinfo",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}
	m.registry.MustRegister(
		m.tools,
		m.lookups,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Pre-create the series so they read 0 instead of being absent.
	for _, tool := range model.AllTools() {
		if tool == model.ToolIP {
			continue
		}
		m.tools.WithLabelValues(string(tool), outcomeOK)
		m.tools.WithLabelValues(string(tool), outcomeError)
	}
	m.lookups.WithLabelValues(string(ipinfo.SourceLookup))
	m.lookups.WithLabelValues(string(ipinfo.SourceFallback))
	return m
}

func (m *metrics) observeTool(tool model.Tool, err error) {
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeError
	}
	m.tools.WithLabelValues(string(tool), outcome).Inc()
}

func (m *metrics) observeLookup(source ipinfo.Source) {
	m.lookups.WithLabelValues(string(source)).Inc()
}

func (m *metrics) observeRequest(route string, code int, elapsed time.Duration) {
	m.duration.WithLabelValues(route, strconv.Itoa(code)).Observe(elapsed.Seconds())
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
