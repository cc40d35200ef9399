package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for the upload and submission counters.
const (
	resultOK       = "ok"
	resultRejected = "rejected"
	resultFailed   = "failed"
)

// metrics lives on its own registry so each Service can be built
// independently.
type metrics struct {
	registry    *prometheus.Registry
	duration    *prometheus.SummaryVec
	requests    *prometheus.CounterVec
	uploads     *prometheus.CounterVec
	uploadBytes prometheus.Counter
	submissions *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request duration in seconds",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.99: 0.001,
				},
			},
			[]string{"method", "path", "status_code"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aimploy_uploads_total",
				Help: "Files received by the upload endpoint and the wizard, by result",
			},
			[]string{"result"},
		),
		uploadBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "aimploy_upload_bytes_total",
				Help: "Bytes written to file storage",
			},
		),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aimploy_submissions_total",
				Help: "Application submissions, by result",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.duration,
		m.requests,
		m.uploads,
		m.uploadBytes,
		m.submissions,
	)

	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) upload(result string, size int) {
	m.uploads.WithLabelValues(result).Inc()
	if result == resultOK {
		m.uploadBytes.Add(float64(size))
	}
}

func (m *metrics) submission(result string) {
	m.submissions.WithLabelValues(result).Inc()
}

func (s *Service) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		path := metricPath(r.URL.Path)
		status := strconv.Itoa(rw.statusCode)

		s.metrics.duration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		s.metrics.requests.WithLabelValues(r.Method, path, status).Inc()
	})
}

// metricPath collapses paths carrying file names so label cardinality
// stays bounded.
func metricPath(path string) string {
	switch {
	case strings.HasPrefix(path, "/uploads/"):
		return "/uploads/:name"
	case strings.HasPrefix(path, "/static/"):
		return "/static"
	default:
		return path
	}
}
