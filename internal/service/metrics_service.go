package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registration outcomes recorded by RecordRegistration.
const (
	RegistrationOutcomeRegistered = "registered"
	RegistrationOutcomeFull       = "full"
	RegistrationOutcomeDuplicate  = "duplicate"
	RegistrationOutcomeNotFound   = "not_found"
	RegistrationOutcomeError      = "error"
)

// MetricsService encapsulates Prometheus instrumentation. A nil receiver is a
// valid no-op so services can be built without metrics.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	registrations     *prometheus.CounterVec
	requestResponses  *prometheus.CounterVec
	applicationReview *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	registrations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "activity_registrations_total",
		Help: "Activity registration attempts by outcome",
	}, []string{"outcome"})

	requestResponses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "employee_request_responses_total",
		Help: "Student responses to employee requests by status",
	}, []string{"status"})

	applicationReview := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "application_status_updates_total",
		Help: "Staff status updates on applications by new status",
	}, []string{"status"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, registrations, requestResponses, applicationReview, goroutines)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		registrations:     registrations,
		requestResponses:  requestResponses,
		applicationReview: applicationReview,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordRegistration counts a registration attempt.
func (m *MetricsService) RecordRegistration(outcome string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(outcome).Inc()
}

// RecordRequestResponse counts a student response.
func (m *MetricsService) RecordRequestResponse(status string) {
	if m == nil {
		return
	}
	m.requestResponses.WithLabelValues(status).Inc()
}

// RecordApplicationReview counts a staff status update.
func (m *MetricsService) RecordApplicationReview(status string) {
	if m == nil {
		return
	}
	m.applicationReview.WithLabelValues(status).Inc()
}
