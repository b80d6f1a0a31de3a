package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	InterviewsCompleted *prometheus.CounterVec
	InterviewScore      prometheus.Histogram
	LLMRequestsTotal    *prometheus.CounterVec
	FallbacksTotal      *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"route", "method"},
		),
		InterviewsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interviews_completed_total",
				Help: "Interviews scored and persisted, by topic and scoring mode",
			},
			[]string{"topic", "mode"},
		),
		InterviewScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "interview_score",
				Help:    "Distribution of overall interview scores",
				Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
			},
		),
		LLMRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_requests_total",
				Help: "Generative model calls by provider, operation and outcome",
			},
			[]string{"provider", "operation", "outcome"},
		),
		FallbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_fallbacks_total",
				Help: "Times a built-in fallback replaced the generative model",
			},
			[]string{"operation"},
		),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.InterviewsCompleted,
		m.InterviewScore,
		m.LLMRequestsTotal,
		m.FallbacksTotal,
	)
	return m
}

// ObserveInterview records a completed interview.
func (m *Metrics) ObserveInterview(topic, mode string, score int) {
	if m == nil {
		return
	}
	m.InterviewsCompleted.WithLabelValues(topic, mode).Inc()
	m.InterviewScore.Observe(float64(score))
}

// ObserveLLM records one generative model call.
func (m *Metrics) ObserveLLM(provider, operation string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.LLMRequestsTotal.WithLabelValues(provider, operation, outcome).Inc()
}

// ObserveFallback records that a fallback path was taken for operation.
func (m *Metrics) ObserveFallback(operation string) {
	if m == nil {
		return
	}
	m.FallbacksTotal.WithLabelValues(operation).Inc()
}

// Middleware counts requests per matched route.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		m.HTTPRequestsTotal.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(route, c.Method()).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}
