package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec
	UpstreamRetriesTotal    *prometheus.CounterVec

	RateLimitRejectionsTotal *prometheus.CounterVec
	GateRejectionsTotal      *prometheus.CounterVec
}

// New создаёт и регистрирует метрики в DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry создаёт метрики и регистрирует их в reg
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route"}),

		UpstreamRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "telegram_api_requests_total",
			Help:        "Total number of Telegram Bot API calls",
			ConstLabels: constLabels,
		}, []string{"method", "outcome"}),

		UpstreamRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "telegram_api_request_duration_seconds",
			Help:        "Telegram Bot API call latency",
			Buckets:     []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			ConstLabels: constLabels,
		}, []string{"method"}),

		UpstreamRetriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "telegram_api_retries_total",
			Help:        "Retries scheduled after Telegram rate limiting",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		RateLimitRejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "rate_limit_rejections_total",
			Help:        "Requests rejected by the local rate limiter",
			ConstLabels: constLabels,
		}, []string{"limiter"}),

		GateRejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "rapidapi_gate_rejections_total",
			Help:        "Requests rejected by the RapidAPI gate",
			ConstLabels: constLabels,
		}, []string{"reason"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.UpstreamRequestsTotal,
		m.UpstreamRequestDuration,
		m.UpstreamRetriesTotal,
		m.RateLimitRejectionsTotal,
		m.GateRejectionsTotal,
	)

	return m
}

// ObserveHTTPRequest записывает завершённый HTTP запрос
// Все методы допускают nil получатель: так выключаются метрики
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveUpstreamCall записывает вызов Telegram Bot API
func (m *Metrics) ObserveUpstreamCall(method, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequestsTotal.WithLabelValues(method, outcome).Inc()
	m.UpstreamRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// IncUpstreamRetry отмечает запланированный повтор
func (m *Metrics) IncUpstreamRetry(operation string) {
	if m == nil {
		return
	}
	m.UpstreamRetriesTotal.WithLabelValues(operation).Inc()
}

// IncRateLimitRejection отмечает отказ локального лимитера
func (m *Metrics) IncRateLimitRejection(limiter string) {
	if m == nil {
		return
	}
	m.RateLimitRejectionsTotal.WithLabelValues(limiter).Inc()
}

// IncGateRejection отмечает отказ шлюза RapidAPI
func (m *Metrics) IncGateRejection(reason string) {
	if m == nil {
		return
	}
	m.GateRejectionsTotal.WithLabelValues(reason).Inc()
}
