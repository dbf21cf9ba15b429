package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service collectors. All methods are safe on a nil receiver,
// so callers may pass nil when metrics are disabled.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBQueryErrorsTotal *prometheus.CounterVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec
	DBWaitCount        *prometheus.GaugeVec

	CacheRequestsTotal *prometheus.CounterVec
	CacheInvalidations *prometheus.CounterVec

	BackendRequestsTotal   *prometheus.CounterVec
	BackendRequestDuration *prometheus.HistogramVec

	AppointmentTransitions *prometheus.CounterVec
	ExpressTransitions     *prometheus.CounterVec
	SlotConflictsTotal     *prometheus.CounterVec
}

// New registers all collectors in the default registry.
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry registers all collectors in reg.
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
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
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBQueryErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),

		CacheRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "cache_requests_total",
			Help:        "Cache lookups by key family and result",
			ConstLabels: constLabels,
		}, []string{"family", "result"}),
		CacheInvalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "cache_invalidations_total",
			Help:        "Cache invalidations by key family",
			ConstLabels: constLabels,
		}, []string{"family"}),

		BackendRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "backend_requests_total",
			Help:        "Requests sent to the turnos backend",
			ConstLabels: constLabels,
		}, []string{"operation", "result"}),
		BackendRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "backend_request_duration_seconds",
			Help:        "Turnos backend latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"operation"}),

		AppointmentTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_transitions_total",
			Help:        "Appointment status transitions",
			ConstLabels: constLabels,
		}, []string{"to"}),
		ExpressTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "express_transitions_total",
			Help:        "Express negotiation transitions",
			ConstLabels: constLabels,
		}, []string{"to"}),
		SlotConflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_conflicts_total",
			Help:        "Booking conflicts by detection source",
			ConstLabels: constLabels,
		}, []string{"source"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrorsTotal,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.CacheRequestsTotal,
		m.CacheInvalidations,
		m.BackendRequestsTotal,
		m.BackendRequestDuration,
		m.AppointmentTransitions,
		m.ExpressTransitions,
		m.SlotConflictsTotal,
	)

	return m
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// ObserveDBQuery records a database query.
func (m *Metrics) ObserveDBQuery(operation string, seconds float64, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(seconds)
	if err != nil {
		m.DBQueryErrorsTotal.WithLabelValues(operation).Inc()
	}
}

// ObserveBackend records a call to the turnos backend.
func (m *Metrics) ObserveBackend(operation, result string, seconds float64) {
	if m == nil {
		return
	}
	m.BackendRequestsTotal.WithLabelValues(operation, result).Inc()
	m.BackendRequestDuration.WithLabelValues(operation).Observe(seconds)
}

// CacheHit records a cache hit for a key family.
func (m *Metrics) CacheHit(family string) {
	if m == nil {
		return
	}
	m.CacheRequestsTotal.WithLabelValues(family, "hit").Inc()
}

// CacheMiss records a cache miss for a key family.
func (m *Metrics) CacheMiss(family string) {
	if m == nil {
		return
	}
	m.CacheRequestsTotal.WithLabelValues(family, "miss").Inc()
}

// CacheInvalidated records an invalidation for a key family.
func (m *Metrics) CacheInvalidated(family string) {
	if m == nil {
		return
	}
	m.CacheInvalidations.WithLabelValues(family).Inc()
}

// AppointmentTransition records an appointment entering a status.
func (m *Metrics) AppointmentTransition(to string) {
	if m == nil {
		return
	}
	m.AppointmentTransitions.WithLabelValues(to).Inc()
}

// ExpressTransition records an express request entering a state.
func (m *Metrics) ExpressTransition(to string) {
	if m == nil {
		return
	}
	m.ExpressTransitions.WithLabelValues(to).Inc()
}

// SlotConflict records a booking conflict; source is "local" or "store".
func (m *Metrics) SlotConflict(source string) {
	if m == nil {
		return
	}
	m.SlotConflictsTotal.WithLabelValues(source).Inc()
}
