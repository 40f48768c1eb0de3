package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus метрик сервиса.
// Все методы безопасны для nil-получателя (метрики выключены).
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	functionCallsTotal  *prometheus.CounterVec
	functionCallLatency *prometheus.HistogramVec
	slotConflictsTotal  *prometheus.CounterVec
	dbQueryDuration     *prometheus.HistogramVec
	dbQueryErrorsTotal  *prometheus.CounterVec
	dbConnections       *prometheus.GaugeVec
}

// New регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegisterer регистрирует метрики в указанном реестре
func NewWithRegisterer(reg prometheus.Registerer, serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "receptionist",
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Total HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "receptionist",
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "HTTP request latency",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route"}),
		functionCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "receptionist",
			Subsystem:   "assistant",
			Name:        "function_calls_total",
			Help:        "Voice assistant function calls by outcome",
			ConstLabels: constLabels,
		}, []string{"function", "outcome"}),
		functionCallLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "receptionist",
			Subsystem:   "assistant",
			Name:        "function_call_duration_seconds",
			Help:        "Voice assistant function call latency",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"function"}),
		slotConflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "receptionist",
			Subsystem:   "scheduling",
			Name:        "slot_conflicts_total",
			Help:        "Slot reservations rejected because the slot was taken",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "receptionist",
			Subsystem:   "db",
			Name:        "query_duration_seconds",
			Help:        "Database query latency",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"operation"}),
		dbQueryErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "receptionist",
			Subsystem:   "db",
			Name:        "query_errors_total",
			Help:        "Database query errors",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		dbConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   "receptionist",
			Subsystem:   "db",
			Name:        "connections",
			Help:        "Database connection pool state",
			ConstLabels: constLabels,
		}, []string{"state"}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.functionCallsTotal,
		m.functionCallLatency,
		m.slotConflictsTotal,
		m.dbQueryDuration,
		m.dbQueryErrorsTotal,
		m.dbConnections,
	)
	return m
}

// ObserveHTTPRequest учитывает HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveFunctionCall учитывает вызов функции ассистента.
// outcome: success, failure (ожидаемый отказ) или error (системная ошибка)
func (m *Metrics) ObserveFunctionCall(function, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.functionCallsTotal.WithLabelValues(function, outcome).Inc()
	m.functionCallLatency.WithLabelValues(function).Observe(duration.Seconds())
}

// IncSlotConflict учитывает конфликт при резервировании слота
func (m *Metrics) IncSlotConflict(operation string) {
	if m == nil {
		return
	}
	m.slotConflictsTotal.WithLabelValues(operation).Inc()
}

// ObserveDBQuery учитывает SQL запрос
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrorsTotal.WithLabelValues(operation).Inc()
	}
}

// SetDBConnections обновляет состояние пула соединений
func (m *Metrics) SetDBConnections(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.dbConnections.WithLabelValues("open").Set(float64(open))
	m.dbConnections.WithLabelValues("in_use").Set(float64(inUse))
	m.dbConnections.WithLabelValues("idle").Set(float64(idle))
}
