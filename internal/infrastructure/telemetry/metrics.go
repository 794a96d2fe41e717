package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "condominio_"

	ResultSuccess = "success"
	ResultError   = "error"
)

// Metrics holds the Prometheus collectors for the ledger and the HTTP
// boundary. All methods are safe on a nil receiver so callers that run
// without metrics need no guards.
type Metrics struct {
	feesIssued        prometheus.Counter
	feesCorrected     prometheus.Counter
	feesPaid          prometheus.Counter
	feesMarkedOverdue prometheus.Counter
	payments          *prometheus.CounterVec
	paymentAmount     prometheus.Counter
	operationLatency  *prometheus.HistogramVec
	reportExports     *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpLatency       *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		feesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "fees_issued_total",
			Help: "Total fees created by issuance runs",
		}),
		feesCorrected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "fees_corrected_total",
			Help: "Total fee amounts corrected by re-issuance",
		}),
		feesPaid: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "fees_paid_total",
			Help: "Total fees that reached PAID",
		}),
		feesMarkedOverdue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "fees_marked_overdue_total",
			Help: "Total fees moved to OVERDUE by the sweep",
		}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "payments_registered_total",
			Help: "Total payments journaled by method",
		}, []string{"method"}),
		paymentAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "payments_amount_total",
			Help: "Sum of journaled payment amounts",
		}),
		operationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metricPrefix + "ledger_operation_latency_seconds",
			Help:    "Ledger operation latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "result"}),
		reportExports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "report_exports_total",
			Help: "Total finance report exports by format and result",
		}, []string{"format", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "http_requests_total",
			Help: "Total HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metricPrefix + "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.feesIssued, m.feesCorrected, m.feesPaid, m.feesMarkedOverdue,
		m.payments, m.paymentAmount, m.operationLatency, m.reportExports,
		m.httpRequests, m.httpLatency,
	)
	return m
}

// ObserveOperation records latency and result of a ledger operation
func (m *Metrics) ObserveOperation(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	m.operationLatency.WithLabelValues(operation, result).Observe(duration.Seconds())
}

// AddFeesIssued counts newly created fees
func (m *Metrics) AddFeesIssued(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.feesIssued.Add(float64(n))
}

// IncFeeCorrected counts one amount correction
func (m *Metrics) IncFeeCorrected() {
	if m == nil {
		return
	}
	m.feesCorrected.Inc()
}

// IncFeePaid counts a fee reaching PAID
func (m *Metrics) IncFeePaid() {
	if m == nil {
		return
	}
	m.feesPaid.Inc()
}

// AddFeesMarkedOverdue counts fees flipped by the sweep
func (m *Metrics) AddFeesMarkedOverdue(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.feesMarkedOverdue.Add(float64(n))
}

// ObservePayment counts a journaled payment and its amount
func (m *Metrics) ObservePayment(method string, amount float64) {
	if m == nil {
		return
	}
	if method == "" {
		method = "unknown"
	}
	m.payments.WithLabelValues(method).Inc()
	if amount > 0 {
		m.paymentAmount.Add(amount)
	}
}

// ObserveExport counts a report export
func (m *Metrics) ObserveExport(format string, err error) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	m.reportExports.WithLabelValues(format, result).Inc()
}

// ObserveHTTPRequest records one served request
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}
