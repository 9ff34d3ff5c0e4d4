package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

const namespace = "civic"

// Prometheus owns a private registry so that several instances can coexist in tests.
type Prometheus struct {
	registry *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	otpIssued         *prometheus.CounterVec
	otpVerifications  *prometheus.CounterVec
	complaintsCreated prometheus.Counter
	statusUpdates     *prometheus.CounterVec
}

var _ ports.Metrics = (*Prometheus)(nil)

func New() *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		otpIssued: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "otp_issued_total",
			Help:      "OTP codes issued and delivered, by channel.",
		}, []string{"channel"}),
		otpVerifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "otp_verifications_total",
			Help:      "OTP verification attempts by channel and result.",
		}, []string{"channel", "result"}),
		complaintsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "complaints_created_total",
			Help:      "Complaints filed.",
		}),
		statusUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "complaint_status_updates_total",
			Help:      "Complaint status changes by new status.",
		}, []string{"status"}),
	}
}

func (p *Prometheus) OtpIssued(channel domain.Channel) {
	p.otpIssued.WithLabelValues(string(channel)).Inc()
}

func (p *Prometheus) OtpVerified(channel domain.Channel, result string) {
	p.otpVerifications.WithLabelValues(string(channel), result).Inc()
}

func (p *Prometheus) ComplaintCreated() {
	p.complaintsCreated.Inc()
}

func (p *Prometheus) ComplaintStatusUpdated(status domain.ComplaintStatus) {
	p.statusUpdates.WithLabelValues(string(status)).Inc()
}

// ObserveRequest records one served HTTP request. route is the router
// pattern, never the raw path, to keep label cardinality bounded.
func (p *Prometheus) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}
