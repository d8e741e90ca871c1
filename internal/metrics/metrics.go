package metrics

import (
	"math"

	"expirywatch/internal/models"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registrationDaysLeft = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "domain_registration_days_left",
			Help: "Days until the domain registration expires",
		},
		[]string{"domain"},
	)

	certificateDaysLeft = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "domain_tls_cert_days_left",
			Help: "Days until the TLS certificate expires",
		},
		[]string{"domain"},
	)

	checkErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domain_check_errors_total",
			Help: "Total number of failed expiry checks",
		},
		[]string{"domain", "check"},
	)

	lastRunTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "domain_monitor_last_run_timestamp_seconds",
			Help: "Unix time of the most recent completed batch run",
		},
	)

	alertsGenerated = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "domain_monitor_alerts",
			Help: "Alerts generated by the most recent batch run",
		},
	)
)

func init() {
	prometheus.MustRegister(registrationDaysLeft, certificateDaysLeft, checkErrors, lastRunTimestamp, alertsGenerated)
}

// Collector exports per-run monitoring gauges.
type Collector struct{}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{}
}

// ObserveRun records the outcome of one batch run. Failed checks export NaN
// so stale day counts never linger on the gauge.
func (c *Collector) ObserveRun(reports []models.DomainReport, alerts []models.Alert) {
	for _, report := range reports {
		if report.Error != "" {
			checkErrors.WithLabelValues(report.Domain, "run").Inc()
			registrationDaysLeft.WithLabelValues(report.Domain).Set(math.NaN())
			certificateDaysLeft.WithLabelValues(report.Domain).Set(math.NaN())
			continue
		}
		observeCheck(registrationDaysLeft, report.Domain, "whois", report.DomainCheck)
		observeCheck(certificateDaysLeft, report.Domain, "ssl", report.SSLCheck)
	}

	lastRunTimestamp.SetToCurrentTime()
	alertsGenerated.Set(float64(len(alerts)))
}

func observeCheck(gauge *prometheus.GaugeVec, domain, check string, result *models.CheckResult) {
	if result.Succeeded() && result.DaysUntilExpiry != nil {
		gauge.WithLabelValues(domain).Set(float64(*result.DaysUntilExpiry))
		return
	}
	checkErrors.WithLabelValues(domain, check).Inc()
	gauge.WithLabelValues(domain).Set(math.NaN())
}
