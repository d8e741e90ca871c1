package services

import (
	"log"
	"sync"
	"time"

	"expirywatch/internal/config"
	"expirywatch/internal/database"
	"expirywatch/internal/models"
)

// DomainChecker produces a registration expiry result for one domain.
// A non-nil error reports an invocation failure, distinct from a check that
// ran and produced an error-status result.
type DomainChecker interface {
	Check(domain string) (*models.CheckResult, error)
}

// CertChecker produces a TLS certificate expiry result for one domain.
type CertChecker interface {
	Check(domain string) (*models.CheckResult, error)
}

// MonitorService runs the expiry checks over the monitored domain set and
// drives alerting, persistence and metrics. Domains are checked one at a
// time; there is no concurrent execution within a batch.
type MonitorService struct {
	cfg           *config.Config
	domainChecker DomainChecker
	certChecker   CertChecker
	notifyService *NotifyService
	metrics       RunObserver

	mu          sync.Mutex
	lastReports []models.DomainReport
	lastAlerts  []models.Alert

	now func() time.Time
}

// RunObserver receives the outcome of each batch run, typically to export
// gauges.
type RunObserver interface {
	ObserveRun(reports []models.DomainReport, alerts []models.Alert)
}

// NewMonitorService creates a new monitoring service
func NewMonitorService(cfg *config.Config, domainChecker DomainChecker, certChecker CertChecker, notifyService *NotifyService, observer RunObserver) *MonitorService {
	return &MonitorService{
		cfg:           cfg,
		domainChecker: domainChecker,
		certChecker:   certChecker,
		notifyService: notifyService,
		metrics:       observer,
		now:           time.Now,
	}
}

// CheckDomain runs both expiry checks for a single domain name. An
// invocation failure on either check is recorded in the report's Error
// field; the WHOIS check runs first and a failure there skips the TLS check.
func (s *MonitorService) CheckDomain(name string) models.DomainReport {
	report := models.DomainReport{
		Domain:    name,
		CheckedAt: s.now(),
	}

	domainResult, err := s.domainChecker.Check(name)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	sslResult, err := s.certChecker.Check(name)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	report.DomainCheck = domainResult
	report.SSLCheck = sslResult
	return report
}

// CheckAndStore checks a single domain and mirrors the outcome onto its
// stored row. Used by the API for on-demand refreshes.
func (s *MonitorService) CheckAndStore(name string) models.DomainReport {
	report := s.CheckDomain(name)
	s.updateDomainRecord(config.DomainConfig{Name: name}, report)
	return report
}

// RunOnce checks every monitored domain sequentially, evaluates alerts and
// sends notifications. A single domain's failure is recorded as an error
// report and never aborts the batch.
func (s *MonitorService) RunOnce() ([]models.DomainReport, []models.Alert) {
	domains := s.monitoredDomains()
	log.Printf("Checking %d domains...", len(domains))

	reports := make([]models.DomainReport, 0, len(domains))
	for _, d := range domains {
		report := s.CheckDomain(d.Name)
		reports = append(reports, report)
		s.updateDomainRecord(d, report)
	}

	alerts := EvaluateAlerts(reports, domains, s.cfg.Monitoring.AlertThresholdDays)

	s.mu.Lock()
	s.lastReports = reports
	s.lastAlerts = alerts
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.ObserveRun(reports, alerts)
	}

	if s.cfg.Monitoring.SaveResults {
		if err := SaveResults(s.cfg, reports); err != nil {
			log.Printf("Failed to save results: %v", err)
		}
	}

	if len(alerts) > 0 && s.notifyService != nil {
		if err := s.notifyService.SendAlerts(alerts); err != nil {
			log.Printf("Failed to send notifications: %v", err)
		}
	}

	log.Printf("Domain check completed: %d domains checked, %d alerts", len(reports), len(alerts))
	return reports, alerts
}

// LastRun returns the reports and alerts from the most recent batch.
func (s *MonitorService) LastRun() ([]models.DomainReport, []models.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReports, s.lastAlerts
}

// monitoredDomains returns the active domain set from the database, falling
// back to the static configuration when no database is attached (one-shot
// runs and tests).
func (s *MonitorService) monitoredDomains() []config.DomainConfig {
	db := database.GetDB()
	if db == nil {
		return s.cfg.Domains
	}

	var rows []models.Domain
	if err := db.Where("is_active = ?", true).Order("name asc").Find(&rows).Error; err != nil {
		log.Printf("Failed to fetch domains from database: %v", err)
		return s.cfg.Domains
	}
	if len(rows) == 0 {
		return s.cfg.Domains
	}

	domains := make([]config.DomainConfig, 0, len(rows))
	for _, row := range rows {
		domains = append(domains, config.DomainConfig{
			Name:               row.Name,
			Description:        row.Description,
			AlertThresholdDays: row.AlertThresholdDays,
		})
	}
	return domains
}

// updateDomainRecord mirrors the latest check outcome onto the stored
// domain row for the dashboard and API.
func (s *MonitorService) updateDomainRecord(d config.DomainConfig, report models.DomainReport) {
	db := database.GetDB()
	if db == nil {
		return
	}

	var row models.Domain
	if err := db.Where("name = ?", d.Name).First(&row).Error; err != nil {
		row = models.Domain{
			Name:               d.Name,
			Description:        d.Description,
			AlertThresholdDays: d.AlertThresholdDays,
			IsActive:           true,
		}
	}

	row.LastChecked = report.CheckedAt
	row.LastError = report.Error

	if report.DomainCheck.Succeeded() {
		row.Registrar = report.DomainCheck.Registrar
		if report.DomainCheck.ExpirationDate != nil {
			row.ExpiryDate = *report.DomainCheck.ExpirationDate
		}
		if report.DomainCheck.DaysUntilExpiry != nil {
			row.DaysRemaining = *report.DomainCheck.DaysUntilExpiry
		}
	}
	if report.SSLCheck.Succeeded() {
		if report.SSLCheck.ExpirationDate != nil {
			row.CertExpiryDate = *report.SSLCheck.ExpirationDate
		}
		if report.SSLCheck.DaysUntilExpiry != nil {
			row.CertDaysRemaining = *report.SSLCheck.DaysUntilExpiry
		}
	}

	if err := db.Save(&row).Error; err != nil {
		log.Printf("Failed to save domain %s: %v", d.Name, err)
	}
}
