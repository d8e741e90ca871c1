package services

import (
	"expirywatch/internal/config"
	"expirywatch/internal/models"
)

// EvaluateAlerts scans a batch of per-domain reports and emits an alert for
// every successful sub-check whose days-until-expiry falls within the
// effective threshold. A per-domain threshold override wins over the global
// one. Reports carrying a run-level error are skipped entirely. Output
// order follows input order, with the registration alert before the
// certificate alert within a domain.
func EvaluateAlerts(reports []models.DomainReport, domains []config.DomainConfig, globalThreshold int) []models.Alert {
	var alerts []models.Alert

	for _, report := range reports {
		if report.Error != "" {
			continue
		}

		threshold := globalThreshold
		for _, d := range domains {
			if d.Name == report.Domain && d.AlertThresholdDays != nil {
				threshold = *d.AlertThresholdDays
				break
			}
		}

		if alert, ok := subAlert(report.Domain, report.DomainCheck, models.AlertDomainRegistration, threshold); ok {
			alert.Registrar = report.DomainCheck.Registrar
			alerts = append(alerts, alert)
		}
		if alert, ok := subAlert(report.Domain, report.SSLCheck, models.AlertSSLCertificate, threshold); ok {
			alerts = append(alerts, alert)
		}
	}

	return alerts
}

func subAlert(domain string, result *models.CheckResult, alertType models.AlertType, threshold int) (models.Alert, bool) {
	if !result.Succeeded() || result.DaysUntilExpiry == nil {
		return models.Alert{}, false
	}
	if *result.DaysUntilExpiry > threshold {
		return models.Alert{}, false
	}
	return models.Alert{
		Domain:          domain,
		Type:            alertType,
		DaysUntilExpiry: *result.DaysUntilExpiry,
		ExpirationDate:  result.ExpirationDate,
		Threshold:       threshold,
	}, true
}
