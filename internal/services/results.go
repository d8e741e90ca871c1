package services

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"expirywatch/internal/config"
	"expirywatch/internal/models"
)

type resultsFile struct {
	CheckedAt     string               `json:"checked_at"`
	ConfigSummary resultsConfigSummary `json:"config_summary"`
	Results       []models.DomainReport `json:"results"`
}

type resultsConfigSummary struct {
	DomainsMonitored   int  `json:"domains_monitored"`
	AlertThresholdDays int  `json:"alert_threshold_days"`
	EmailEnabled       bool `json:"email_enabled"`
	SlackEnabled       bool `json:"slack_enabled"`
}

// SaveResults writes the batch reports to the configured JSON results file,
// pretty-printed when the output config asks for it.
func SaveResults(cfg *config.Config, reports []models.DomainReport) error {
	out := resultsFile{
		CheckedAt: time.Now().Format(time.RFC3339),
		ConfigSummary: resultsConfigSummary{
			DomainsMonitored:   len(reports),
			AlertThresholdDays: cfg.Monitoring.AlertThresholdDays,
			EmailEnabled:       cfg.Notifications.Email.Enabled,
			SlackEnabled:       cfg.Notifications.Slack.Enabled,
		},
		Results: reports,
	}

	var data []byte
	var err error
	if cfg.Advanced.Output.JSONPrettyPrint {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	if err := os.WriteFile(cfg.Monitoring.ResultsFilename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}

	return nil
}
