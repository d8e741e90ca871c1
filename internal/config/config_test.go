package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
monitoring:
  alert_threshold_days: 45
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Monitoring.AlertThresholdDays != 45 {
		t.Errorf("AlertThresholdDays = %d, want 45", cfg.Monitoring.AlertThresholdDays)
	}

	// Keys absent from the file keep their defaults.
	if cfg.Monitoring.CheckInterval != "@daily" {
		t.Errorf("CheckInterval = %q, want @daily", cfg.Monitoring.CheckInterval)
	}
	if !cfg.Monitoring.SaveResults {
		t.Error("SaveResults should default to true")
	}
	if cfg.Monitoring.ResultsFilename != "domain_check_results.json" {
		t.Errorf("ResultsFilename = %q", cfg.Monitoring.ResultsFilename)
	}
	if cfg.Advanced.Timeouts.WhoisTimeout() != 30*time.Second {
		t.Errorf("WhoisTimeout = %v, want 30s", cfg.Advanced.Timeouts.WhoisTimeout())
	}
	if cfg.Advanced.Timeouts.SSLTimeout() != 10*time.Second {
		t.Errorf("SSLTimeout = %v, want 10s", cfg.Advanced.Timeouts.SSLTimeout())
	}
	if cfg.Notifications.Email.SMTPPort != 587 {
		t.Errorf("SMTPPort = %d, want 587", cfg.Notifications.Email.SMTPPort)
	}
	if cfg.Notifications.Slack.Channel != "#alerts" {
		t.Errorf("Slack channel = %q, want #alerts", cfg.Notifications.Slack.Channel)
	}
}

func TestLoadConfigDomains(t *testing.T) {
	path := writeConfigFile(t, `
domains:
  - name: example.com
    description: primary site
  - name: critical.example
    alert_threshold_days: 60
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(cfg.Domains) != 2 {
		t.Fatalf("got %d domains, want 2", len(cfg.Domains))
	}
	if cfg.Domains[0].AlertThresholdDays != nil {
		t.Error("domain without override should have nil threshold")
	}
	if cfg.Domains[1].AlertThresholdDays == nil || *cfg.Domains[1].AlertThresholdDays != 60 {
		t.Errorf("override = %v, want 60", cfg.Domains[1].AlertThresholdDays)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "monitoring: [unclosed")
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

func TestThresholdFor(t *testing.T) {
	override := 14
	cfg := Default()
	cfg.Monitoring.AlertThresholdDays = 30
	cfg.Domains = []DomainConfig{
		{Name: "plain.example"},
		{Name: "tight.example", AlertThresholdDays: &override},
	}

	if got := cfg.ThresholdFor("plain.example"); got != 30 {
		t.Errorf("plain.example threshold = %d, want 30", got)
	}
	if got := cfg.ThresholdFor("tight.example"); got != 14 {
		t.Errorf("tight.example threshold = %d, want 14", got)
	}
	if got := cfg.ThresholdFor("unknown.example"); got != 30 {
		t.Errorf("unknown domain threshold = %d, want 30", got)
	}
}
