package services

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"expirywatch/internal/config"
	"expirywatch/internal/models"
)

// flakyChecker fails the first invocation and succeeds afterwards.
type flakyChecker struct {
	calls int
	days  int
}

func (f *flakyChecker) Check(domain string) (*models.CheckResult, error) {
	f.calls++
	if f.calls == 1 {
		return nil, errors.New("tool execution failed")
	}
	return successResult(CleanDomain(domain), f.days), nil
}

type staticChecker struct {
	days int
}

func (s staticChecker) Check(domain string) (*models.CheckResult, error) {
	return successResult(CleanDomain(domain), s.days), nil
}

func testConfig(domains ...string) *config.Config {
	cfg := config.Default()
	cfg.Monitoring.SaveResults = false
	for _, d := range domains {
		cfg.Domains = append(cfg.Domains, config.DomainConfig{Name: d})
	}
	return cfg
}

func TestRunOncePartialFailureIsolation(t *testing.T) {
	cfg := testConfig("first.example", "second.example")
	monitor := NewMonitorService(cfg, &flakyChecker{days: 100}, staticChecker{days: 100}, nil, nil)
	monitor.now = func() time.Time { return testNow }

	reports, _ := monitor.RunOnce()

	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	if reports[0].Error == "" {
		t.Error("first report should carry the invocation error")
	}
	if reports[0].DomainCheck != nil || reports[0].SSLCheck != nil {
		t.Error("an errored report carries no sub-results")
	}
	if reports[1].Error != "" {
		t.Errorf("second report unexpectedly errored: %s", reports[1].Error)
	}
	if !reports[1].DomainCheck.Succeeded() || !reports[1].SSLCheck.Succeeded() {
		t.Error("second report should be fully populated")
	}
}

func TestRunOnceGeneratesAlerts(t *testing.T) {
	cfg := testConfig("soon.example")
	monitor := NewMonitorService(cfg, staticChecker{days: 10}, staticChecker{days: 5}, nil, nil)
	monitor.now = func() time.Time { return testNow }

	reports, alerts := monitor.RunOnce()
	if len(reports) != 1 {
		t.Fatalf("got %d reports, want 1", len(reports))
	}
	if len(alerts) != 2 {
		t.Fatalf("got %d alerts, want registration and certificate", len(alerts))
	}

	gotReports, gotAlerts := monitor.LastRun()
	if len(gotReports) != 1 || len(gotAlerts) != 2 {
		t.Error("LastRun should return the most recent batch")
	}
}

func TestRunOnceSavesResultsFile(t *testing.T) {
	cfg := testConfig("saved.example")
	cfg.Monitoring.SaveResults = true
	cfg.Monitoring.ResultsFilename = filepath.Join(t.TempDir(), "results.json")

	monitor := NewMonitorService(cfg, staticChecker{days: 100}, staticChecker{days: 100}, nil, nil)
	monitor.now = func() time.Time { return testNow }
	monitor.RunOnce()

	data, err := os.ReadFile(cfg.Monitoring.ResultsFilename)
	if err != nil {
		t.Fatalf("results file not written: %v", err)
	}

	var out struct {
		CheckedAt     string `json:"checked_at"`
		ConfigSummary struct {
			DomainsMonitored   int  `json:"domains_monitored"`
			AlertThresholdDays int  `json:"alert_threshold_days"`
			EmailEnabled       bool `json:"email_enabled"`
		} `json:"config_summary"`
		Results []models.DomainReport `json:"results"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("results file is not valid JSON: %v", err)
	}
	if out.CheckedAt == "" {
		t.Error("checked_at missing")
	}
	if out.ConfigSummary.DomainsMonitored != 1 {
		t.Errorf("domains_monitored = %d, want 1", out.ConfigSummary.DomainsMonitored)
	}
	if out.ConfigSummary.AlertThresholdDays != 30 {
		t.Errorf("alert_threshold_days = %d, want 30", out.ConfigSummary.AlertThresholdDays)
	}
	if len(out.Results) != 1 || out.Results[0].Domain != "saved.example" {
		t.Errorf("results = %+v", out.Results)
	}
}

func TestCheckDomainStopsAfterFirstFailure(t *testing.T) {
	cfg := testConfig("one.example")
	cert := &staticChecker{days: 100}
	monitor := NewMonitorService(cfg, &flakyChecker{days: 100}, cert, nil, nil)
	monitor.now = func() time.Time { return testNow }

	report := monitor.CheckDomain("one.example")
	if report.Error == "" {
		t.Fatal("expected an invocation error")
	}
	if report.SSLCheck != nil {
		t.Error("the TLS check must not run after the WHOIS invocation failed")
	}
}
