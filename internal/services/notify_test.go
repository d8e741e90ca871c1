package services

import (
	"strings"
	"testing"
	"time"

	"expirywatch/internal/config"
	"expirywatch/internal/models"
)

func sampleAlerts() []models.Alert {
	regExpiry := testNow.Add(5 * 24 * time.Hour)
	certExpiry := testNow.Add(20 * 24 * time.Hour)
	return []models.Alert{
		{
			Domain:          "example.com",
			Type:            models.AlertDomainRegistration,
			DaysUntilExpiry: 5,
			ExpirationDate:  &regExpiry,
			Registrar:       "Example Registrar, Inc.",
			Threshold:       30,
		},
		{
			Domain:          "example.org",
			Type:            models.AlertSSLCertificate,
			DaysUntilExpiry: 20,
			ExpirationDate:  &certExpiry,
			Threshold:       30,
		},
	}
}

func TestRenderCountTemplate(t *testing.T) {
	got := RenderCountTemplate("Alert - {count} domain(s) expiring soon", 3)
	if got != "Alert - 3 domain(s) expiring soon" {
		t.Errorf("got %q", got)
	}

	// Templates without the placeholder pass through untouched.
	if got := RenderCountTemplate("no placeholder", 3); got != "no placeholder" {
		t.Errorf("got %q", got)
	}
}

func TestFormatEmailBody(t *testing.T) {
	body := FormatEmailBody(sampleAlerts())

	for _, want := range []string{
		"Domain Expiration Alert",
		"🔴 example.com",
		"Type: Domain Registration",
		"Days until expiry: 5",
		"Registrar: Example Registrar, Inc.",
		"🔴 example.org",
		"Type: Ssl Certificate",
		"Days until expiry: 20",
		"This is an automated alert from Domain Monitor.",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q\n%s", want, body)
		}
	}

	// Registrar lines belong to registration alerts only.
	if strings.Count(body, "Registrar:") != 1 {
		t.Errorf("expected exactly one registrar line\n%s", body)
	}
}

func TestFormatSlackMessageUrgency(t *testing.T) {
	cfg := &config.SlackConfig{
		MessageTemplate: "Alert - {count} expiring",
		UrgencyEmojis: map[string]string{
			"critical": "[CRIT]",
			"warning":  "[WARN]",
			"info":     "[INFO]",
		},
	}
	alerts := []models.Alert{
		{Domain: "crit.example", Type: models.AlertSSLCertificate, DaysUntilExpiry: 5},
		{Domain: "warn.example", Type: models.AlertSSLCertificate, DaysUntilExpiry: 20},
		{Domain: "info.example", Type: models.AlertDomainRegistration, DaysUntilExpiry: 45},
	}

	msg := FormatSlackMessage(cfg, alerts)
	lines := strings.Split(msg, "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4\n%s", len(lines), msg)
	}
	if lines[0] != "Alert - 3 expiring:" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "[CRIT] *crit.example*") {
		t.Errorf("critical line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "[WARN] *warn.example*") {
		t.Errorf("warning line = %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "[INFO] *info.example*") {
		t.Errorf("info line = %q", lines[3])
	}
	if !strings.Contains(lines[3], "(Domain Registration) - 45 days left") {
		t.Errorf("info line = %q", lines[3])
	}
}

func TestFormatSlackMessageDefaultEmojis(t *testing.T) {
	cfg := &config.SlackConfig{MessageTemplate: "{count} alerts"}
	alerts := []models.Alert{
		{Domain: "x.example", Type: models.AlertSSLCertificate, DaysUntilExpiry: 3},
	}

	msg := FormatSlackMessage(cfg, alerts)
	if !strings.Contains(msg, "🔴") {
		t.Errorf("expected the default critical emoji\n%s", msg)
	}
}

func TestUrgencyEmojiBoundaries(t *testing.T) {
	emojis := map[string]string{"critical": "C", "warning": "W", "info": "I"}

	tests := []struct {
		days int
		want string
	}{
		{0, "C"},
		{7, "C"},
		{8, "W"},
		{30, "W"},
		{31, "I"},
	}
	for _, tt := range tests {
		if got := urgencyEmoji(emojis, tt.days); got != tt.want {
			t.Errorf("urgencyEmoji(%d) = %q, want %q", tt.days, got, tt.want)
		}
	}
}

func TestNotifyServiceChannelSelection(t *testing.T) {
	cfg := &config.NotificationsConfig{
		Email: config.EmailConfig{Enabled: true},
		Slack: config.SlackConfig{Enabled: false},
	}
	service := NewNotifyService(cfg)
	if len(service.notifiers) != 1 {
		t.Fatalf("got %d notifiers, want 1 (email only)", len(service.notifiers))
	}
	if _, ok := service.notifiers[0].(*EmailNotifier); !ok {
		t.Errorf("notifier is %T, want *EmailNotifier", service.notifiers[0])
	}

	cfg.Slack.Enabled = true
	service = NewNotifyService(cfg)
	if len(service.notifiers) != 2 {
		t.Fatalf("got %d notifiers, want 2", len(service.notifiers))
	}
}

func TestSendAlertsEmptyBatchIsNoop(t *testing.T) {
	service := NewNotifyService(&config.NotificationsConfig{
		Email: config.EmailConfig{Enabled: true},
	})
	if err := service.SendAlerts(nil); err != nil {
		t.Errorf("empty batch should not attempt delivery: %v", err)
	}
}
