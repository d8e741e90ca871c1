package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"expirywatch/internal/config"
	"expirywatch/internal/database"
	"expirywatch/internal/models"
)

// Notifier delivers a batch of expiry alerts through one channel.
type Notifier interface {
	Send(alerts []models.Alert) error
}

// NotifyService fans an alert batch out to all enabled channels
type NotifyService struct {
	notifiers []Notifier
}

// NewNotifyService creates a new notification service
func NewNotifyService(cfg *config.NotificationsConfig) *NotifyService {
	service := &NotifyService{
		notifiers: make([]Notifier, 0),
	}

	if cfg.Email.Enabled {
		service.notifiers = append(service.notifiers, NewEmailNotifier(&cfg.Email))
	}

	if cfg.Slack.Enabled {
		service.notifiers = append(service.notifiers, NewSlackNotifier(&cfg.Slack))
	}

	return service
}

// SendAlerts sends the alert batch through all enabled channels
func (s *NotifyService) SendAlerts(alerts []models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	var lastErr error
	successCount := 0

	for _, notifier := range s.notifiers {
		notifierType := fmt.Sprintf("%T", notifier)
		if err := notifier.Send(alerts); err != nil {
			fmt.Printf("[ERROR] %s notification failed: %v\n", notifierType, err)
			lastErr = err
			s.recordNotifications(alerts, notifier, "failed")
			continue
		}

		s.recordNotifications(alerts, notifier, "success")
		successCount++
		fmt.Printf("[SUCCESS] %s notification sent\n", notifierType)
	}

	if successCount > 0 && lastErr != nil {
		// At least one channel succeeded, don't return error
		return nil
	}

	return lastErr
}

// recordNotifications records one history row per alert in the database
func (s *NotifyService) recordNotifications(alerts []models.Alert, notifier Notifier, status string) {
	db := database.GetDB()
	if db == nil {
		return
	}

	for _, alert := range alerts {
		notification := &models.Notification{
			Domain:  alert.Domain,
			Type:    fmt.Sprintf("%T", notifier),
			Content: fmt.Sprintf("%s for %s expires in %d days", alertTypeTitle(alert.Type), alert.Domain, alert.DaysUntilExpiry),
			Status:  status,
			SentAt:  time.Now(),
		}
		db.Create(notification)
	}
}

// RenderCountTemplate substitutes the alert count into a "{count}" template.
func RenderCountTemplate(template string, count int) string {
	return strings.ReplaceAll(template, "{count}", strconv.Itoa(count))
}

// alertTypeTitle renders an alert type for human-readable output.
func alertTypeTitle(alertType models.AlertType) string {
	switch alertType {
	case models.AlertDomainRegistration:
		return "Domain Registration"
	case models.AlertSSLCertificate:
		return "Ssl Certificate"
	default:
		return string(alertType)
	}
}

func formatExpiration(t *time.Time) string {
	if t == nil {
		return "unknown"
	}
	return t.Format(time.RFC3339)
}

// EmailNotifier sends email alerts over SMTP
type EmailNotifier struct {
	config *config.EmailConfig
}

// NewEmailNotifier creates a new email notifier
func NewEmailNotifier(cfg *config.EmailConfig) *EmailNotifier {
	return &EmailNotifier{config: cfg}
}

// FormatEmailBody renders the plain-text alert listing for an email.
func FormatEmailBody(alerts []models.Alert) string {
	lines := []string{
		"Domain Expiration Alert",
		strings.Repeat("=", 50),
		"",
		"The following domains are expiring within their alert thresholds:",
		"",
	}

	for _, alert := range alerts {
		lines = append(lines,
			fmt.Sprintf("🔴 %s", alert.Domain),
			fmt.Sprintf("   Type: %s", alertTypeTitle(alert.Type)),
			fmt.Sprintf("   Days until expiry: %d", alert.DaysUntilExpiry),
			fmt.Sprintf("   Expiration date: %s", formatExpiration(alert.ExpirationDate)),
		)
		if alert.Type == models.AlertDomainRegistration {
			registrar := alert.Registrar
			if registrar == "" {
				registrar = "Unknown"
			}
			lines = append(lines, fmt.Sprintf("   Registrar: %s", registrar))
		}
		lines = append(lines, "")
	}

	lines = append(lines,
		"Please take action to renew these domains/certificates.",
		"",
		"This is an automated alert from Domain Monitor.",
	)

	return strings.Join(lines, "\n")
}

// Send sends one email covering the whole alert batch to every recipient
func (e *EmailNotifier) Send(alerts []models.Alert) error {
	subject := RenderCountTemplate(e.config.SubjectTemplate, len(alerts))
	body := FormatEmailBody(alerts)

	recipients := make([]string, 0, len(e.config.Recipients))
	for _, r := range e.config.Recipients {
		recipients = append(recipients, r.Email)
	}
	if len(recipients) == 0 {
		return fmt.Errorf("no email recipients configured")
	}

	// Build email message
	message := fmt.Sprintf("From: %s\r\n", e.config.From)
	message += fmt.Sprintf("To: %s\r\n", strings.Join(recipients, ","))
	message += fmt.Sprintf("Subject: %s\r\n", subject)
	message += "Content-Type: text/plain; charset=UTF-8\r\n"
	message += "\r\n"
	message += body

	auth := smtp.PlainAuth("", e.config.From, e.config.Password, e.config.SMTPHost)

	addr := fmt.Sprintf("%s:%d", e.config.SMTPHost, e.config.SMTPPort)
	err := smtp.SendMail(addr, auth, e.config.From, recipients, []byte(message))
	if err != nil {
		// QQ mail and some other providers return "short response" error
		// but the email is actually sent successfully. Ignore this specific error.
		if !strings.Contains(err.Error(), "short response") {
			return fmt.Errorf("failed to send email: %w", err)
		}
		fmt.Printf("[EMAIL] Email sent (ignoring 'short response' error from SMTP server)\n")
	}

	fmt.Printf("[EMAIL] Successfully sent alert for %d domain(s) to %v\n", len(alerts), recipients)
	return nil
}

// SlackNotifier sends alerts to a Slack incoming webhook
type SlackNotifier struct {
	config *config.SlackConfig
}

// NewSlackNotifier creates a new Slack notifier
func NewSlackNotifier(cfg *config.SlackConfig) *SlackNotifier {
	return &SlackNotifier{config: cfg}
}

var defaultUrgencyEmojis = map[string]string{
	"critical": "🔴",
	"warning":  "🟡",
	"info":     "ℹ️",
}

// urgencyEmoji picks the per-line marker by day count: critical within 7
// days, warning within 30, info beyond.
func urgencyEmoji(emojis map[string]string, days int) string {
	key := "info"
	switch {
	case days <= 7:
		key = "critical"
	case days <= 30:
		key = "warning"
	}
	if emoji, ok := emojis[key]; ok && emoji != "" {
		return emoji
	}
	return defaultUrgencyEmojis[key]
}

// FormatSlackMessage renders the single chat message for an alert batch.
func FormatSlackMessage(cfg *config.SlackConfig, alerts []models.Alert) string {
	lines := []string{
		RenderCountTemplate(cfg.MessageTemplate, len(alerts)) + ":",
	}

	for _, alert := range alerts {
		lines = append(lines, fmt.Sprintf("%s *%s* (%s) - %d days left",
			urgencyEmoji(cfg.UrgencyEmojis, alert.DaysUntilExpiry),
			alert.Domain,
			alertTypeTitle(alert.Type),
			alert.DaysUntilExpiry,
		))
	}

	return strings.Join(lines, "\n")
}

// Send posts the alert batch as one message to the configured webhook
func (n *SlackNotifier) Send(alerts []models.Alert) error {
	payload := map[string]interface{}{
		"channel": n.config.Channel,
		"text":    FormatSlackMessage(n.config, alerts),
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := http.Post(n.config.WebhookURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}

	return nil
}
