package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Monitoring    MonitoringConfig    `yaml:"monitoring"`
	Domains       []DomainConfig      `yaml:"domains"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Advanced      AdvancedConfig      `yaml:"advanced"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug/release
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Type string `yaml:"type"` // sqlite
	Path string `yaml:"path"`
}

// MonitoringConfig represents the main monitoring configuration
type MonitoringConfig struct {
	AlertThresholdDays int    `yaml:"alert_threshold_days"`
	CheckInterval      string `yaml:"check_interval"` // Cron expression
	SaveResults        bool   `yaml:"save_results"`
	ResultsFilename    string `yaml:"results_filename"`
}

// DomainConfig represents a single monitored domain. A nil
// AlertThresholdDays means the global threshold applies.
type DomainConfig struct {
	Name               string `yaml:"name"`
	Description        string `yaml:"description"`
	AlertThresholdDays *int   `yaml:"alert_threshold_days"`
}

// NotificationsConfig represents notification configuration
type NotificationsConfig struct {
	Email EmailConfig `yaml:"email"`
	Slack SlackConfig `yaml:"slack"`
}

// EmailRecipient represents one email alert recipient
type EmailRecipient struct {
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
}

// EmailConfig represents email notification configuration
type EmailConfig struct {
	Enabled         bool             `yaml:"enabled"`
	SMTPHost        string           `yaml:"smtp_host"`
	SMTPPort        int              `yaml:"smtp_port"`
	From            string           `yaml:"from"`
	Password        string           `yaml:"password"`
	Recipients      []EmailRecipient `yaml:"recipients"`
	SubjectTemplate string           `yaml:"subject_template"`
}

// SlackConfig represents Slack notification configuration
type SlackConfig struct {
	Enabled         bool              `yaml:"enabled"`
	WebhookURL      string            `yaml:"webhook_url"`
	Channel         string            `yaml:"channel"`
	MessageTemplate string            `yaml:"message_template"`
	UrgencyEmojis   map[string]string `yaml:"urgency_emojis"`
}

// AdvancedConfig represents advanced tuning knobs
type AdvancedConfig struct {
	Timeouts TimeoutConfig `yaml:"timeouts"`
	Retry    RetryConfig   `yaml:"retry"`
	Logging  LoggingConfig `yaml:"logging"`
	Output   OutputConfig  `yaml:"output"`
}

// TimeoutConfig represents network timeout settings
type TimeoutConfig struct {
	WhoisTimeoutSeconds int `yaml:"whois_timeout_seconds"`
	SSLTimeoutSeconds   int `yaml:"ssl_timeout_seconds"`
}

// WhoisTimeout returns the WHOIS query timeout as a duration.
func (t TimeoutConfig) WhoisTimeout() time.Duration {
	return time.Duration(t.WhoisTimeoutSeconds) * time.Second
}

// SSLTimeout returns the TLS dial timeout as a duration.
func (t TimeoutConfig) SSLTimeout() time.Duration {
	return time.Duration(t.SSLTimeoutSeconds) * time.Second
}

// RetryConfig represents retry settings. These are parsed for completeness
// but the checkers do not retry; each check runs exactly once per batch.
type RetryConfig struct {
	MaxAttempts       int `yaml:"max_attempts"`
	RetryDelaySeconds int `yaml:"retry_delay_seconds"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// OutputConfig represents output formatting configuration
type OutputConfig struct {
	ConsoleColors   bool `yaml:"console_colors"`
	JSONPrettyPrint bool `yaml:"json_pretty_print"`
}

// Default returns a configuration populated with the documented defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Type: "sqlite",
			Path: "expirywatch.db",
		},
		Monitoring: MonitoringConfig{
			AlertThresholdDays: 30,
			CheckInterval:      "@daily",
			SaveResults:        true,
			ResultsFilename:    "domain_check_results.json",
		},
		Notifications: NotificationsConfig{
			Email: EmailConfig{
				Enabled:         true,
				SMTPPort:        587,
				SubjectTemplate: "🚨 Domain Expiration Alert - {count} domain(s) expiring soon",
			},
			Slack: SlackConfig{
				Enabled:         false,
				Channel:         "#alerts",
				MessageTemplate: "🚨 *Domain Alert* - {count} domain(s) expiring soon",
				UrgencyEmojis: map[string]string{
					"critical": "🔴",
					"warning":  "🟡",
					"info":     "ℹ️",
				},
			},
		},
		Advanced: AdvancedConfig{
			Timeouts: TimeoutConfig{
				WhoisTimeoutSeconds: 30,
				SSLTimeoutSeconds:   10,
			},
			Retry: RetryConfig{
				MaxAttempts:       3,
				RetryDelaySeconds: 5,
			},
			Logging: LoggingConfig{
				Level: "INFO",
			},
			Output: OutputConfig{
				ConsoleColors:   true,
				JSONPrettyPrint: true,
			},
		},
	}
}

// LoadConfig loads configuration from a YAML file. Keys absent from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// ThresholdFor resolves the effective alert threshold for a domain name:
// the per-domain override when set, otherwise the global threshold.
func (c *Config) ThresholdFor(name string) int {
	for _, d := range c.Domains {
		if d.Name == name && d.AlertThresholdDays != nil {
			return *d.AlertThresholdDays
		}
	}
	return c.Monitoring.AlertThresholdDays
}
