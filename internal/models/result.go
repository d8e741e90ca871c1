package models

import (
	"time"
)

// CheckStatus classifies the outcome of a single expiry check.
type CheckStatus string

const (
	StatusSuccess CheckStatus = "success"
	StatusError   CheckStatus = "error"
)

// CertAttribute is one attribute-value pair from a certificate subject or
// issuer, passed through unmodified from the peer certificate.
type CertAttribute struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// CheckResult is the outcome of one WHOIS or TLS expiry check. Results are
// created fresh per check and never mutated after being returned. Fields
// beyond Domain and Status are only populated on success, except Message
// which carries the human-readable cause on error.
type CheckResult struct {
	Domain          string          `json:"domain"`
	Status          CheckStatus     `json:"status"`
	ExpirationDate  *time.Time      `json:"expiration_date,omitempty"`
	DaysUntilExpiry *int            `json:"days_until_expiry,omitempty"`
	IsExpired       *bool           `json:"is_expired,omitempty"`
	ExpiresSoon     *bool           `json:"expires_soon,omitempty"`
	Message         string          `json:"message,omitempty"`
	Registrar       string          `json:"registrar,omitempty"` // WHOIS checks only
	Subject         []CertAttribute `json:"subject,omitempty"`   // TLS checks only
	Issuer          []CertAttribute `json:"issuer,omitempty"`    // TLS checks only
}

// ErrorResult builds an error-status check result with a human-readable message.
func ErrorResult(domain, message string) *CheckResult {
	return &CheckResult{
		Domain:  domain,
		Status:  StatusError,
		Message: message,
	}
}

// Succeeded reports whether the check produced a usable expiry.
func (r *CheckResult) Succeeded() bool {
	return r != nil && r.Status == StatusSuccess
}

// DomainReport bundles the WHOIS and TLS check results for one domain in a
// batch run. Error is set instead of the sub-results when the check
// invocation itself failed; a report always exists for every domain so a
// single failure never aborts the batch.
type DomainReport struct {
	Domain      string       `json:"domain"`
	DomainCheck *CheckResult `json:"domain_check,omitempty"`
	SSLCheck    *CheckResult `json:"ssl_check,omitempty"`
	Error       string       `json:"error,omitempty"`
	CheckedAt   time.Time    `json:"checked_at"`
}

// AlertType distinguishes registration alerts from certificate alerts.
type AlertType string

const (
	AlertDomainRegistration AlertType = "domain_registration"
	AlertSSLCertificate     AlertType = "ssl_certificate"
)

// Alert is emitted when a successful check falls within its effective
// threshold. Registrar is only set for domain registration alerts.
type Alert struct {
	Domain          string     `json:"domain"`
	Type            AlertType  `json:"type"`
	DaysUntilExpiry int        `json:"days_until_expiry"`
	ExpirationDate  *time.Time `json:"expiration_date,omitempty"`
	Registrar       string     `json:"registrar,omitempty"`
	Threshold       int        `json:"threshold"`
}
