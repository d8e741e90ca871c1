package services

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"expirywatch/internal/models"

	"github.com/likexian/whois"
	"github.com/openrdap/rdap"
	"golang.org/x/net/publicsuffix"
)

// WhoisQuerier performs a raw WHOIS lookup for a domain.
type WhoisQuerier interface {
	Query(domain string) (string, error)
}

// RDAPQuerier resolves a registration expiry via RDAP. Used as a fallback
// when the WHOIS response carries no recognizable expiration field.
type RDAPQuerier interface {
	ExpiryDate(domain string) (time.Time, error)
}

type whoisClient struct {
	client *whois.Client
}

func (c whoisClient) Query(domain string) (string, error) {
	return c.client.Whois(domain)
}

type rdapClient struct {
	client *rdap.Client
}

// rdapDateFormats covers the timestamp shapes seen in registry expiration
// events. Formats without a zone are taken as UTC.
var rdapDateFormats = []string{
	"2006-01-02T15:04:05Z",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

func (c rdapClient) ExpiryDate(domain string) (time.Time, error) {
	resp, err := c.client.Do(&rdap.Request{
		Type:  rdap.DomainRequest,
		Query: domain,
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("rdap query failed: %w", err)
	}
	if resp == nil || resp.Object == nil {
		return time.Time{}, fmt.Errorf("nil rdap response")
	}

	d, ok := resp.Object.(*rdap.Domain)
	if !ok {
		return time.Time{}, fmt.Errorf("unable to read domain response")
	}
	for _, event := range d.Events {
		if event.Action != "expiration" {
			continue
		}
		for _, format := range rdapDateFormats {
			if when, err := time.Parse(format, event.Date); err == nil {
				return when, nil
			}
		}
		return time.Time{}, fmt.Errorf("unable to find parsable format for %q", event.Date)
	}
	return time.Time{}, fmt.Errorf("no expiration event found")
}

// WhoisChecker resolves domain registration expiry via WHOIS, with an RDAP
// fallback for registries whose WHOIS output omits the expiration date.
type WhoisChecker struct {
	querier WhoisQuerier
	rdap    RDAPQuerier
	now     func() time.Time
}

// NewWhoisChecker creates a WHOIS checker with the given query timeout.
func NewWhoisChecker(timeout time.Duration) *WhoisChecker {
	client := whois.NewClient()
	client.SetTimeout(timeout)

	return &WhoisChecker{
		querier: whoisClient{client: client},
		rdap:    rdapClient{client: &rdap.Client{HTTP: &http.Client{Timeout: timeout}}},
		now:     time.Now,
	}
}

// Check queries registration data for a domain and classifies its expiry.
// Failures are reported through the result status, never as an error; the
// error return is reserved for invocation-level faults and is always nil
// here, so a batch caller can treat the two channels uniformly.
func (c *WhoisChecker) Check(domain string) (*models.CheckResult, error) {
	host := CleanDomain(domain)

	// Registration data lives at the registrable domain, not the host.
	target := host
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		target = etld
	}

	raw, err := c.querier.Query(target)
	if err != nil {
		return models.ErrorResult(host, fmt.Sprintf("Error checking domain: %v", err)), nil
	}
	if strings.TrimSpace(raw) == "" {
		return models.ErrorResult(host, "Domain not found."), nil
	}

	expiry, found := parseWhoisExpiry(raw)
	if !found && c.rdap != nil {
		if when, err := c.rdap.ExpiryDate(target); err == nil {
			expiry, found = when, true
		}
	}
	if !found {
		return models.ErrorResult(host, "Could not determine expiration date"), nil
	}

	registrar := parseWhoisRegistrar(raw)
	if registrar == "" {
		registrar = "Unknown"
	}

	now := c.now().UTC()
	expiry = expiry.UTC()
	days := daysUntil(expiry, now)
	expired := days < 0
	soon := expiresSoon(days)

	return &models.CheckResult{
		Domain:          host,
		Status:          models.StatusSuccess,
		ExpirationDate:  &expiry,
		DaysUntilExpiry: &days,
		IsExpired:       &expired,
		ExpiresSoon:     &soon,
		Registrar:       registrar,
	}, nil
}

// expiryLabels are the known WHOIS field names for the expiration date,
// lowercase. The first matching line with a parsable value wins.
var expiryLabels = []string{
	"registry expiry date:",
	"registrar registration expiration date:",
	"expiry date:",
	"expiration date:",
	"expiration time:",
	"expires on:",
	"expires:",
	"expiry:",
	"paid-till:",
}

// whoisDateFormats covers the date shapes registries actually emit.
// Formats without a zone parse as UTC.
var whoisDateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05-0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02",
}

func parseWhoisExpiry(raw string) (time.Time, bool) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		for _, label := range expiryLabels {
			if !strings.HasPrefix(lower, label) {
				continue
			}
			value := strings.TrimSpace(line[len(label):])
			for _, format := range whoisDateFormats {
				if t, err := time.Parse(format, value); err == nil {
					return t, true
				}
			}
		}
	}
	return time.Time{}, false
}

func parseWhoisRegistrar(raw string) string {
	const label = "registrar:"
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(strings.ToLower(line), label) {
			continue
		}
		if value := strings.TrimSpace(line[len(label):]); value != "" {
			return value
		}
	}
	return ""
}
