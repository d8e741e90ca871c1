package services

import (
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"expirywatch/internal/models"
)

// SSLChecker resolves TLS certificate expiry for a domain by performing a
// real handshake against the host and reading the leaf certificate.
type SSLChecker struct {
	timeout  time.Duration
	dialLeaf func(host string, port int) (*x509.Certificate, error)
	now      func() time.Time
}

// NewSSLChecker creates a TLS checker with the given dial timeout.
func NewSSLChecker(timeout time.Duration) *SSLChecker {
	c := &SSLChecker{
		timeout: timeout,
		now:     time.Now,
	}
	c.dialLeaf = c.fetchLeafCertificate
	return c
}

// Check runs the certificate check on the default HTTPS port. The error
// return is reserved for invocation-level faults and is always nil here;
// network and TLS failures surface through the result status.
func (c *SSLChecker) Check(domain string) (*models.CheckResult, error) {
	return c.CheckPort(domain, 443)
}

// CheckPort connects to (domain, port), performs a TLS handshake with
// default trust verification and SNI set to the domain, and classifies the
// leaf certificate's expiry.
func (c *SSLChecker) CheckPort(domain string, port int) (*models.CheckResult, error) {
	host := CleanDomain(domain)

	cert, err := c.dialLeaf(host, port)
	if err != nil {
		return models.ErrorResult(host, sslErrorMessage(err)), nil
	}

	now := c.now().UTC()
	expiry := cert.NotAfter.UTC()
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
		Subject:         certAttributes(cert.Subject),
		Issuer:          certAttributes(cert.Issuer),
	}, nil
}

func (c *SSLChecker) fetchLeafCertificate(host string, port int) (*x509.Certificate, error) {
	dialer := &net.Dialer{Timeout: c.timeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", net.JoinHostPort(host, strconv.Itoa(port)), &tls.Config{
		ServerName: host,
	})
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	certs := conn.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return nil, errors.New("no peer certificates presented")
	}
	return certs[0], nil
}

// sslErrorMessage maps a dial failure onto one of the fixed user-facing
// messages. Resolution failures are classified before timeouts: a DNS
// timeout still means the domain could not be resolved.
func sslErrorMessage(err error) string {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "Domain not found or not reachable"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "Connection timeout"
	}
	if isTLSError(err) {
		return fmt.Sprintf("SSL error: %v", err)
	}
	return fmt.Sprintf("Error checking SSL certificate: %v", err)
}

func isTLSError(err error) bool {
	var recordErr tls.RecordHeaderError
	var verifyErr *tls.CertificateVerificationError
	var hostErr x509.HostnameError
	var authErr x509.UnknownAuthorityError
	var invalidErr x509.CertificateInvalidError
	return errors.As(err, &recordErr) ||
		errors.As(err, &verifyErr) ||
		errors.As(err, &hostErr) ||
		errors.As(err, &authErr) ||
		errors.As(err, &invalidErr)
}

// certAttributes flattens a certificate name into attribute-value pairs in
// conventional DN order.
func certAttributes(name pkix.Name) []models.CertAttribute {
	var attrs []models.CertAttribute
	add := func(attrType string, values ...string) {
		for _, v := range values {
			if v != "" {
				attrs = append(attrs, models.CertAttribute{Type: attrType, Value: v})
			}
		}
	}
	add("countryName", name.Country...)
	add("stateOrProvinceName", name.Province...)
	add("localityName", name.Locality...)
	add("organizationName", name.Organization...)
	add("organizationalUnitName", name.OrganizationalUnit...)
	add("commonName", name.CommonName)
	return attrs
}
