package services

import (
	"math"
	"strings"
	"time"
)

// expiresSoonWindowDays is the fixed classification window for the
// expires_soon flag. It is intentionally independent of the configurable
// alert threshold; the two must not be conflated.
const expiresSoonWindowDays = 30

// CleanDomain strips the URL scheme, a leading "www." and any path suffix
// from a raw domain string, returning the bare host name. Degenerate input
// is passed through without further validation.
func CleanDomain(raw string) string {
	d := strings.TrimSpace(raw)
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "www.")
	if i := strings.IndexByte(d, '/'); i >= 0 {
		d = d[:i]
	}
	return d
}

// daysUntil returns the whole number of days from now until expiry, flooring
// toward the earlier boundary so a partially elapsed day counts down. An
// expiry in the past yields a negative count.
func daysUntil(expiry, now time.Time) int {
	return int(math.Floor(expiry.Sub(now).Hours() / 24))
}

// expiresSoon reports whether an unexpired domain falls inside the fixed
// 30-day warning window.
func expiresSoon(days int) bool {
	return days >= 0 && days <= expiresSoonWindowDays
}
