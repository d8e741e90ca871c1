package services

import (
	"testing"
	"time"
)

func TestCleanDomain(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare domain", "example.com", "example.com"},
		{"http scheme", "http://example.com", "example.com"},
		{"https scheme", "https://example.com", "example.com"},
		{"www prefix", "www.example.com", "example.com"},
		{"scheme and www", "https://www.example.com", "example.com"},
		{"path suffix", "https://www.example.com/some/path?q=1", "example.com"},
		{"path without scheme", "example.com/about", "example.com"},
		{"surrounding whitespace", "  example.com \n", "example.com"},
		{"empty input", "", ""},
		{"degenerate input passes through", "not a domain", "not a domain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanDomain(tt.in); got != tt.want {
				t.Errorf("CleanDomain(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		want   int
	}{
		{"exactly 100 days out", now.Add(100 * 24 * time.Hour), 100},
		{"partial day floors down", now.Add(99*24*time.Hour + 12*time.Hour), 99},
		{"same instant", now, 0},
		{"later today", now.Add(6 * time.Hour), 0},
		{"ten days past", now.Add(-10 * 24 * time.Hour), -10},
		{"partial day in the past floors toward earlier", now.Add(-12 * time.Hour), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := daysUntil(tt.expiry, now); got != tt.want {
				t.Errorf("daysUntil() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExpiresSoonWindowIsIndependentOfThreshold(t *testing.T) {
	// The 30-day window is fixed; it does not track alert thresholds.
	if expiresSoon(-1) {
		t.Error("expired domains must not be flagged as expiring soon")
	}
	if !expiresSoon(0) {
		t.Error("a domain expiring today is expiring soon")
	}
	if !expiresSoon(30) {
		t.Error("day 30 is inside the window")
	}
	if expiresSoon(31) {
		t.Error("day 31 is outside the window")
	}
}
