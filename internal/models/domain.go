package models

import (
	"time"
)

// Domain represents a monitored domain record in the database
type Domain struct {
	ID                 uint      `gorm:"primarykey" json:"id"`
	Name               string    `gorm:"uniqueIndex;not null" json:"name"` // Domain name
	Description        string    `json:"description"`                      // Free-form description
	Registrar          string    `json:"registrar"`                        // Registrar
	ExpiryDate         time.Time `json:"expiry_date"`                      // Registration expiry
	CertExpiryDate     time.Time `json:"cert_expiry_date"`                 // TLS certificate expiry
	DaysRemaining      int       `json:"days_remaining"`                   // Days until registration expiry
	CertDaysRemaining  int       `json:"cert_days_remaining"`              // Days until certificate expiry
	AlertThresholdDays *int      `json:"alert_threshold_days"`             // Per-domain override, nil = global
	LastChecked        time.Time `json:"last_checked"`                     // Last check time
	LastError          string    `json:"last_error"`                       // Most recent check failure, if any
	IsActive           bool      `gorm:"default:true" json:"is_active"`    // Monitor enabled
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Notification represents a notification record
type Notification struct {
	ID      uint      `gorm:"primarykey" json:"id"`
	Domain  string    `json:"domain"`  // Alerted domain name
	Type    string    `json:"type"`    // Notification channel (email/slack)
	Content string    `json:"content"` // Notification content
	Status  string    `json:"status"`  // Send status (success/failed)
	SentAt  time.Time `json:"sent_at"`
}

// Setting represents system configuration
type Setting struct {
	Key   string `gorm:"primarykey" json:"key"`
	Value string `json:"value"`
}

// User represents a user account
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"` // Username
	Password  string    `gorm:"not null" json:"-"`                    // Hashed password (excluded from JSON)
	Email     string    `json:"email"`                                // Email
	IsActive  bool      `gorm:"default:true" json:"is_active"`        // Account status
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
