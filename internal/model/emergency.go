package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

type AlertType string

const (
	AlertEarthquake AlertType = "earthquake"
	AlertFire       AlertType = "fire"
	AlertFlood      AlertType = "flood"
	AlertCyclone    AlertType = "cyclone"
	AlertWeather    AlertType = "weather"
	AlertOther      AlertType = "other"
)

type EmergencyAlert struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	AlertType AlertType     `gorm:"size:20;not null" json:"alert_type"`
	Severity  AlertSeverity `gorm:"size:20;not null" json:"severity"`
	Title     string        `gorm:"size:200;not null" json:"title"`
	Message   string        `gorm:"type:text;not null" json:"message"`
	Location  string        `gorm:"size:200;not null" json:"location"`
	Source    string        `gorm:"size:100;not null" json:"source"`
	IsActive  bool          `gorm:"not null;default:true" json:"is_active"`
	CreatedBy *uuid.UUID    `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt *time.Time    `json:"expires_at,omitempty"`
}

func (a *EmergencyAlert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type SOSStatus string

const (
	SOSActive    SOSStatus = "active"
	SOSResolved  SOSStatus = "resolved"
	SOSCancelled SOSStatus = "cancelled"
)

// SOSRequest is created by any active user and resolved by an admin.
// ResolvedAt and ResolvedBy are always set together.
type SOSRequest struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Location   *string    `gorm:"size:200" json:"location,omitempty"`
	Latitude   *float64   `json:"latitude,omitempty"`
	Longitude  *float64   `json:"longitude,omitempty"`
	Status     SOSStatus  `gorm:"size:20;not null;default:active" json:"status"`
	Notes      *string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy *uuid.UUID `gorm:"type:uuid" json:"resolved_by,omitempty"`
	User       User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (s *SOSRequest) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type EmergencyContact struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Role       string    `gorm:"size:100;not null" json:"role"`
	Phone      string    `gorm:"size:30;not null" json:"phone"`
	Email      *string   `gorm:"size:100" json:"email,omitempty"`
	Department *string   `gorm:"size:100" json:"department,omitempty"`
	Priority   int       `gorm:"not null;default:1" json:"priority"` // 1 = highest
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (c *EmergencyContact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
