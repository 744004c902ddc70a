package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the central identity entity. Created on first successful
// authentication (Google or email OTP); profile data lives in Profile.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	GoogleID     string    `gorm:"type:varchar(255);index" json:"-"`
	Name         string    `gorm:"type:varchar(255)" json:"name"`
	Avatar       string    `gorm:"type:text" json:"avatar"`
	Role         string    `gorm:"type:varchar(20);not null;default:user" json:"role"` // user, admin (exactly one admin)
	AuthProvider string    `gorm:"type:varchar(20);not null" json:"-"`                 // google, email
	IsRegistered bool      `gorm:"default:false" json:"is_registered"`

	// VIP entitlement window, granted only via the payment webhook
	IsVip          bool       `gorm:"default:false;index" json:"is_vip"`
	VipPlan        string     `gorm:"type:varchar(20)" json:"vip_plan,omitempty"` // monthly, annual
	VipActivatedAt *time.Time `json:"vip_activated_at,omitempty"`
	VipExpiresAt   *time.Time `gorm:"index" json:"vip_expires_at,omitempty"`

	// Presence flags maintained by the websocket coordinator
	IsOnline bool       `gorm:"default:false" json:"is_online"`
	LastSeen *time.Time `json:"last_seen,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Session binds a user to a device and the currently valid refresh token.
// At most one non-deleted session exists per (user, device) pair.
type Session struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	DeviceID     string    `gorm:"type:varchar(255);not null;index" json:"device_id"`
	RefreshToken string    `gorm:"type:text;not null" json:"-"` // stored verbatim, refresh requires exact match
	Revoked      bool      `gorm:"default:false" json:"revoked"`
	LastActive   time.Time `gorm:"not null" json:"last_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
