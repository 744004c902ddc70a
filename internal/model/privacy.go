package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PrivacySettings controls what a user exposes to matches and to the
// presence broadcast. Missing row means everything defaults to visible.
type PrivacySettings struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	// No gorm defaults here: a zero-valued bool with a default tag would be
	// dropped from the INSERT and an explicit false could never be stored.
	// The repository fills in the visible-by-default values on create.
	ShowProfile        bool `json:"show_profile"`
	ShowOnlineStatus   bool `json:"show_online_status"`
	LocationPermission bool `json:"location_permission"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (p *PrivacySettings) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
