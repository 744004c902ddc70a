package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TonightPlan is the user's single active "going out tonight" intent.
// Upserting replaces any prior plan; the unique user index enforces it.
type TonightPlan struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ClubID uuid.UUID `gorm:"type:uuid;not null" json:"club_id"`
	Club   Club      `gorm:"foreignKey:ClubID" json:"club"`

	ArrivalTime string    `gorm:"type:varchar(50);not null" json:"arrival_time"`
	Date        time.Time `gorm:"not null" json:"date"` // normalized to midnight

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (t *TonightPlan) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
