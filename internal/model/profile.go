package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is the one-to-one dating profile for a User. Coordinates are stored
// longitude first to match the GeoJSON convention of the mobile clients.
type Profile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name         string  `gorm:"type:varchar(255);not null" json:"name"`
	Age          int     `gorm:"not null" json:"age"`
	Gender       string  `gorm:"type:varchar(20);not null;index" json:"gender"`       // male, female, other
	InterestedIn string  `gorm:"type:varchar(20);not null" json:"interested_in"`      // men, women, everyone
	About        string  `gorm:"type:varchar(500)" json:"about,omitempty"`
	City         string  `gorm:"type:varchar(255);not null" json:"city"`
	Longitude    float64 `json:"longitude"`
	Latitude     float64 `json:"latitude"`
	HasLocation  bool    `gorm:"default:false" json:"-"`

	FavoriteClubs []Club `gorm:"many2many:profile_favorite_clubs;" json:"favorite_clubs,omitempty"`

	DrinkingLevel     string `gorm:"type:varchar(20);default:little" json:"drinking_level"` // little, moderate, heavy
	SplitBill         bool   `gorm:"default:false" json:"split_bill"`
	OpenForAfterparty bool   `gorm:"default:false" json:"open_for_afterparty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Photo is an ordered profile photo stored in the external blob store.
type Photo struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User     User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	URL      string    `gorm:"type:text;not null" json:"url"`
	PublicID string    `gorm:"type:varchar(255);not null" json:"-"` // deletion handle in the blob store
	Order    int       `gorm:"column:photo_order;not null" json:"order"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (p *Photo) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
