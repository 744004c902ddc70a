package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Club is a named venue with a geo point. Created by the admin only.
type Club struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null;index" json:"name"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	IconURL     string     `gorm:"type:text" json:"icon_url,omitempty"`
	Category    string     `gorm:"type:varchar(100)" json:"category,omitempty"`
	Longitude   float64    `json:"longitude"`
	Latitude    float64    `json:"latitude"`
	IsActive    bool       `gorm:"default:true;index" json:"is_active"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (c *Club) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
