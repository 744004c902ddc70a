package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message statuses, in delivery order.
const (
	MessageStatusSent      = "sent"
	MessageStatusDelivered = "delivered"
	MessageStatusRead      = "read"
)

// Message belongs to one Match. Text becomes nullable once deleted for
// everyone; per-user hiding is tracked in MessageDeletion rows.
type Message struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MatchID  uuid.UUID `gorm:"type:uuid;not null;index" json:"match_id"`
	Match    Match     `gorm:"foreignKey:MatchID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	SenderID uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	Text     *string   `gorm:"type:varchar(1000)" json:"text"`
	Status   string    `gorm:"type:varchar(20);not null;default:sent" json:"status"`

	// emoji -> count
	Reactions map[string]int64 `gorm:"serializer:json" json:"reactions,omitempty"`

	DeletedForEveryone bool `gorm:"default:false" json:"deleted_for_everyone"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MessageDeletion marks a message as hidden for a single user ("delete for
// me"). Inserting is idempotent via the unique pair index.
type MessageDeletion struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MessageID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_msg_del_pair" json:"message_id"`
	Message   Message   `gorm:"foreignKey:MessageID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_msg_del_pair" json:"user_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (d *MessageDeletion) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
