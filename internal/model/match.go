package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like statuses.
const (
	LikeStatusPending  = "pending"
	LikeStatusAccepted = "accepted"
)

// Like is a directed interest edge. Unique per ordered (from, to) pair; a
// duplicate insert is the "already liked" domain conflict.
type Like struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FromUserID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_like_pair" json:"from_user_id"`
	ToUserID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_like_pair" json:"to_user_id"`
	Status     string    `gorm:"type:varchar(20);not null;default:pending" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Match is the undirected pairing derived from two mutual likes. The pair is
// canonicalized so User1ID sorts lexicographically before User2ID, which
// guarantees a single row regardless of which side completed the match.
type Match struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	User1ID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_match_pair" json:"user1_id"`
	User2ID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_match_pair" json:"user2_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (m *Match) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// HasParticipant reports whether the given user is one of the two sides.
func (m *Match) HasParticipant(userID uuid.UUID) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// CanonicalPair orders two user ids by their string form. Existing match rows
// depend on this exact comparison; do not change it.
func CanonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() < b.String() {
		return a, b
	}
	return b, a
}
