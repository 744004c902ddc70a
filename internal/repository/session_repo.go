package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionRepository defines the interface for data access of Session entities
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Session, error)
	Update(ctx context.Context, session *model.Session) error
	DeleteByUserAndDevice(ctx context.Context, userID uuid.UUID, deviceID string) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository returns a new instance of SessionRepository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	return GetDB(ctx, r.db).Create(session).Error
}

func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	var session model.Session
	if err := GetDB(ctx, r.db).First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Update(ctx context.Context, session *model.Session) error {
	return GetDB(ctx, r.db).Save(session).Error
}

func (r *sessionRepository) DeleteByUserAndDevice(ctx context.Context, userID uuid.UUID, deviceID string) error {
	return GetDB(ctx, r.db).
		Where("user_id = ? AND device_id = ?", userID, deviceID).
		Delete(&model.Session{}).Error
}

func (r *sessionRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Session{}).
		Where("user_id = ?", userID).
		Update("revoked", true).Error
}
