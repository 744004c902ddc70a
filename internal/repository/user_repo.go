package repository

import (
	"context"
	"errors"
	"time"

	"backend/internal/apperr"
	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository defines the interface for data access of User entities
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	FindAdmin(ctx context.Context) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	SetRegistered(ctx context.Context, id uuid.UUID) error
	SetPresence(ctx context.Context, id uuid.UUID, online bool, lastSeen time.Time) error
	GrantVip(ctx context.Context, id uuid.UUID, plan string, activatedAt, expiresAt time.Time) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	// Exactly one admin ever. The check runs before insert; the role column
	// has no unique index so this is the enforcement point.
	if user.Role == "admin" {
		if _, err := r.FindAdmin(ctx); err == nil {
			return apperr.Conflict("only one admin allowed")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return GetDB(ctx, r.db).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAdmin(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "role = ?", "admin").Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Save(user).Error
}

func (r *userRepository) SetRegistered(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.User{}).
		Where("id = ?", id).
		Update("is_registered", true).Error
}

func (r *userRepository) SetPresence(ctx context.Context, id uuid.UUID, online bool, lastSeen time.Time) error {
	return GetDB(ctx, r.db).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_online": online,
			"last_seen": lastSeen,
		}).Error
}

func (r *userRepository) GrantVip(ctx context.Context, id uuid.UUID, plan string, activatedAt, expiresAt time.Time) error {
	return GetDB(ctx, r.db).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_vip":           true,
			"vip_plan":         plan,
			"vip_activated_at": activatedAt,
			"vip_expires_at":   expiresAt,
		}).Error
}
