package repository

import (
	"context"
	"errors"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PrivacyRepository provides data access for per-user privacy settings.
type PrivacyRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.PrivacySettings, error)
	// Upsert applies the given mutation to the user's settings, creating the
	// row with defaults first if absent.
	Upsert(ctx context.Context, userID uuid.UUID, mutate func(*model.PrivacySettings)) (*model.PrivacySettings, error)
}

type privacyRepository struct {
	db *gorm.DB
}

// NewPrivacyRepository returns a new instance of PrivacyRepository
func NewPrivacyRepository(db *gorm.DB) PrivacyRepository {
	return &privacyRepository{db: db}
}

func (r *privacyRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.PrivacySettings, error) {
	var settings model.PrivacySettings
	if err := GetDB(ctx, r.db).First(&settings, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *privacyRepository) Upsert(ctx context.Context, userID uuid.UUID, mutate func(*model.PrivacySettings)) (*model.PrivacySettings, error) {
	db := GetDB(ctx, r.db)

	var settings model.PrivacySettings
	err := db.First(&settings, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = model.PrivacySettings{
			UserID:             userID,
			ShowProfile:        true,
			ShowOnlineStatus:   true,
			LocationPermission: true,
		}
		if mutate != nil {
			mutate(&settings)
		}
		if err := db.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}

	if mutate != nil {
		mutate(&settings)
	}
	if err := db.Save(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}
