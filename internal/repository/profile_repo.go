package repository

import (
	"context"
	"errors"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileRepository provides data access for dating profiles.
type ProfileRepository interface {
	// Upsert creates or fully replaces the profile keyed by user, including
	// the favorite-club association.
	Upsert(ctx context.Context, profile *model.Profile, clubs []model.Club) (*model.Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	// FindCandidates returns profiles with a location whose gender is in the
	// allowed set and whose user is not excluded. Distance ordering and
	// sampling happen in the feed service.
	FindCandidates(ctx context.Context, genders []string, excluded []uuid.UUID, limit int) ([]model.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new instance of ProfileRepository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Upsert(ctx context.Context, profile *model.Profile, clubs []model.Club) (*model.Profile, error) {
	db := GetDB(ctx, r.db)

	var existing model.Profile
	err := db.First(&existing, "user_id = ?", profile.UserID).Error
	switch {
	case err == nil:
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
		if err := db.Omit("FavoriteClubs").Save(profile).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := db.Omit("FavoriteClubs").Create(profile).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := db.Model(profile).Association("FavoriteClubs").Replace(clubs); err != nil {
		return nil, err
	}
	profile.FavoriteClubs = clubs
	return profile, nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	err := GetDB(ctx, r.db).
		Preload("FavoriteClubs").
		First(&profile, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindCandidates(ctx context.Context, genders []string, excluded []uuid.UUID, limit int) ([]model.Profile, error) {
	var profiles []model.Profile
	query := GetDB(ctx, r.db).
		Preload("FavoriteClubs").
		Where("has_location = ?", true).
		Where("LOWER(gender) IN ?", genders)
	if len(excluded) > 0 {
		query = query.Where("user_id NOT IN ?", excluded)
	}
	err := query.Limit(limit).Find(&profiles).Error
	return profiles, err
}
