package repository

import (
	"context"
	"errors"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TonightPlanRepository provides data access for tonight plans.
type TonightPlanRepository interface {
	// Upsert replaces the user's current plan; one active plan per user.
	Upsert(ctx context.Context, plan *model.TonightPlan) (*model.TonightPlan, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*model.TonightPlan, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type tonightPlanRepository struct {
	db *gorm.DB
}

// NewTonightPlanRepository returns a new instance of TonightPlanRepository
func NewTonightPlanRepository(db *gorm.DB) TonightPlanRepository {
	return &tonightPlanRepository{db: db}
}

func (r *tonightPlanRepository) Upsert(ctx context.Context, plan *model.TonightPlan) (*model.TonightPlan, error) {
	db := GetDB(ctx, r.db)

	var existing model.TonightPlan
	err := db.First(&existing, "user_id = ?", plan.UserID).Error
	switch {
	case err == nil:
		plan.ID = existing.ID
		plan.CreatedAt = existing.CreatedAt
		if err := db.Save(plan).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := db.Create(plan).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return r.GetByUser(ctx, plan.UserID)
}

func (r *tonightPlanRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*model.TonightPlan, error) {
	var plan model.TonightPlan
	err := GetDB(ctx, r.db).
		Preload("Club").
		First(&plan, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *tonightPlanRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).
		Where("user_id = ?", userID).
		Delete(&model.TonightPlan{}).Error
}
