package service

import (
	"context"
	"errors"
	"time"

	"backend/internal/apperr"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UpsertTonightPlanRequest struct {
	ClubID      uuid.UUID `json:"club" binding:"required"`
	ArrivalTime string    `json:"arrivalTime" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
}

// TonightPlanService manages the single active "tonight" plan per user.
type TonightPlanService interface {
	Upsert(ctx context.Context, userID uuid.UUID, req UpsertTonightPlanRequest) (*model.TonightPlan, error)
	Get(ctx context.Context, userID uuid.UUID) (*model.TonightPlan, error)
	Cancel(ctx context.Context, userID uuid.UUID) error
}

type tonightPlanService struct {
	plans repository.TonightPlanRepository
	clubs repository.ClubRepository
}

// NewTonightPlanService returns a new instance of TonightPlanService
func NewTonightPlanService(plans repository.TonightPlanRepository, clubs repository.ClubRepository) TonightPlanService {
	return &tonightPlanService{plans: plans, clubs: clubs}
}

func (s *tonightPlanService) Upsert(ctx context.Context, userID uuid.UUID, req UpsertTonightPlanRequest) (*model.TonightPlan, error) {
	if _, err := s.clubs.GetByID(ctx, req.ClubID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("club not found")
		}
		return nil, err
	}

	return s.plans.Upsert(ctx, &model.TonightPlan{
		UserID:      userID,
		ClubID:      req.ClubID,
		ArrivalTime: req.ArrivalTime,
		Date:        truncateToDay(req.Date),
	})
}

func (s *tonightPlanService) Get(ctx context.Context, userID uuid.UUID) (*model.TonightPlan, error) {
	plan, err := s.plans.GetByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // no plan is not an error
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *tonightPlanService) Cancel(ctx context.Context, userID uuid.UUID) error {
	return s.plans.DeleteByUser(ctx, userID)
}
