package service

import (
	"context"
	"errors"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UpdatePrivacyRequest struct {
	ShowProfile        *bool `json:"showProfile"`
	ShowOnlineStatus   *bool `json:"showOnlineStatus"`
	LocationPermission *bool `json:"locationPermission"`
}

type OnlineStatusVisibility struct {
	ShowOnlineStatus bool `json:"showOnlineStatus"`
}

// PrivacyService manages the per-user privacy settings.
type PrivacyService interface {
	Update(ctx context.Context, userID uuid.UUID, req UpdatePrivacyRequest) (*model.PrivacySettings, error)
	// OnlineStatusVisible reports whether a user broadcasts presence.
	// A missing settings row defaults to visible.
	OnlineStatusVisible(ctx context.Context, userID uuid.UUID) (bool, error)
}

type privacyService struct {
	privacy repository.PrivacyRepository
}

// NewPrivacyService returns a new instance of PrivacyService
func NewPrivacyService(privacy repository.PrivacyRepository) PrivacyService {
	return &privacyService{privacy: privacy}
}

func (s *privacyService) Update(ctx context.Context, userID uuid.UUID, req UpdatePrivacyRequest) (*model.PrivacySettings, error) {
	return s.privacy.Upsert(ctx, userID, func(settings *model.PrivacySettings) {
		if req.ShowProfile != nil {
			settings.ShowProfile = *req.ShowProfile
		}
		if req.ShowOnlineStatus != nil {
			settings.ShowOnlineStatus = *req.ShowOnlineStatus
		}
		if req.LocationPermission != nil {
			settings.LocationPermission = *req.LocationPermission
		}
	})
}

func (s *privacyService) OnlineStatusVisible(ctx context.Context, userID uuid.UUID) (bool, error) {
	settings, err := s.privacy.GetByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return settings.ShowOnlineStatus, nil
}
