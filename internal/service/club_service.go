package service

import (
	"context"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

type CreateClubRequest struct {
	Name        string  `json:"name" binding:"required,min=2"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	IconURL     string  `json:"iconUrl"`
	Latitude    float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
}

// ClubService manages venue entries. Creation is admin only, enforced at
// the handler level.
type ClubService interface {
	Create(ctx context.Context, createdBy uuid.UUID, req CreateClubRequest) (*model.Club, error)
	ListActive(ctx context.Context) ([]model.Club, error)
}

type clubService struct {
	clubs repository.ClubRepository
}

// NewClubService returns a new instance of ClubService
func NewClubService(clubs repository.ClubRepository) ClubService {
	return &clubService{clubs: clubs}
}

func (s *clubService) Create(ctx context.Context, createdBy uuid.UUID, req CreateClubRequest) (*model.Club, error) {
	club := &model.Club{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		IconURL:     req.IconURL,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		IsActive:    true,
		CreatedBy:   &createdBy,
	}
	if err := s.clubs.Create(ctx, club); err != nil {
		return nil, err
	}
	return club, nil
}

func (s *clubService) ListActive(ctx context.Context) ([]model.Club, error) {
	return s.clubs.ListActive(ctx)
}
