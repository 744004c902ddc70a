package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClubRepository provides data access for venue entries.
type ClubRepository interface {
	Create(ctx context.Context, club *model.Club) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Club, error)
	ListActive(ctx context.Context) ([]model.Club, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Club, error)
	FindByNames(ctx context.Context, names []string) ([]model.Club, error)
}

type clubRepository struct {
	db *gorm.DB
}

// NewClubRepository returns a new instance of ClubRepository
func NewClubRepository(db *gorm.DB) ClubRepository {
	return &clubRepository{db: db}
}

func (r *clubRepository) Create(ctx context.Context, club *model.Club) error {
	return GetDB(ctx, r.db).Create(club).Error
}

func (r *clubRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Club, error) {
	var club model.Club
	if err := GetDB(ctx, r.db).First(&club, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &club, nil
}

func (r *clubRepository) ListActive(ctx context.Context) ([]model.Club, error) {
	var clubs []model.Club
	err := GetDB(ctx, r.db).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&clubs).Error
	return clubs, err
}

func (r *clubRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Club, error) {
	var clubs []model.Club
	if len(ids) == 0 {
		return clubs, nil
	}
	err := GetDB(ctx, r.db).Where("id IN ?", ids).Find(&clubs).Error
	return clubs, err
}

func (r *clubRepository) FindByNames(ctx context.Context, names []string) ([]model.Club, error) {
	var clubs []model.Club
	if len(names) == 0 {
		return clubs, nil
	}
	err := GetDB(ctx, r.db).Where("name IN ?", names).Find(&clubs).Error
	return clubs, err
}
