package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PhotoRepository provides data access for ordered profile photos.
type PhotoRepository interface {
	Create(ctx context.Context, photo *model.Photo) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Photo, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	MaxOrder(ctx context.Context, userID uuid.UUID) (int, error)
	GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*model.Photo, error)
	UpdateOrder(ctx context.Context, id, userID uuid.UUID, order int) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Renumber rewrites orders to 1..n in current order after a deletion.
	Renumber(ctx context.Context, userID uuid.UUID) error
}

type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository returns a new instance of PhotoRepository
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Create(ctx context.Context, photo *model.Photo) error {
	return GetDB(ctx, r.db).Create(photo).Error
}

func (r *photoRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Photo, error) {
	var photos []model.Photo
	err := GetDB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("photo_order ASC").
		Find(&photos).Error
	return photos, err
}

func (r *photoRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Photo{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *photoRepository) MaxOrder(ctx context.Context, userID uuid.UUID) (int, error) {
	var max int
	err := GetDB(ctx, r.db).Model(&model.Photo{}).
		Where("user_id = ?", userID).
		Select("COALESCE(MAX(photo_order), 0)").
		Scan(&max).Error
	return max, err
}

func (r *photoRepository) GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*model.Photo, error) {
	var photo model.Photo
	err := GetDB(ctx, r.db).
		First(&photo, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *photoRepository) UpdateOrder(ctx context.Context, id, userID uuid.UUID, order int) error {
	return GetDB(ctx, r.db).Model(&model.Photo{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("photo_order", order).Error
}

func (r *photoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Photo{}).Error
}

func (r *photoRepository) Renumber(ctx context.Context, userID uuid.UUID) error {
	photos, err := r.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	db := GetDB(ctx, r.db)
	for i, p := range photos {
		if p.Order == i+1 {
			continue
		}
		if err := db.Model(&model.Photo{}).
			Where("id = ?", p.ID).
			Update("photo_order", i+1).Error; err != nil {
			return err
		}
	}
	return nil
}
