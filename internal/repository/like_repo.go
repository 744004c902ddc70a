package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository provides data access for the directed like edges.
type LikeRepository interface {
	// Create inserts a new pending like. A duplicate ordered pair surfaces
	// as gorm.ErrDuplicatedKey, which the service reports as "already liked".
	Create(ctx context.Context, like *model.Like) error
	FindPending(ctx context.Context, fromUserID, toUserID uuid.UUID) (*model.Like, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	// UpsertAccepted writes the forward edge as accepted whether or not a
	// pending row already exists for the ordered pair.
	UpsertAccepted(ctx context.Context, fromUserID, toUserID uuid.UUID) error
	DeleteBetween(ctx context.Context, a, b uuid.UUID) error
	ListPendingTo(ctx context.Context, toUserID uuid.UUID) ([]model.Like, error)
	ListLikedUserIDs(ctx context.Context, fromUserID uuid.UUID) ([]uuid.UUID, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository returns a new instance of LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, like *model.Like) error {
	return GetDB(ctx, r.db).Create(like).Error
}

func (r *likeRepository) FindPending(ctx context.Context, fromUserID, toUserID uuid.UUID) (*model.Like, error) {
	var like model.Like
	err := GetDB(ctx, r.db).
		First(&like, "from_user_id = ? AND to_user_id = ? AND status = ?",
			fromUserID, toUserID, model.LikeStatusPending).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *likeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.Like{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *likeRepository) UpsertAccepted(ctx context.Context, fromUserID, toUserID uuid.UUID) error {
	like := model.Like{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     model.LikeStatusAccepted,
	}
	return GetDB(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_user_id"}, {Name: "to_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status"}),
		}).
		Create(&like).Error
}

func (r *likeRepository) DeleteBetween(ctx context.Context, a, b uuid.UUID) error {
	return GetDB(ctx, r.db).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
			a, b, b, a).
		Delete(&model.Like{}).Error
}

func (r *likeRepository) ListPendingTo(ctx context.Context, toUserID uuid.UUID) ([]model.Like, error) {
	var likes []model.Like
	err := GetDB(ctx, r.db).
		Where("to_user_id = ? AND status = ?", toUserID, model.LikeStatusPending).
		Order("created_at DESC").
		Find(&likes).Error
	return likes, err
}

func (r *likeRepository) ListLikedUserIDs(ctx context.Context, fromUserID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := GetDB(ctx, r.db).Model(&model.Like{}).
		Where("from_user_id = ?", fromUserID).
		Distinct().
		Pluck("to_user_id", &ids).Error
	return ids, err
}
