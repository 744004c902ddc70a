package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MatchRepository provides data access for canonical match rows.
type MatchRepository interface {
	// UpsertCanonical creates the match row for the canonical pair if it does
	// not exist and returns the current row either way.
	UpsertCanonical(ctx context.Context, user1ID, user2ID uuid.UUID) (*model.Match, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Match, error)
	DeleteByPair(ctx context.Context, user1ID, user2ID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Match, error)
	ListMatchedUserIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type matchRepository struct {
	db *gorm.DB
}

// NewMatchRepository returns a new instance of MatchRepository
func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) UpsertCanonical(ctx context.Context, user1ID, user2ID uuid.UUID) (*model.Match, error) {
	match := model.Match{User1ID: user1ID, User2ID: user2ID}
	err := GetDB(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user1_id"}, {Name: "user2_id"}},
			DoNothing: true,
		}).
		Create(&match).Error
	if err != nil {
		return nil, err
	}

	// re-read so the caller gets the surviving row on conflict
	var current model.Match
	if err := GetDB(ctx, r.db).
		First(&current, "user1_id = ? AND user2_id = ?", user1ID, user2ID).Error; err != nil {
		return nil, err
	}
	return &current, nil
}

func (r *matchRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Match, error) {
	var match model.Match
	if err := GetDB(ctx, r.db).First(&match, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) DeleteByPair(ctx context.Context, user1ID, user2ID uuid.UUID) error {
	return GetDB(ctx, r.db).
		Where("user1_id = ? AND user2_id = ?", user1ID, user2ID).
		Delete(&model.Match{}).Error
}

func (r *matchRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Match, error) {
	var matches []model.Match
	err := GetDB(ctx, r.db).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&matches).Error
	return matches, err
}

func (r *matchRepository) ListMatchedUserIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	matches, err := r.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		if m.User1ID == userID {
			ids = append(ids, m.User2ID)
		} else {
			ids = append(ids, m.User1ID)
		}
	}
	return ids, nil
}
