package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageRepository provides data access for chat messages and their
// per-user deletion marks.
type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Message, error)
	// ListVisible returns the match's messages in creation order, excluding
	// any deleted for everyone and any hidden for the requester.
	ListVisible(ctx context.Context, matchID, requesterID uuid.UUID, limit, offset int) ([]model.Message, error)
	MarkDelivered(ctx context.Context, id uuid.UUID) (*model.Message, error)
	// MarkAllRead transitions to read every message in the match not sent by
	// readerID and not already read.
	MarkAllRead(ctx context.Context, matchID, readerID uuid.UUID) error
	// HideForUser idempotently records a "delete for me" mark.
	HideForUser(ctx context.Context, messageID, userID uuid.UUID) error
	// DeleteForEveryone sets the global flag and nulls content and reactions.
	DeleteForEveryone(ctx context.Context, id uuid.UUID) error
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository returns a new instance of MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	return GetDB(ctx, r.db).Create(message).Error
}

func (r *messageRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	var message model.Message
	if err := GetDB(ctx, r.db).First(&message, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) ListVisible(ctx context.Context, matchID, requesterID uuid.UUID, limit, offset int) ([]model.Message, error) {
	var messages []model.Message
	err := GetDB(ctx, r.db).
		Where("match_id = ? AND deleted_for_everyone = ?", matchID, false).
		Where(`NOT EXISTS (
			SELECT 1 FROM message_deletions md
			WHERE md.message_id = messages.id AND md.user_id = ?
		)`, requesterID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) MarkDelivered(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	db := GetDB(ctx, r.db)
	err := db.Model(&model.Message{}).
		Where("id = ? AND status = ?", id, model.MessageStatusSent).
		Update("status", model.MessageStatusDelivered).Error
	if err != nil {
		return nil, err
	}
	var message model.Message
	if err := db.First(&message, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) MarkAllRead(ctx context.Context, matchID, readerID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Message{}).
		Where("match_id = ? AND sender_id <> ? AND status <> ?",
			matchID, readerID, model.MessageStatusRead).
		Update("status", model.MessageStatusRead).Error
}

func (r *messageRepository) HideForUser(ctx context.Context, messageID, userID uuid.UUID) error {
	deletion := model.MessageDeletion{MessageID: messageID, UserID: userID}
	return GetDB(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&deletion).Error
}

func (r *messageRepository) DeleteForEveryone(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted_for_everyone": true,
			"text":                 nil,
			"reactions":            nil,
		}).Error
}
