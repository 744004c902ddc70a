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

// "Delete for everyone" is only allowed this long after creation.
const deleteForEveryoneWindow = time.Hour

type SendMessageRequest struct {
	MatchID uuid.UUID `json:"matchId" binding:"required"`
	Text    string    `json:"text" binding:"required,min=1,max=1000"`
}

// Delete scopes.
const (
	DeleteScopeMe       = "me"
	DeleteScopeEveryone = "everyone"
)

// RoomBroadcaster pushes an event to every connection joined to a match
// room. Implemented by the websocket hub; failures are fire-and-forget.
type RoomBroadcaster interface {
	BroadcastToRoom(matchID uuid.UUID, event string, payload interface{})
}

// MessageService implements the message lifecycle: create, visibility-aware
// listing and the two deletion scopes.
type MessageService interface {
	Send(ctx context.Context, senderID uuid.UUID, req SendMessageRequest) (*model.Message, error)
	List(ctx context.Context, matchID, requesterID uuid.UUID, limit, offset int) ([]model.Message, error)
	MarkRead(ctx context.Context, matchID, readerID uuid.UUID) error
	MarkDelivered(ctx context.Context, matchID, messageID uuid.UUID) (*model.Message, error)
	Delete(ctx context.Context, messageID, requesterID uuid.UUID, scope string) error
}

type messageService struct {
	messages  repository.MessageRepository
	matches   repository.MatchRepository
	broadcast RoomBroadcaster
}

// NewMessageService returns a new instance of MessageService.
// broadcast may be nil in tests.
func NewMessageService(
	messages repository.MessageRepository,
	matches repository.MatchRepository,
	broadcast RoomBroadcaster,
) MessageService {
	return &messageService{
		messages:  messages,
		matches:   matches,
		broadcast: broadcast,
	}
}

// requireParticipant loads the match and checks membership.
func (s *messageService) requireParticipant(ctx context.Context, matchID, userID uuid.UUID) (*model.Match, error) {
	match, err := s.matches.GetByID(ctx, matchID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("match not found")
	}
	if err != nil {
		return nil, err
	}
	if !match.HasParticipant(userID) {
		return nil, apperr.Forbidden("not part of this match")
	}
	return match, nil
}

func (s *messageService) Send(ctx context.Context, senderID uuid.UUID, req SendMessageRequest) (*model.Message, error) {
	if _, err := s.requireParticipant(ctx, req.MatchID, senderID); err != nil {
		return nil, err
	}

	text := req.Text
	message := &model.Message{
		MatchID:  req.MatchID,
		SenderID: senderID,
		Text:     &text,
		Status:   model.MessageStatusSent,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *messageService) List(ctx context.Context, matchID, requesterID uuid.UUID, limit, offset int) ([]model.Message, error) {
	if _, err := s.requireParticipant(ctx, matchID, requesterID); err != nil {
		return nil, err
	}
	return s.messages.ListVisible(ctx, matchID, requesterID, limit, offset)
}

func (s *messageService) MarkRead(ctx context.Context, matchID, readerID uuid.UUID) error {
	if _, err := s.requireParticipant(ctx, matchID, readerID); err != nil {
		return err
	}
	return s.messages.MarkAllRead(ctx, matchID, readerID)
}

// MarkDelivered is the socket delivery-acknowledgment path: sent ->
// delivered, layered on top of the REST creation path.
func (s *messageService) MarkDelivered(ctx context.Context, matchID, messageID uuid.UUID) (*model.Message, error) {
	message, err := s.messages.GetByID(ctx, messageID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("message not found")
	}
	if err != nil {
		return nil, err
	}
	if message.MatchID != matchID {
		return nil, apperr.NotFound("message not found")
	}
	return s.messages.MarkDelivered(ctx, messageID)
}

func (s *messageService) Delete(ctx context.Context, messageID, requesterID uuid.UUID, scope string) error {
	message, err := s.messages.GetByID(ctx, messageID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("message not found")
	}
	if err != nil {
		return err
	}

	switch scope {
	case DeleteScopeMe:
		if _, err := s.requireParticipant(ctx, message.MatchID, requesterID); err != nil {
			return err
		}
		return s.messages.HideForUser(ctx, message.ID, requesterID)

	case DeleteScopeEveryone:
		if message.SenderID != requesterID {
			return apperr.Forbidden("only the sender can delete for everyone")
		}
		if time.Since(message.CreatedAt) > deleteForEveryoneWindow {
			return apperr.Validation("time limit exceeded")
		}
		if err := s.messages.DeleteForEveryone(ctx, message.ID); err != nil {
			return err
		}
		if s.broadcast != nil {
			s.broadcast.BroadcastToRoom(message.MatchID, "messageDeleted", map[string]interface{}{
				"messageId": message.ID,
				"matchId":   message.MatchID,
			})
		}
		return nil

	default:
		return apperr.Validation("scope must be 'me' or 'everyone'")
	}
}
