package service

import (
	"context"
	"errors"

	"backend/internal/apperr"
	"backend/internal/logger"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LikeRequest struct {
	ToUserID uuid.UUID `json:"toUserId" binding:"required"`
}

type LikeResult struct {
	Matched bool         `json:"matched"`
	Message string       `json:"message"`
	Match   *model.Match `json:"match,omitempty"`
}

// MatchSummary is a match enriched with the other participant's profile.
type MatchSummary struct {
	MatchID uuid.UUID     `json:"match_id"`
	Profile ProfileView   `json:"profile"`
	Photos  []model.Photo `json:"photos"`
}

// ReceivedLike is a pending like enriched with the liker's profile.
type ReceivedLike struct {
	FromUserID uuid.UUID   `json:"from_user_id"`
	Profile    ProfileView `json:"profile"`
}

// MatchService implements the like/match state machine. For each ordered
// pair: no edge -> pending -> accepted when the reverse direction agrees.
type MatchService interface {
	Like(ctx context.Context, fromUserID, toUserID uuid.UUID) (*LikeResult, error)
	Unlike(ctx context.Context, fromUserID, toUserID uuid.UUID) error
	ListMatches(ctx context.Context, userID uuid.UUID) ([]MatchSummary, error)
	ListReceivedLikes(ctx context.Context, userID uuid.UUID) ([]ReceivedLike, error)
}

type matchService struct {
	likes    repository.LikeRepository
	matches  repository.MatchRepository
	profiles repository.ProfileRepository
	photos   repository.PhotoRepository
	tx       repository.TransactionManager
}

// NewMatchService returns a new instance of MatchService
func NewMatchService(
	likes repository.LikeRepository,
	matches repository.MatchRepository,
	profiles repository.ProfileRepository,
	photos repository.PhotoRepository,
	tx repository.TransactionManager,
) MatchService {
	return &matchService{
		likes:    likes,
		matches:  matches,
		profiles: profiles,
		photos:   photos,
		tx:       tx,
	}
}

func (s *matchService) Like(ctx context.Context, fromUserID, toUserID uuid.UUID) (*LikeResult, error) {
	if fromUserID == toUserID {
		return nil, apperr.Validation("cannot like yourself")
	}

	reverse, err := s.likes.FindPending(ctx, toUserID, fromUserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Mutual interest: accept both directions and derive the match. The
	// three writes run in one transaction so a crash cannot strand an
	// accepted like without its match row.
	if reverse != nil {
		var match *model.Match
		err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			if err := s.likes.UpdateStatus(txCtx, reverse.ID, model.LikeStatusAccepted); err != nil {
				return err
			}
			if err := s.likes.UpsertAccepted(txCtx, fromUserID, toUserID); err != nil {
				return err
			}
			a, b := model.CanonicalPair(fromUserID, toUserID)
			m, err := s.matches.UpsertCanonical(txCtx, a, b)
			if err != nil {
				return err
			}
			match = m
			return nil
		})
		if err != nil {
			return nil, err
		}

		logger.Info("match created", "match_id", match.ID,
			"user1", match.User1ID, "user2", match.User2ID)

		return &LikeResult{Matched: true, Message: "Match created", Match: match}, nil
	}

	like := &model.Like{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     model.LikeStatusPending,
	}
	if err := s.likes.Create(ctx, like); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("already liked")
		}
		return nil, err
	}

	return &LikeResult{Matched: false, Message: "Request sent"}, nil
}

// Unlike tears down both like directions and the canonical match row.
// A later like starts over from pending.
func (s *matchService) Unlike(ctx context.Context, fromUserID, toUserID uuid.UUID) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.likes.DeleteBetween(txCtx, fromUserID, toUserID); err != nil {
			return err
		}
		a, b := model.CanonicalPair(fromUserID, toUserID)
		return s.matches.DeleteByPair(txCtx, a, b)
	})
}

func (s *matchService) ListMatches(ctx context.Context, userID uuid.UUID) ([]MatchSummary, error) {
	matches, err := s.matches.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]MatchSummary, 0, len(matches))
	for _, m := range matches {
		otherID := m.User1ID
		if otherID == userID {
			otherID = m.User2ID
		}

		profile, err := s.profiles.GetByUserID(ctx, otherID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue // unfinished profiles are skipped, not an error
		}
		if err != nil {
			return nil, err
		}

		photos, err := s.photos.ListByUser(ctx, otherID)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, MatchSummary{
			MatchID: m.ID,
			Profile: toProfileView(profile),
			Photos:  photos,
		})
	}
	return summaries, nil
}

func (s *matchService) ListReceivedLikes(ctx context.Context, userID uuid.UUID) ([]ReceivedLike, error) {
	likes, err := s.likes.ListPendingTo(ctx, userID)
	if err != nil {
		return nil, err
	}

	received := make([]ReceivedLike, 0, len(likes))
	for _, l := range likes {
		profile, err := s.profiles.GetByUserID(ctx, l.FromUserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		received = append(received, ReceivedLike{
			FromUserID: l.FromUserID,
			Profile:    toProfileView(profile),
		})
	}
	return received, nil
}
