package service

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sort"

	"backend/internal/apperr"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// bound on profiles pulled from the DB before sampling
	feedCandidatePool = 500
	// size of the random sample returned to the client
	feedSampleSize = 20
)

// FeedProfile is a candidate enriched with photos and distance in meters.
type FeedProfile struct {
	ProfileView
	DistanceMeters float64       `json:"distance"`
	Photos         []model.Photo `json:"photos"`
}

// FeedService implements the discovery feed: geo-proximity candidates
// filtered by reciprocal gender preference and the exclusion set.
type FeedService interface {
	GetFeed(ctx context.Context, userID uuid.UUID) ([]FeedProfile, error)
}

type feedService struct {
	profiles repository.ProfileRepository
	likes    repository.LikeRepository
	matches  repository.MatchRepository
	photos   repository.PhotoRepository
}

// NewFeedService returns a new instance of FeedService
func NewFeedService(
	profiles repository.ProfileRepository,
	likes repository.LikeRepository,
	matches repository.MatchRepository,
	photos repository.PhotoRepository,
) FeedService {
	return &feedService{
		profiles: profiles,
		likes:    likes,
		matches:  matches,
		photos:   photos,
	}
}

func (s *feedService) GetFeed(ctx context.Context, userID uuid.UUID) ([]FeedProfile, error) {
	me, err := s.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Validation("complete your profile first")
	}
	if err != nil {
		return nil, err
	}
	if !me.HasLocation {
		return nil, apperr.Validation("location not set in profile")
	}

	genders := allowedGenders(me.InterestedIn)
	if len(genders) == 0 {
		return nil, apperr.Validation("invalid gender preference")
	}

	liked, err := s.likes.ListLikedUserIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	matched, err := s.matches.ListMatchedUserIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	excluded := make([]uuid.UUID, 0, 1+len(liked)+len(matched))
	excluded = append(excluded, userID)
	excluded = append(excluded, liked...)
	excluded = append(excluded, matched...)

	candidates, err := s.profiles.FindCandidates(ctx, genders, excluded, feedCandidatePool)
	if err != nil {
		return nil, err
	}

	// nearest-first ordering, then a bounded random sample so the same top
	// results do not surface on every request
	sort.Slice(candidates, func(i, j int) bool {
		return haversineMeters(me.Latitude, me.Longitude, candidates[i].Latitude, candidates[i].Longitude) <
			haversineMeters(me.Latitude, me.Longitude, candidates[j].Latitude, candidates[j].Longitude)
	})
	sample := sampleProfiles(candidates, feedSampleSize)

	feed := make([]FeedProfile, 0, len(sample))
	for i := range sample {
		p := &sample[i]
		photos, err := s.photos.ListByUser(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		feed = append(feed, FeedProfile{
			ProfileView:    toProfileView(p),
			DistanceMeters: haversineMeters(me.Latitude, me.Longitude, p.Latitude, p.Longitude),
			Photos:         photos,
		})
	}

	sort.Slice(feed, func(i, j int) bool {
		return feed[i].DistanceMeters < feed[j].DistanceMeters
	})
	return feed, nil
}

// allowedGenders maps the stated preference to the gender set it admits.
func allowedGenders(interestedIn string) []string {
	switch interestedIn {
	case "women":
		return []string{"female"}
	case "men":
		return []string{"male"}
	case "everyone":
		return []string{"male", "female", "other"}
	}
	return nil
}

func sampleProfiles(candidates []model.Profile, n int) []model.Profile {
	if len(candidates) <= n {
		return candidates
	}
	idx := rand.Perm(len(candidates))[:n]
	sample := make([]model.Profile, 0, n)
	for _, i := range idx {
		sample = append(sample, candidates[i])
	}
	return sample
}

const earthRadiusMeters = 6371000

// haversineMeters returns the great-circle distance between two points.
func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
