package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"backend/internal/apperr"
	"backend/internal/logger"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MaxPhotosPerUser = 6
	MaxPhotoBytes    = 5 * 1024 * 1024
)

// DTOs for Request validation
type UpsertProfileRequest struct {
	Name         string  `json:"name" binding:"required,min=2"`
	Age          int     `json:"age" binding:"required,gte=18,lte=100"`
	Gender       string  `json:"gender" binding:"required,oneof=male female other"`
	InterestedIn string  `json:"interestedIn" binding:"required,oneof=men women everyone"`
	About        string  `json:"about" binding:"omitempty,max=500"`
	City         string  `json:"city" binding:"required,min=2"`
	Latitude     float64 `json:"latitude" binding:"required"`
	Longitude    float64 `json:"longitude" binding:"required"`

	// Club ids or club names, both accepted
	FavoriteClubs []string `json:"favoriteClubs"`

	DrinkingLevel     string `json:"drinkingLevel" binding:"omitempty,oneof=little moderate heavy"`
	SplitBill         bool   `json:"splitBill"`
	OpenForAfterparty bool   `json:"openForAfterparty"`

	TonightClubID      string `json:"tonightClubId"`
	TonightArrivalTime string `json:"tonightArrivalTime"`
}

type PhotoOrderItem struct {
	ID    uuid.UUID `json:"id" binding:"required"`
	Order int       `json:"order" binding:"required,gte=1,lte=6"`
}

type ReorderPhotosRequest struct {
	Photos []PhotoOrderItem `json:"photos" binding:"required"`
}

// PhotoUpload is one buffered file from the multipart request.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProfileView is the client-facing profile with management fields stripped.
type ProfileView struct {
	UserID            uuid.UUID `json:"user_id"`
	Name              string    `json:"name"`
	Age               int       `json:"age"`
	Gender            string    `json:"gender"`
	InterestedIn      string    `json:"interested_in"`
	About             string    `json:"about,omitempty"`
	City              string    `json:"city"`
	Longitude         float64   `json:"longitude"`
	Latitude          float64   `json:"latitude"`
	FavoriteClubs     []string  `json:"favorite_clubs"`
	DrinkingLevel     string    `json:"drinking_level"`
	SplitBill         bool      `json:"split_bill"`
	OpenForAfterparty bool      `json:"open_for_afterparty"`
}

type MyProfileResponse struct {
	IsRegistered bool          `json:"isRegistered"`
	Profile      ProfileView   `json:"profile"`
	Photos       []model.Photo `json:"photos"`
}

func toProfileView(p *model.Profile) ProfileView {
	clubNames := make([]string, 0, len(p.FavoriteClubs))
	for _, c := range p.FavoriteClubs {
		clubNames = append(clubNames, c.Name)
	}
	return ProfileView{
		UserID:            p.UserID,
		Name:              p.Name,
		Age:               p.Age,
		Gender:            p.Gender,
		InterestedIn:      p.InterestedIn,
		About:             p.About,
		City:              p.City,
		Longitude:         p.Longitude,
		Latitude:          p.Latitude,
		FavoriteClubs:     clubNames,
		DrinkingLevel:     p.DrinkingLevel,
		SplitBill:         p.SplitBill,
		OpenForAfterparty: p.OpenForAfterparty,
	}
}

// ProfileService implements profile upsert and the photo pipeline.
type ProfileService interface {
	Upsert(ctx context.Context, userID uuid.UUID, req UpsertProfileRequest) (*ProfileView, error)
	GetMyProfile(ctx context.Context, user *model.User) (*MyProfileResponse, error)
	UploadPhotos(ctx context.Context, userID uuid.UUID, uploads []PhotoUpload) ([]model.Photo, error)
	ReorderPhotos(ctx context.Context, userID uuid.UUID, req ReorderPhotosRequest) error
	DeletePhoto(ctx context.Context, userID, photoID uuid.UUID) error
}

type profileService struct {
	profiles repository.ProfileRepository
	photos   repository.PhotoRepository
	users    repository.UserRepository
	clubs    repository.ClubRepository
	plans    repository.TonightPlanRepository
	uploader storage.Uploader
}

// NewProfileService returns a new instance of ProfileService
func NewProfileService(
	profiles repository.ProfileRepository,
	photos repository.PhotoRepository,
	users repository.UserRepository,
	clubs repository.ClubRepository,
	plans repository.TonightPlanRepository,
	uploader storage.Uploader,
) ProfileService {
	return &profileService{
		profiles: profiles,
		photos:   photos,
		users:    users,
		clubs:    clubs,
		plans:    plans,
		uploader: uploader,
	}
}

func (s *profileService) Upsert(ctx context.Context, userID uuid.UUID, req UpsertProfileRequest) (*ProfileView, error) {
	clubs, err := s.resolveClubs(ctx, req.FavoriteClubs)
	if err != nil {
		return nil, err
	}

	drinking := req.DrinkingLevel
	if drinking == "" {
		drinking = "little"
	}

	profile := &model.Profile{
		UserID:            userID,
		Name:              req.Name,
		Age:               req.Age,
		Gender:            req.Gender,
		InterestedIn:      req.InterestedIn,
		About:             req.About,
		City:              req.City,
		Longitude:         req.Longitude,
		Latitude:          req.Latitude,
		HasLocation:       true,
		DrinkingLevel:     drinking,
		SplitBill:         req.SplitBill,
		OpenForAfterparty: req.OpenForAfterparty,
	}

	saved, err := s.profiles.Upsert(ctx, profile, clubs)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetRegistered(ctx, userID); err != nil {
		return nil, err
	}

	// optional tonight-plan piggyback from the registration flow
	if req.TonightClubID != "" && req.TonightArrivalTime != "" {
		clubID, err := uuid.Parse(req.TonightClubID)
		if err != nil {
			return nil, apperr.Validation("invalid tonight club id")
		}
		today := truncateToDay(time.Now())
		if _, err := s.plans.Upsert(ctx, &model.TonightPlan{
			UserID:      userID,
			ClubID:      clubID,
			ArrivalTime: req.TonightArrivalTime,
			Date:        today,
		}); err != nil {
			return nil, err
		}
	}

	view := toProfileView(saved)
	return &view, nil
}

// resolveClubs accepts club ids or club names; unknown entries are dropped.
func (s *profileService) resolveClubs(ctx context.Context, refs []string) ([]model.Club, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	if _, err := uuid.Parse(refs[0]); err == nil {
		ids := make([]uuid.UUID, 0, len(refs))
		for _, ref := range refs {
			id, err := uuid.Parse(ref)
			if err != nil {
				return nil, apperr.Validation("invalid club id: " + ref)
			}
			ids = append(ids, id)
		}
		return s.clubs.FindByIDs(ctx, ids)
	}

	return s.clubs.FindByNames(ctx, refs)
}

func (s *profileService) GetMyProfile(ctx context.Context, user *model.User) (*MyProfileResponse, error) {
	profile, err := s.profiles.GetByUserID(ctx, user.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("profile not found")
	}
	if err != nil {
		return nil, err
	}

	photos, err := s.photos.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &MyProfileResponse{
		IsRegistered: user.IsRegistered,
		Profile:      toProfileView(profile),
		Photos:       photos,
	}, nil
}

// UploadPhotos runs the two-phase pipeline: upload all blobs first, then
// persist ordered rows. If a row insert fails the orphaned remote blob is
// deleted best-effort.
func (s *profileService) UploadPhotos(ctx context.Context, userID uuid.UUID, uploads []PhotoUpload) ([]model.Photo, error) {
	if len(uploads) == 0 {
		return nil, apperr.Validation("no photos uploaded")
	}

	count, err := s.photos.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count+int64(len(uploads)) > MaxPhotosPerUser {
		return nil, apperr.Validation("photo limit exceeded")
	}

	for _, u := range uploads {
		if len(u.Data) > MaxPhotoBytes {
			return nil, apperr.Validation("photo exceeds size limit")
		}
		if !strings.HasPrefix(u.ContentType, "image/") {
			return nil, apperr.Validation("only image files allowed")
		}
	}

	startOrder, err := s.photos.MaxOrder(ctx, userID)
	if err != nil {
		return nil, err
	}

	results := make([]*storage.UploadResult, 0, len(uploads))
	for _, u := range uploads {
		res, err := s.uploader.Upload(ctx, u.Data, u.Filename)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	photos := make([]model.Photo, 0, len(results))
	for i, res := range results {
		photo := model.Photo{
			UserID:   userID,
			URL:      res.URL,
			PublicID: res.PublicID,
			Order:    startOrder + i + 1,
		}
		if err := s.photos.Create(ctx, &photo); err != nil {
			for _, orphan := range results[i:] {
				if delErr := s.uploader.Delete(ctx, orphan.PublicID); delErr != nil {
					logger.Warn("orphaned photo blob not cleaned up",
						"public_id", orphan.PublicID, "err", delErr)
				}
			}
			return nil, err
		}
		photos = append(photos, photo)
	}

	return photos, nil
}

func (s *profileService) ReorderPhotos(ctx context.Context, userID uuid.UUID, req ReorderPhotosRequest) error {
	for _, item := range req.Photos {
		if err := s.photos.UpdateOrder(ctx, item.ID, userID, item.Order); err != nil {
			return err
		}
	}
	return nil
}

func (s *profileService) DeletePhoto(ctx context.Context, userID, photoID uuid.UUID) error {
	photo, err := s.photos.GetByIDAndUser(ctx, photoID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("photo not found")
	}
	if err != nil {
		return err
	}

	if err := s.uploader.Delete(ctx, photo.PublicID); err != nil {
		return err
	}
	if err := s.photos.Delete(ctx, photo.ID); err != nil {
		return err
	}
	return s.photos.Renumber(ctx, userID)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
