package service_test

import (
	"testing"

	"backend/internal/apperr"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFeedService(db *gorm.DB) service.FeedService {
	return service.NewFeedService(
		repository.NewProfileRepository(db),
		repository.NewLikeRepository(db),
		repository.NewMatchRepository(db),
		repository.NewPhotoRepository(db),
	)
}

func feedUserIDs(feed []service.FeedProfile) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(feed))
	for _, p := range feed {
		ids = append(ids, p.UserID)
	}
	return ids
}

func TestFeedRequiresProfileAndLocation(t *testing.T) {
	db := setupTestDB(t)
	svc := newFeedService(db)
	alice := createTestUser(t, db, "alice@example.com")

	_, err := svc.GetFeed(testCtx(), alice.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	profile := createTestProfile(t, db, alice.ID, "female", "men", 52.52, 13.40)
	require.NoError(t, db.Model(&model.Profile{}).Where("id = ?", profile.ID).Update("has_location", false).Error)

	_, err = svc.GetFeed(testCtx(), alice.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestFeedFiltersByGenderPreference(t *testing.T) {
	db := setupTestDB(t)
	svc := newFeedService(db)

	alice := createTestUser(t, db, "alice@example.com")
	createTestProfile(t, db, alice.ID, "female", "men", 52.52, 13.40)

	bob := createTestUser(t, db, "bob@example.com")
	createTestProfile(t, db, bob.ID, "male", "women", 52.53, 13.41)

	carol := createTestUser(t, db, "carol@example.com")
	createTestProfile(t, db, carol.ID, "female", "everyone", 52.54, 13.42)

	feed, err := svc.GetFeed(testCtx(), alice.ID)
	require.NoError(t, err)
	ids := feedUserIDs(feed)
	assert.Contains(t, ids, bob.ID)
	assert.NotContains(t, ids, carol.ID)
	assert.NotContains(t, ids, alice.ID)
}

func TestFeedExcludesLikedAndMatched(t *testing.T) {
	db := setupTestDB(t)
	feedSvc := newFeedService(db)
	matchSvc := newMatchService(db)

	alice := createTestUser(t, db, "alice@example.com")
	createTestProfile(t, db, alice.ID, "female", "men", 52.52, 13.40)

	liked := createTestUser(t, db, "liked@example.com")
	createTestProfile(t, db, liked.ID, "male", "women", 52.53, 13.41)

	matched := createTestUser(t, db, "matched@example.com")
	createTestProfile(t, db, matched.ID, "male", "women", 52.54, 13.42)

	fresh := createTestUser(t, db, "fresh@example.com")
	createTestProfile(t, db, fresh.ID, "male", "women", 52.55, 13.43)

	_, err := matchSvc.Like(testCtx(), alice.ID, liked.ID)
	require.NoError(t, err)
	_, err = matchSvc.Like(testCtx(), alice.ID, matched.ID)
	require.NoError(t, err)
	result, err := matchSvc.Like(testCtx(), matched.ID, alice.ID)
	require.NoError(t, err)
	require.True(t, result.Matched)

	feed, err := feedSvc.GetFeed(testCtx(), alice.ID)
	require.NoError(t, err)
	ids := feedUserIDs(feed)
	assert.Equal(t, []uuid.UUID{fresh.ID}, ids)
}

func TestFeedOrdersByDistance(t *testing.T) {
	db := setupTestDB(t)
	svc := newFeedService(db)

	alice := createTestUser(t, db, "alice@example.com")
	createTestProfile(t, db, alice.ID, "female", "men", 52.52, 13.40)

	near := createTestUser(t, db, "near@example.com")
	createTestProfile(t, db, near.ID, "male", "women", 52.53, 13.41)

	far := createTestUser(t, db, "far@example.com")
	createTestProfile(t, db, far.ID, "male", "women", 48.13, 11.58) // Munich

	feed, err := svc.GetFeed(testCtx(), alice.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, near.ID, feed[0].UserID)
	assert.Equal(t, far.ID, feed[1].UserID)
	assert.Less(t, feed[0].DistanceMeters, feed[1].DistanceMeters)
}
