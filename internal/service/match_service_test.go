package service_test

import (
	"testing"

	"backend/internal/apperr"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMatchService(db *gorm.DB) service.MatchService {
	return service.NewMatchService(
		repository.NewLikeRepository(db),
		repository.NewMatchRepository(db),
		repository.NewProfileRepository(db),
		repository.NewPhotoRepository(db),
		repository.NewTransactionManager(db),
	)
}

func TestLikeCreatesPendingThenMatch(t *testing.T) {
	db := setupTestDB(t)
	svc := newMatchService(db)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	result, err := svc.Like(testCtx(), alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, result.Matched)

	result, err = svc.Like(testCtx(), bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, result.Matched)
	require.NotNil(t, result.Match)

	// exactly one match row, canonically ordered
	var matches []model.Match
	require.NoError(t, db.Find(&matches).Error)
	require.Len(t, matches, 1)
	u1, u2 := model.CanonicalPair(alice.ID, bob.ID)
	assert.Equal(t, u1, matches[0].User1ID)
	assert.Equal(t, u2, matches[0].User2ID)

	// both likes accepted
	var likes []model.Like
	require.NoError(t, db.Find(&likes).Error)
	require.Len(t, likes, 2)
	for _, like := range likes {
		assert.Equal(t, model.LikeStatusAccepted, like.Status)
	}
}

func TestLikeDuplicateIsConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := newMatchService(db)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	_, err := svc.Like(testCtx(), alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = svc.Like(testCtx(), alice.ID, bob.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestLikeSelfRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := newMatchService(db)
	alice := createTestUser(t, db, "alice@example.com")

	_, err := svc.Like(testCtx(), alice.ID, alice.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestUnlikeTearsDownMatchAndAllowsFreshLike(t *testing.T) {
	db := setupTestDB(t)
	svc := newMatchService(db)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	_, err := svc.Like(testCtx(), alice.ID, bob.ID)
	require.NoError(t, err)
	result, err := svc.Like(testCtx(), bob.ID, alice.ID)
	require.NoError(t, err)
	require.True(t, result.Matched)

	require.NoError(t, svc.Unlike(testCtx(), alice.ID, bob.ID))

	var matchCount, likeCount int64
	require.NoError(t, db.Model(&model.Match{}).Count(&matchCount).Error)
	require.NoError(t, db.Model(&model.Like{}).Count(&likeCount).Error)
	assert.Zero(t, matchCount)
	assert.Zero(t, likeCount)

	// the pair can start over
	result, err = svc.Like(testCtx(), bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, result.Matched)
}

func TestListMatchesSkipsMissingProfiles(t *testing.T) {
	db := setupTestDB(t)
	svc := newMatchService(db)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	carol := createTestUser(t, db, "carol@example.com")
	createTestProfile(t, db, bob.ID, "male", "everyone", 52.52, 13.40)
	// carol never completed a profile

	for _, other := range []*model.User{bob, carol} {
		_, err := svc.Like(testCtx(), alice.ID, other.ID)
		require.NoError(t, err)
		_, err = svc.Like(testCtx(), other.ID, alice.ID)
		require.NoError(t, err)
	}

	matches, err := svc.ListMatches(testCtx(), alice.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, bob.ID, matches[0].Profile.UserID)
}
