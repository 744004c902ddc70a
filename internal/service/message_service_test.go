package service_test

import (
	"testing"
	"time"

	"backend/internal/apperr"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordedBroadcast struct {
	MatchID uuid.UUID
	Event   string
}

type fakeBroadcaster struct {
	events []recordedBroadcast
}

func (f *fakeBroadcaster) BroadcastToRoom(matchID uuid.UUID, event string, payload interface{}) {
	f.events = append(f.events, recordedBroadcast{MatchID: matchID, Event: event})
}

func newMessageService(db *gorm.DB, broadcast service.RoomBroadcaster) service.MessageService {
	return service.NewMessageService(
		repository.NewMessageRepository(db),
		repository.NewMatchRepository(db),
		broadcast,
	)
}

func createTestMatch(t *testing.T, db *gorm.DB, a, b uuid.UUID) *model.Match {
	t.Helper()
	u1, u2 := model.CanonicalPair(a, b)
	match := &model.Match{User1ID: u1, User2ID: u2}
	require.NoError(t, db.Create(match).Error)
	return match
}

func TestSendRequiresParticipant(t *testing.T) {
	db := setupTestDB(t)
	svc := newMessageService(db, nil)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	eve := createTestUser(t, db, "eve@example.com")
	match := createTestMatch(t, db, alice.ID, bob.ID)

	_, err := svc.Send(testCtx(), eve.ID, service.SendMessageRequest{MatchID: match.ID, Text: "hi"})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	msg, err := svc.Send(testCtx(), alice.ID, service.SendMessageRequest{MatchID: match.ID, Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, model.MessageStatusSent, msg.Status)
}

func TestDeleteForMeHidesOnlyForRequester(t *testing.T) {
	db := setupTestDB(t)
	svc := newMessageService(db, nil)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	match := createTestMatch(t, db, alice.ID, bob.ID)

	msg, err := svc.Send(testCtx(), alice.ID, service.SendMessageRequest{MatchID: match.ID, Text: "hello"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(testCtx(), msg.ID, bob.ID, service.DeleteScopeMe))
	// idempotent
	require.NoError(t, svc.Delete(testCtx(), msg.ID, bob.ID, service.DeleteScopeMe))

	forBob, err := svc.List(testCtx(), match.ID, bob.ID, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, forBob)

	forAlice, err := svc.List(testCtx(), match.ID, alice.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, forAlice, 1)
	assert.Equal(t, "hello", *forAlice[0].Text)
}

func TestDeleteForEveryoneSenderOnly(t *testing.T) {
	db := setupTestDB(t)
	broadcast := &fakeBroadcaster{}
	svc := newMessageService(db, broadcast)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	match := createTestMatch(t, db, alice.ID, bob.ID)

	msg, err := svc.Send(testCtx(), alice.ID, service.SendMessageRequest{MatchID: match.ID, Text: "oops"})
	require.NoError(t, err)

	err = svc.Delete(testCtx(), msg.ID, bob.ID, service.DeleteScopeEveryone)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	require.NoError(t, svc.Delete(testCtx(), msg.ID, alice.ID, service.DeleteScopeEveryone))

	var stored model.Message
	require.NoError(t, db.First(&stored, "id = ?", msg.ID).Error)
	assert.True(t, stored.DeletedForEveryone)
	assert.Nil(t, stored.Text)

	// gone for both participants
	forBob, err := svc.List(testCtx(), match.ID, bob.ID, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, forBob)

	require.Len(t, broadcast.events, 1)
	assert.Equal(t, "messageDeleted", broadcast.events[0].Event)
	assert.Equal(t, match.ID, broadcast.events[0].MatchID)
}

func TestDeleteForEveryoneTimeLimit(t *testing.T) {
	db := setupTestDB(t)
	svc := newMessageService(db, nil)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	match := createTestMatch(t, db, alice.ID, bob.ID)

	msg, err := svc.Send(testCtx(), alice.ID, service.SendMessageRequest{MatchID: match.ID, Text: "old"})
	require.NoError(t, err)

	// age the message past the window
	stale := time.Now().Add(-2 * time.Hour)
	require.NoError(t, db.Model(&model.Message{}).Where("id = ?", msg.ID).Update("created_at", stale).Error)

	err = svc.Delete(testCtx(), msg.ID, alice.ID, service.DeleteScopeEveryone)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestMarkReadTransitionsOnlyOtherSendersMessages(t *testing.T) {
	db := setupTestDB(t)
	svc := newMessageService(db, nil)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	match := createTestMatch(t, db, alice.ID, bob.ID)

	fromAlice, err := svc.Send(testCtx(), alice.ID, service.SendMessageRequest{MatchID: match.ID, Text: "a"})
	require.NoError(t, err)
	fromBob, err := svc.Send(testCtx(), bob.ID, service.SendMessageRequest{MatchID: match.ID, Text: "b"})
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(testCtx(), match.ID, bob.ID))

	var stored model.Message
	require.NoError(t, db.First(&stored, "id = ?", fromAlice.ID).Error)
	assert.Equal(t, model.MessageStatusRead, stored.Status)

	var storedFromBob model.Message
	require.NoError(t, db.First(&storedFromBob, "id = ?", fromBob.ID).Error)
	assert.Equal(t, model.MessageStatusSent, storedFromBob.Status)
}

func TestMarkDeliveredChecksMatch(t *testing.T) {
	db := setupTestDB(t)
	svc := newMessageService(db, nil)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	match := createTestMatch(t, db, alice.ID, bob.ID)

	msg, err := svc.Send(testCtx(), alice.ID, service.SendMessageRequest{MatchID: match.ID, Text: "a"})
	require.NoError(t, err)

	_, err = svc.MarkDelivered(testCtx(), uuid.New(), msg.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	delivered, err := svc.MarkDelivered(testCtx(), match.ID, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MessageStatusDelivered, delivered.Status)
}
