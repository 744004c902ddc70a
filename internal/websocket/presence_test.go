package websocket_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testDebounce = 25 * time.Millisecond

type recordedEvent struct {
	Event  string
	UserID uuid.UUID
}

// recorder collects broadcasts; timers fire on their own goroutines so the
// mutex matters.
type recorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recorder) BroadcastAll(event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var userID uuid.UUID
	if m, ok := payload.(map[string]interface{}); ok {
		if id, ok := m["userId"].(uuid.UUID); ok {
			userID = id
		}
	}
	r.events = append(r.events, recordedEvent{Event: event, UserID: userID})
}

func (r *recorder) snapshot() []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedEvent(nil), r.events...)
}

func setupPresence(t *testing.T) (*websocket.Tracker, *recorder, *gorm.DB, uuid.UUID) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.PrivacySettings{}))

	user := &model.User{Email: "alice@example.com", Role: "user"}
	require.NoError(t, db.Create(user).Error)

	users := repository.NewUserRepository(db)
	privacy := service.NewPrivacyService(repository.NewPrivacyRepository(db))
	rec := &recorder{}
	tracker := websocket.NewTracker(users, privacy, rec, testDebounce)
	return tracker, rec, db, user.ID
}

func TestOnlineBroadcastsAndPersists(t *testing.T) {
	tracker, rec, db, userID := setupPresence(t)

	tracker.MarkOnline(context.Background(), userID)

	events := rec.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, websocket.EventUserOnline, events[0].Event)
	assert.Equal(t, userID, events[0].UserID)

	var user model.User
	require.NoError(t, db.First(&user, "id = ?", userID).Error)
	assert.True(t, user.IsOnline)
}

func TestReconnectWithinDebounceSuppressesOffline(t *testing.T) {
	tracker, rec, _, userID := setupPresence(t)
	ctx := context.Background()

	tracker.MarkOnline(ctx, userID)
	tracker.ScheduleOffline(userID)
	tracker.MarkOnline(ctx, userID) // before the debounce window elapses

	time.Sleep(4 * testDebounce)

	for _, event := range rec.snapshot() {
		assert.NotEqual(t, websocket.EventUserOffline, event.Event)
	}
	assert.True(t, tracker.Online(userID))
}

func TestOfflineFiresAfterDebounce(t *testing.T) {
	tracker, rec, db, userID := setupPresence(t)
	ctx := context.Background()

	tracker.MarkOnline(ctx, userID)
	tracker.ScheduleOffline(userID)

	time.Sleep(4 * testDebounce)

	events := rec.snapshot()
	require.Len(t, events, 2)
	assert.Equal(t, websocket.EventUserOffline, events[1].Event)

	var user model.User
	require.NoError(t, db.First(&user, "id = ?", userID).Error)
	assert.False(t, user.IsOnline)
	assert.False(t, tracker.Online(userID))
}

func TestSecondConnectionKeepsUserOnline(t *testing.T) {
	tracker, rec, _, userID := setupPresence(t)
	ctx := context.Background()

	tracker.MarkOnline(ctx, userID)
	tracker.MarkOnline(ctx, userID) // second tab
	tracker.ScheduleOffline(userID) // first tab closes

	time.Sleep(4 * testDebounce)

	for _, event := range rec.snapshot() {
		assert.NotEqual(t, websocket.EventUserOffline, event.Event)
	}
	assert.True(t, tracker.Online(userID))
}

func TestHiddenStatusSuppressesPresenceBroadcasts(t *testing.T) {
	tracker, rec, db, userID := setupPresence(t)
	ctx := context.Background()

	settings := &model.PrivacySettings{
		UserID:             userID,
		ShowProfile:        true,
		ShowOnlineStatus:   false,
		LocationPermission: true,
	}
	require.NoError(t, db.Create(settings).Error)

	tracker.MarkOnline(ctx, userID)
	tracker.ScheduleOffline(userID)
	time.Sleep(4 * testDebounce)

	assert.Empty(t, rec.snapshot())
}

func TestExplicitOfflineBroadcastsUnconditionally(t *testing.T) {
	tracker, rec, db, userID := setupPresence(t)
	ctx := context.Background()

	// hidden status gates the debounced path, not an explicit logout
	settings := &model.PrivacySettings{UserID: userID, ShowOnlineStatus: false}
	require.NoError(t, db.Create(settings).Error)

	tracker.MarkOnline(ctx, userID)
	tracker.ExplicitOffline(ctx, userID)

	events := rec.snapshot()
	require.NotEmpty(t, events)
	assert.Equal(t, websocket.EventUserOffline, events[len(events)-1].Event)
	assert.False(t, tracker.Online(userID))
}
