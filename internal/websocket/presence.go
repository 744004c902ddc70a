package websocket

import (
	"context"
	"sync"
	"time"

	"backend/internal/logger"
	"backend/internal/repository"
	"backend/internal/service"

	"github.com/google/uuid"
)

// How long a dropped connection may linger before the user is considered
// offline. Absorbs page-reload and reconnect flicker.
const defaultOfflineDebounce = time.Second

// presenceBroadcaster is what the tracker needs from the hub.
type presenceBroadcaster interface {
	BroadcastAll(event string, payload interface{})
}

// Tracker owns the process-local presence state: per-user connection counts
// and the single-slot offline debounce timers. All mutations go through the
// mutex; timers fire on their own goroutines.
type Tracker struct {
	users     repository.UserRepository
	privacy   service.PrivacyService
	broadcast presenceBroadcaster
	debounce  time.Duration

	mu     sync.Mutex
	conns  map[uuid.UUID]int
	timers map[uuid.UUID]*time.Timer
}

// NewTracker returns a new presence Tracker.
func NewTracker(
	users repository.UserRepository,
	privacy service.PrivacyService,
	broadcast presenceBroadcaster,
	debounce time.Duration,
) *Tracker {
	return &Tracker{
		users:     users,
		privacy:   privacy,
		broadcast: broadcast,
		debounce:  debounce,
		conns:     make(map[uuid.UUID]int),
		timers:    make(map[uuid.UUID]*time.Timer),
	}
}

// MarkOnline records a connection for the user. Any pending offline timer is
// cancelled before anything else so a stale offline transition cannot fire
// after the reconnect.
func (t *Tracker) MarkOnline(ctx context.Context, userID uuid.UUID) {
	t.mu.Lock()
	t.cancelPendingOfflineLocked(userID)
	t.conns[userID]++
	first := t.conns[userID] == 1
	t.mu.Unlock()

	if err := t.users.SetPresence(ctx, userID, true, time.Now()); err != nil {
		logger.Warn("failed to persist presence", "user_id", userID, "error", err)
	}
	if first {
		t.broadcastPresence(ctx, userID, EventUserOnline)
	}
}

// ScheduleOffline is the transport-level disconnect path. The offline
// transition is deferred by the debounce window; a reconnect in the meantime
// cancels it.
func (t *Tracker) ScheduleOffline(userID uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conns[userID] > 1 {
		t.conns[userID]--
		return
	}
	delete(t.conns, userID)

	t.cancelPendingOfflineLocked(userID)
	t.timers[userID] = time.AfterFunc(t.debounce, func() {
		t.fireOffline(userID)
	})
}

// ExplicitOffline is the logout path: immediate, no debounce, and the
// offline broadcast is not privacy-gated.
func (t *Tracker) ExplicitOffline(ctx context.Context, userID uuid.UUID) {
	t.mu.Lock()
	t.cancelPendingOfflineLocked(userID)
	delete(t.conns, userID)
	t.mu.Unlock()

	lastSeen := time.Now()
	if err := t.users.SetPresence(ctx, userID, false, lastSeen); err != nil {
		logger.Warn("failed to persist presence", "user_id", userID, "error", err)
	}
	t.broadcast.BroadcastAll(EventUserOffline, map[string]interface{}{
		"userId":   userID,
		"lastSeen": lastSeen,
	})
}

// Online reports whether the user currently has at least one connection.
func (t *Tracker) Online(userID uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conns[userID] > 0
}

func (t *Tracker) cancelPendingOfflineLocked(userID uuid.UUID) {
	if timer, ok := t.timers[userID]; ok {
		timer.Stop()
		delete(t.timers, userID)
	}
}

func (t *Tracker) fireOffline(userID uuid.UUID) {
	t.mu.Lock()
	delete(t.timers, userID)
	if t.conns[userID] > 0 {
		// reconnected between the timer firing and acquiring the lock
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	ctx := context.Background()
	if err := t.users.SetPresence(ctx, userID, false, time.Now()); err != nil {
		logger.Warn("failed to persist presence", "user_id", userID, "error", err)
	}
	t.broadcastPresence(ctx, userID, EventUserOffline)
}

// broadcastPresence emits the transition unless the user hides their online
// status.
func (t *Tracker) broadcastPresence(ctx context.Context, userID uuid.UUID, event string) {
	visible, err := t.privacy.OnlineStatusVisible(ctx, userID)
	if err != nil {
		logger.Warn("failed to load privacy settings", "user_id", userID, "error", err)
		return
	}
	if !visible {
		return
	}
	payload := map[string]interface{}{"userId": userID}
	if event == EventUserOffline {
		payload["lastSeen"] = time.Now()
	}
	t.broadcast.BroadcastAll(event, payload)
}
