// Package websocket carries the real-time side of the app: per-match chat
// rooms, delivery/read acknowledgments and debounced presence tracking.
package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"backend/internal/logger"
	"backend/internal/repository"
	"backend/internal/service"

	"github.com/google/uuid"
)

// Hub maintains the set of active clients, the match-scoped rooms and the
// presence tracker. It satisfies service.RoomBroadcaster.
type Hub struct {
	register   chan *Client
	unregister chan *Client

	mu      sync.Mutex
	clients map[*Client]bool
	rooms   map[uuid.UUID]map[*Client]bool

	presence *Tracker
	matches  repository.MatchRepository
	messages service.MessageService
}

// NewHub initializes the hub and its presence tracker. SetMessageService
// must be called before Run; the message service itself needs the hub as
// its broadcaster, so wiring happens in two steps.
func NewHub(
	matches repository.MatchRepository,
	users repository.UserRepository,
	privacy service.PrivacyService,
) *Hub {
	h := &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		matches:    matches,
	}
	h.presence = NewTracker(users, privacy, h, defaultOfflineDebounce)
	return h
}

// SetMessageService completes the hub/message-service cycle.
func (h *Hub) SetMessageService(messages service.MessageService) {
	h.messages = messages
}

// Run starts the core dispatch loop for connection lifecycle events.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.Debug("socket client connected", "user_id", client.userID)
			h.presence.MarkOnline(context.Background(), client.userID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				for matchID, room := range h.rooms {
					delete(room, client)
					if len(room) == 0 {
						delete(h.rooms, matchID)
					}
				}
				close(client.send)
			}
			h.mu.Unlock()
			logger.Debug("socket client disconnected", "user_id", client.userID)
			h.presence.ScheduleOffline(client.userID)
		}
	}
}

// BroadcastAll sends an event to every connected client.
func (h *Hub) BroadcastAll(event string, payload interface{}) {
	frame, err := encodeEvent(event, payload)
	if err != nil {
		logger.Error("failed to encode socket event", "event", event, "error", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.enqueue(frame)
	}
}

// BroadcastToRoom sends an event to every client joined to the match room.
func (h *Hub) BroadcastToRoom(matchID uuid.UUID, event string, payload interface{}) {
	h.broadcastRoom(matchID, nil, event, payload)
}

func (h *Hub) broadcastRoom(matchID uuid.UUID, exclude *Client, event string, payload interface{}) {
	frame, err := encodeEvent(event, payload)
	if err != nil {
		logger.Error("failed to encode socket event", "event", event, "error", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.rooms[matchID] {
		if client == exclude {
			continue
		}
		client.enqueue(frame)
	}
}

// joinRoom admits the client into the match room only if they are a
// participant; anything else is ignored without a reply.
func (h *Hub) joinRoom(ctx context.Context, client *Client, matchID uuid.UUID) {
	match, err := h.matches.GetByID(ctx, matchID)
	if err != nil || !match.HasParticipant(client.userID) {
		logger.Debug("ignoring room join", "match_id", matchID, "user_id", client.userID)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[matchID]
	if room == nil {
		room = make(map[*Client]bool)
		h.rooms[matchID] = room
	}
	room[client] = true
}

// handleEvent dispatches one inbound frame. Errors are logged and swallowed;
// a bad frame must never tear down the connection.
func (h *Hub) handleEvent(client *Client, env Envelope) {
	ctx := context.Background()

	switch env.Event {
	case EventOnline:
		h.presence.MarkOnline(ctx, client.userID)

	case EventOffline:
		h.presence.ExplicitOffline(ctx, client.userID)

	case EventJoinRoom:
		var p JoinRoomPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return
		}
		h.joinRoom(ctx, client, p.MatchID)

	case EventSendMessage:
		var p SendMessagePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return
		}
		message, err := h.messages.MarkDelivered(ctx, p.MatchID, p.MessageID)
		if err != nil {
			logger.Warn("delivery ack failed", "message_id", p.MessageID, "error", err)
			return
		}
		h.BroadcastToRoom(p.MatchID, EventNewMessage, message)

	case EventMarkAsRead:
		var p MarkAsReadPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return
		}
		if err := h.messages.MarkRead(ctx, p.MatchID, client.userID); err != nil {
			logger.Warn("read ack failed", "match_id", p.MatchID, "error", err)
			return
		}
		h.BroadcastToRoom(p.MatchID, EventMessagesRead, map[string]interface{}{
			"matchId":  p.MatchID,
			"readerId": client.userID,
		})

	case EventTyping, EventStopTyping:
		var p TypingPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return
		}
		h.broadcastRoom(p.MatchID, client, env.Event, map[string]interface{}{
			"matchId": p.MatchID,
			"userId":  client.userID,
		})

	default:
		logger.Debug("unknown socket event", "event", env.Event)
	}
}
