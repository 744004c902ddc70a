package websocket

import (
	"encoding/json"
	"net/http"

	"backend/internal/logger"
	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for dev simplicity
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client represents a single connected socket for one authenticated user.
// A user may hold several clients (multiple tabs or devices).
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID uuid.UUID
}

// enqueue drops the frame if the client's buffer is full rather than block
// the broadcaster. Caller holds the hub lock.
func (c *Client) enqueue(frame []byte) {
	select {
	case c.send <- frame:
	default:
		logger.Warn("dropping socket frame, client buffer full", "user_id", c.userID)
	}
}

// writePump drains the send channel onto the connection.
func (c *Client) writePump() {
	defer func() {
		_ = c.conn.Close()
	}()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump decodes inbound frames and hands them to the hub until the
// connection drops.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("socket read error", "user_id", c.userID, "error", err)
			}
			break
		}
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			logger.Debug("malformed socket frame", "user_id", c.userID)
			continue
		}
		c.hub.handleEvent(c, env)
	}
}

// ServeWs upgrades the request after authenticating the access token passed
// as the token query parameter.
func ServeWs(hub *Hub, auth service.AuthService, c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	authCtx, err := auth.Authenticate(c.Request.Context(), tokenString)
	if err != nil {
		logger.Debug("socket connection rejected", "error", err)
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("socket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: authCtx.User.ID,
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}
