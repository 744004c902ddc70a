package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DeleteMessageRequest struct {
	Scope string `json:"scope" binding:"required,oneof=me everyone"`
}

type MessageHandler struct {
	messageService service.MessageService
	authService    service.AuthService
}

func NewMessageHandler(messageService service.MessageService, authService service.AuthService) *MessageHandler {
	return &MessageHandler{messageService: messageService, authService: authService}
}

func (h *MessageHandler) RegisterRoutes(router *gin.RouterGroup) {
	messages := router.Group("/api/messages", middleware.AuthRequired(h.authService))
	{
		messages.POST("", h.SendMessage)
		messages.GET("/:matchId", h.ListMessages)
		messages.PUT("/:matchId/read", h.MarkRead)
		messages.DELETE("/:id", h.DeleteMessage)
	}
}

// SendMessage creates a chat message in a match
// @Summary      Send message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.SendMessageRequest  true  "Message Payload"
// @Success      201      {object}  response.Response{data=model.Message}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/messages [post]
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req service.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	user := middleware.CurrentUser(c)
	message, err := h.messageService.Send(c.Request.Context(), user.ID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, message))
}

// ListMessages returns the visible messages of a match in creation order
// @Summary      List messages
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        matchId  path      string  true   "Match ID"
// @Param        limit    query     int     false  "Page size"
// @Param        offset   query     int     false  "Page offset"
// @Success      200      {object}  response.Response{data=[]model.Message}
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/messages/{matchId} [get]
func (h *MessageHandler) ListMessages(c *gin.Context) {
	matchID, err := uuid.Parse(c.Param("matchId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid match id"))
		return
	}
	page := pagination.Parse(c)

	user := middleware.CurrentUser(c)
	messages, err := h.messageService.List(c.Request.Context(), matchID, user.ID, page.Limit, page.Offset)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, messages))
}

// MarkRead marks every message from the other participant as read
// @Summary      Mark messages read
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        matchId  path      string  true  "Match ID"
// @Success      200      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/messages/{matchId}/read [put]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	matchID, err := uuid.Parse(c.Param("matchId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid match id"))
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.messageService.MarkRead(c.Request.Context(), matchID, user.ID); err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"read": true}))
}

// DeleteMessage deletes a message for the caller or for everyone
// @Summary      Delete message
// @Description  Scope "me" hides the message for the caller only. Scope "everyone" is sender-only, allowed within one hour of creation, and clears the text for both participants.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Message ID"
// @Param        payload  body      handler.DeleteMessageRequest  true  "Delete Payload"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/messages/{id} [delete]
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid message id"))
		return
	}

	var req DeleteMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.messageService.Delete(c.Request.Context(), messageID, user.ID, req.Scope); err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
