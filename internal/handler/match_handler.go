package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matchService service.MatchService
	authService  service.AuthService
}

func NewMatchHandler(matchService service.MatchService, authService service.AuthService) *MatchHandler {
	return &MatchHandler{matchService: matchService, authService: authService}
}

func (h *MatchHandler) RegisterRoutes(router *gin.RouterGroup) {
	matches := router.Group("/api/matches", middleware.AuthRequired(h.authService))
	{
		matches.GET("", h.ListMatches)
		matches.GET("/likes", h.ListReceivedLikes)
		matches.POST("/like", h.Like)
		matches.POST("/unlike", h.Unlike)
	}
}

// Like records a like, creating a match on reciprocity
// @Summary      Like a user
// @Description  Records a pending like. If the target already liked the caller, both likes become accepted and a match is created.
// @Tags         matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.LikeRequest  true  "Like Payload"
// @Success      200      {object}  response.Response{data=service.LikeResult}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/matches/like [post]
func (h *MatchHandler) Like(c *gin.Context) {
	var req service.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	user := middleware.CurrentUser(c)
	result, err := h.matchService.Like(c.Request.Context(), user.ID, req.ToUserID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Unlike withdraws likes and tears down any match with the target
// @Summary      Unlike a user
// @Tags         matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.LikeRequest  true  "Unlike Payload"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /api/matches/unlike [post]
func (h *MatchHandler) Unlike(c *gin.Context) {
	var req service.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.matchService.Unlike(c.Request.Context(), user.ID, req.ToUserID); err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"unliked": true}))
}

// ListMatches returns the caller's matches with partner profiles
// @Summary      List matches
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.MatchSummary}
// @Failure      401  {object}  response.Response
// @Router       /api/matches [get]
func (h *MatchHandler) ListMatches(c *gin.Context) {
	user := middleware.CurrentUser(c)
	matches, err := h.matchService.ListMatches(c.Request.Context(), user.ID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, matches))
}

// ListReceivedLikes returns pending likes aimed at the caller
// @Summary      List received likes
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.ReceivedLike}
// @Failure      401  {object}  response.Response
// @Router       /api/matches/likes [get]
func (h *MatchHandler) ListReceivedLikes(c *gin.Context) {
	user := middleware.CurrentUser(c)
	likes, err := h.matchService.ListReceivedLikes(c.Request.Context(), user.ID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, likes))
}
