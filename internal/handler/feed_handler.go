package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedService service.FeedService
	authService service.AuthService
}

func NewFeedHandler(feedService service.FeedService, authService service.AuthService) *FeedHandler {
	return &FeedHandler{feedService: feedService, authService: authService}
}

func (h *FeedHandler) RegisterRoutes(router *gin.RouterGroup) {
	feed := router.Group("/api/feed", middleware.AuthRequired(h.authService))
	{
		feed.GET("", h.GetFeed)
	}
}

// GetFeed returns discovery candidates near the caller
// @Summary      Get discovery feed
// @Description  Returns a distance-ordered random sample of nearby candidates matching the caller's gender preference, excluding already liked or matched users.
// @Tags         feed
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.FeedProfile}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /api/feed [get]
func (h *FeedHandler) GetFeed(c *gin.Context) {
	user := middleware.CurrentUser(c)
	feed, err := h.feedService.GetFeed(c.Request.Context(), user.ID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, feed))
}
