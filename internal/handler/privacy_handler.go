package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PrivacyHandler struct {
	privacyService service.PrivacyService
	authService    service.AuthService
}

func NewPrivacyHandler(privacyService service.PrivacyService, authService service.AuthService) *PrivacyHandler {
	return &PrivacyHandler{privacyService: privacyService, authService: authService}
}

func (h *PrivacyHandler) RegisterRoutes(router *gin.RouterGroup) {
	privacy := router.Group("/api/privacy", middleware.AuthRequired(h.authService))
	{
		privacy.PUT("", h.UpdatePrivacy)
		privacy.GET("/:userId", h.GetOnlineStatusVisibility)
	}
}

// UpdatePrivacy partially updates the caller's privacy settings
// @Summary      Update privacy settings
// @Tags         privacy
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.UpdatePrivacyRequest  true  "Privacy Payload"
// @Success      200      {object}  response.Response{data=model.PrivacySettings}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/privacy [put]
func (h *PrivacyHandler) UpdatePrivacy(c *gin.Context) {
	var req service.UpdatePrivacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	user := middleware.CurrentUser(c)
	settings, err := h.privacyService.Update(c.Request.Context(), user.ID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, settings))
}

// GetOnlineStatusVisibility reports whether a user broadcasts presence
// @Summary      Get online-status visibility
// @Tags         privacy
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  response.Response{data=service.OnlineStatusVisibility}
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Router       /api/privacy/{userId} [get]
func (h *PrivacyHandler) GetOnlineStatusVisibility(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid user id"))
		return
	}

	visible, err := h.privacyService.OnlineStatusVisible(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, service.OnlineStatusVisibility{ShowOnlineStatus: visible}))
}
