package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ClubHandler struct {
	clubService service.ClubService
	authService service.AuthService
}

func NewClubHandler(clubService service.ClubService, authService service.AuthService) *ClubHandler {
	return &ClubHandler{clubService: clubService, authService: authService}
}

func (h *ClubHandler) RegisterRoutes(router *gin.RouterGroup) {
	clubs := router.Group("/api/clubs", middleware.AuthRequired(h.authService))
	{
		clubs.GET("", h.ListClubs)
		clubs.POST("", middleware.AdminOnly(), h.CreateClub)
	}
}

// ListClubs returns all active clubs
// @Summary      List clubs
// @Tags         clubs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.Club}
// @Failure      401  {object}  response.Response
// @Router       /api/clubs [get]
func (h *ClubHandler) ListClubs(c *gin.Context) {
	clubs, err := h.clubService.ListActive(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, clubs))
}

// CreateClub adds a club entry, admin only
// @Summary      Create club
// @Tags         clubs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateClubRequest  true  "Club Payload"
// @Success      201      {object}  response.Response{data=model.Club}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/clubs [post]
func (h *ClubHandler) CreateClub(c *gin.Context) {
	var req service.CreateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	user := middleware.CurrentUser(c)
	club, err := h.clubService.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, club))
}
