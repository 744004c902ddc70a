package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type TonightPlanHandler struct {
	planService service.TonightPlanService
	authService service.AuthService
}

func NewTonightPlanHandler(planService service.TonightPlanService, authService service.AuthService) *TonightPlanHandler {
	return &TonightPlanHandler{planService: planService, authService: authService}
}

func (h *TonightPlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	plan := router.Group("/api/plan", middleware.AuthRequired(h.authService))
	{
		plan.GET("", h.GetPlan)
		plan.PUT("", h.UpsertPlan)
		plan.DELETE("", h.CancelPlan)
	}
}

// GetPlan returns the caller's plan for tonight, if any
// @Summary      Get tonight plan
// @Tags         plan
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.TonightPlan}
// @Failure      401  {object}  response.Response
// @Router       /api/plan [get]
func (h *TonightPlanHandler) GetPlan(c *gin.Context) {
	user := middleware.CurrentUser(c)
	plan, err := h.planService.Get(c.Request.Context(), user.ID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, plan))
}

// UpsertPlan replaces the caller's plan for tonight
// @Summary      Set tonight plan
// @Tags         plan
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.UpsertTonightPlanRequest  true  "Plan Payload"
// @Success      200      {object}  response.Response{data=model.TonightPlan}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/plan [put]
func (h *TonightPlanHandler) UpsertPlan(c *gin.Context) {
	var req service.UpsertTonightPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	user := middleware.CurrentUser(c)
	plan, err := h.planService.Upsert(c.Request.Context(), user.ID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, plan))
}

// CancelPlan removes the caller's plan for tonight
// @Summary      Cancel tonight plan
// @Tags         plan
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /api/plan [delete]
func (h *TonightPlanHandler) CancelPlan(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.planService.Cancel(c.Request.Context(), user.ID); err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"cancelled": true}))
}
