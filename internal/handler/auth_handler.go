package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/google", h.GoogleLogin)
		auth.POST("/email/send-otp", h.SendOtp)
		auth.POST("/email/resend-otp", h.SendOtp)
		auth.POST("/email/verify-otp", h.VerifyOtp)
		auth.POST("/refresh-token", h.Refresh)
		auth.POST("/logout", middleware.AuthRequired(h.authService), h.Logout)
		auth.POST("/logout-all", middleware.AuthRequired(h.authService), h.LogoutAll)
	}
}

// GoogleLogin exchanges a Google ID token for a session token pair
// @Summary      Login with Google
// @Description  Verifies the Google ID token, creates the user on first login and returns an access/refresh token pair.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.GoogleLoginRequest  true  "Google Login Payload"
// @Success      200      {object}  response.Response{data=service.LoginResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/auth/google [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req service.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.authService.GoogleLogin(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// SendOtp emails a one-time login code
// @Summary      Send login OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SendOtpRequest  true  "Send OTP Payload"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /api/auth/email/send-otp [post]
func (h *AuthHandler) SendOtp(c *gin.Context) {
	var req service.SendOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.authService.SendOtp(c.Request.Context(), req.Email); err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"sent": true}))
}

// VerifyOtp exchanges a one-time code for a session token pair
// @Summary      Verify login OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.VerifyOtpRequest  true  "Verify OTP Payload"
// @Success      200      {object}  response.Response{data=service.LoginResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/auth/email/verify-otp [post]
func (h *AuthHandler) VerifyOtp(c *gin.Context) {
	var req service.VerifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.authService.VerifyOtp(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Refresh rotates the token pair
// @Summary      Refresh token
// @Description  Validates the refresh token against the stored session and rotates both tokens.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RefreshRequest  true  "Refresh Payload"
// @Success      200      {object}  response.Response{data=service.RefreshResponse}
// @Failure      401      {object}  response.Response
// @Router       /api/auth/refresh-token [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req service.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Logout revokes the current session
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.CurrentSession(c)); err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"loggedOut": true}))
}

// LogoutAll revokes every session of the current user
// @Summary      Logout everywhere
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /api/auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.authService.LogoutAll(c.Request.Context(), user.ID); err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"loggedOut": true}))
}
