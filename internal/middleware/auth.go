package middleware

import (
	"net/http"
	"strings"

	"backend/internal/apperr"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// Context keys populated by AuthRequired.
const (
	ContextUserKey      = "authUser"
	ContextSessionKey   = "authSession"
	ContextVipActiveKey = "vipActive"
)

// AuthRequired validates the bearer access token, loads the user and session
// and refreshes session activity. Handlers downstream read the context keys.
func AuthRequired(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid authorization format. Expected 'Bearer <token>'"))
			return
		}

		authCtx, err := auth.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			status, message := apperr.HTTPStatus(err)
			c.AbortWithStatusJSON(status, response.Error(status, message))
			return
		}

		c.Set(ContextUserKey, authCtx.User)
		c.Set(ContextSessionKey, authCtx.Session)
		c.Set(ContextVipActiveKey, authCtx.VipActive)
		c.Next()
	}
}

// AdminOnly must run after AuthRequired.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil outside AuthRequired.
func CurrentUser(c *gin.Context) *model.User {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := value.(*model.User)
	return user
}

// CurrentSession returns the authenticated session, or nil outside AuthRequired.
func CurrentSession(c *gin.Context) *model.Session {
	value, ok := c.Get(ContextSessionKey)
	if !ok {
		return nil
	}
	session, _ := value.(*model.Session)
	return session
}

// VipActive reports whether the authenticated user's VIP entitlement is live.
func VipActive(c *gin.Context) bool {
	value, ok := c.Get(ContextVipActiveKey)
	if !ok {
		return false
	}
	active, _ := value.(bool)
	return active
}
