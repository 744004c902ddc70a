package response

import (
	"github.com/gin-gonic/gin"

	"backend/internal/apperr"
)

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error returns a standard error response wrapping the message
func Error(statusCode int, message string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Message:    message,
	}
}

// Fail classifies err via the apperr taxonomy and writes the uniform
// error envelope. Stack traces never reach the client.
func Fail(c *gin.Context, err error) {
	status, msg := apperr.HTTPStatus(err)
	c.JSON(status, Error(status, msg))
}
