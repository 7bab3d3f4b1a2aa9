package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeforge/internal/schema"
	"resumeforge/internal/templates"
)

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func Unauthorized(c *gin.Context)           { Error(c, http.StatusUnauthorized, "unauthorized") }
func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, msg) }
func Forbidden(c *gin.Context, msg string)  { Error(c, http.StatusForbidden, msg) }
func NotFound(c *gin.Context, msg string)   { Error(c, http.StatusNotFound, msg) }
func Conflict(c *gin.Context, msg string)   { Error(c, http.StatusConflict, msg) }
func Internal(c *gin.Context, msg string)   { Error(c, http.StatusInternalServerError, msg) }

func TooManyRequests(c *gin.Context, msg string) { Error(c, http.StatusTooManyRequests, msg) }

// templateError 把模板服务的错误映射为 HTTP 响应。
func templateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, templates.ErrNotFound):
		NotFound(c, "template not found")
	case errors.Is(err, templates.ErrForbidden):
		Forbidden(c, "template belongs to another user")
	case errors.Is(err, schema.ErrBuiltinImmutable):
		Forbidden(c, "built-in template is immutable, clone it first")
	case errors.Is(err, templates.ErrInvalid),
		errors.Is(err, schema.ErrUnknownField),
		errors.Is(err, schema.ErrNoRows),
		errors.Is(err, schema.ErrOutOfRange),
		errors.Is(err, schema.ErrInvalidSection):
		BadRequest(c, err.Error())
	default:
		_ = c.Error(err)
		Internal(c, "template operation failed")
	}
}
