package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIDHeader 由网关在完成鉴权后注入，服务本身不做身份认证。
const UserIDHeader = "X-User-ID"

const (
	userIDKey    = "userID"
	maxUserIDLen = 64
)

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

// IdentityMiddleware 读取网关注入的用户 ID 并写入上下文。
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if id == "" || len(id) > maxUserIDLen || id == "system" {
			abortUnauthorized(c)
			return
		}

		c.Set(userIDKey, id)
		c.Next()
	}
}

// GetUserID 返回当前请求的用户 ID。
func GetUserID(c *gin.Context) (string, bool) {
	value, ok := c.Get(userIDKey)
	if !ok {
		return "", false
	}
	id, ok := value.(string)
	return id, ok && id != ""
}
