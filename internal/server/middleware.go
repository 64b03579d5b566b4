// internal/server/middleware.go

package server

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const accountIDKey = "accountId"

// authMiddleware 驗證 Bearer token，並將帳號放入 context。
func authMiddleware(tokens *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondWithMessage(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondWithMessage(c, http.StatusUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		id, err := tokens.Parse(parts[1])
		if err != nil {
			respondWithMessage(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(accountIDKey, id)
		c.Next()
	}
}

// accountID 取出 authMiddleware 放入的帳號。
func accountID(c *gin.Context) (string, bool) {
	v, ok := c.Get(accountIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// loggingMiddleware 每個請求記錄一行：方法、路徑、狀態碼與耗時。
func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("[http] %s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
