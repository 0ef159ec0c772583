package server

import (
	"net/http"
	"time"

	"auction-engine/services/auction/handler"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

// Headers populated by the upstream auth collaborator. The engine trusts
// the identifier as given; token verification happens before requests
// reach this process.
const (
	userIDHeader   = "X-User-ID"
	userRoleHeader = "X-User-Role"
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	})
}

// IdentityMiddleware copies the authenticated participant identity from the
// request headers into the gin context.
func IdentityMiddleware(c *gin.Context) {
	if id := c.GetHeader(userIDHeader); id != "" {
		c.Set(handler.UserIDKey, id)
	}
	if role := c.GetHeader(userRoleHeader); role != "" {
		c.Set(handler.UserRoleKey, role)
	}
	c.Next()
}

// AdminRole may manage auctions and apply KYC decisions.
const AdminRole = "ADMIN"

// RequireRole aborts requests whose participant role is not in the allowed set.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(handler.UserRoleKey)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"status":  http.StatusForbidden,
			"message": "insufficient role",
			"error":   "participant role does not permit this operation",
		})
	}
}

// RequireIdentity aborts requests that carry no participant identity.
func RequireIdentity(c *gin.Context) {
	if c.GetString(handler.UserIDKey) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"status":  http.StatusUnauthorized,
			"message": "authentication required",
			"error":   "missing participant identity",
		})
		return
	}
	c.Next()
}
