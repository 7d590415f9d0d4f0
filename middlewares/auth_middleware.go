package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wasabi52ngg/restaurant-chain/utils"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextToken  = "token"
)

// AuthMiddleware rejects requests without a valid token.
func AuthMiddleware(tm *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, tm) {
			return
		}
		c.Next()
	}
}

// ReadOnlyOrAuth lets safe methods through anonymously and requires a token
// for writes.
func ReadOnlyOrAuth(tm *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			if c.GetHeader("Authorization") != "" && !authenticate(c, tm) {
				return
			}
		default:
			if !authenticate(c, tm) {
				return
			}
		}
		c.Next()
	}
}

// WebSocketAuthMiddleware reads the token from the query string, since
// browsers cannot set headers on a websocket handshake.
func WebSocketAuthMiddleware(tm *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("token missing"))
			c.Abort()
			return
		}
		claims, err := tm.ParseToken(token)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

func authenticate(c *gin.Context, tm *utils.TokenManager) bool {
	header := c.GetHeader("Authorization")
	if header == "" {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("authentication credentials were not provided"))
		c.Abort()
		return false
	}

	var tokenString string
	switch {
	case strings.HasPrefix(header, "Bearer "):
		tokenString = strings.TrimPrefix(header, "Bearer ")
	case strings.HasPrefix(header, "Token "):
		tokenString = strings.TrimPrefix(header, "Token ")
	default:
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid authorization header format"))
		c.Abort()
		return false
	}

	claims, err := tm.ParseToken(strings.TrimSpace(tokenString))
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		c.Abort()
		return false
	}

	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextToken, strings.TrimSpace(tokenString))
	return true
}
