package middlewares

import (
	"errors"

	"github.com/gin-gonic/gin"
)

var (
	errTooManyRequests = errors.New("too many requests")
	errTooManyAttempts = errors.New("too many attempts, please wait a moment")
)

func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")

		c.Next()
	}
}
