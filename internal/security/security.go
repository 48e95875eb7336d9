// Package security carries the HTTP hardening middleware: response headers
// and a per-request timeout so a stuck hosting-API call cannot pin a
// handler forever.
package security

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Config controls the security middleware.
type Config struct {
	RequestTimeout time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{RequestTimeout: 30 * time.Second}
}

// Headers sets standard security response headers.
func Headers() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// RequestTimeout bounds each request's context.
func RequestTimeout(config Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), config.RequestTimeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
