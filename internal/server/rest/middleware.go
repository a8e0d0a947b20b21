package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/artistkatta/jobservice/internal/common"
	"github.com/artistkatta/jobservice/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}

func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		s.logger.Error(c.Request.Context(), "panic while serving request", "panic", rec, "path", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": common.ErrInternal.Error()})
	})
}

// authenticate requires a valid bearer token when a secret key is
// configured and stores the token's user id in the context.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(s.jwtSecret) == 0 {
			c.Next()
			return
		}

		header := c.GetHeader(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			s.fail(c, common.ErrUnauthorized)
			return
		}

		userID, err := auth.GetUserIDFromToken(strings.TrimSpace(token), s.jwtSecret)
		if err != nil {
			s.fail(c, err)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// authorizedFor reports whether the caller may act on userID. Without auth
// configured everyone may.
func (s *Server) authorizedFor(c *gin.Context, userID string) bool {
	if len(s.jwtSecret) == 0 {
		return true
	}
	return c.GetString(userIDKey) == userID
}

func (s *Server) limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

// uploadBodyLimit allows for base64 growth plus the JSON envelope.
func uploadBodyLimit(maxBytes int64) int64 {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return maxBytes/3*4 + 8 + 64<<10
}
