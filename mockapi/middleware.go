package mockapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apierrors "github.com/kbukum/apiclient/errors"
	"github.com/kbukum/apiclient/logger"
)

const (
	requestIDHeader = "X-Request-Id"
	subjectKey      = "subject"
)

// requestID echoes the caller's X-Request-Id or generates one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// requestLogger logs one line per request.
func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request", logger.Fields(
			logger.FieldMethod, c.Request.Method,
			logger.FieldURL, c.Request.URL.Path,
			logger.FieldStatus, c.Writer.Status(),
			logger.FieldRequestID, c.GetString("request_id"),
			logger.FieldDuration, time.Since(start).Milliseconds(),
		))
	}
}

// bearer rejects requests without a valid, current-generation access token.
func (s *Server) bearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		s.recordAuthorization(header)

		if header == "" {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header required")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization header format")
			return
		}
		claims, err := s.tokens.parse(parts[1])
		if err != nil {
			abort(c, http.StatusUnauthorized, "TOKEN_EXPIRED", "Invalid token")
			return
		}
		c.Set(subjectKey, claims.Subject)
		c.Next()
	}
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, apierrors.Body{Code: code, Message: message})
}
