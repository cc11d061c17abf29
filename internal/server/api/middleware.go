package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/mindcare/internal/common"
	"github.com/dmitrijs2005/mindcare/internal/logging"
	"github.com/dmitrijs2005/mindcare/internal/server/observability"
	"github.com/dmitrijs2005/mindcare/internal/server/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey = "mindcare_request_id"
	userIDKey    = "mindcare_user_id"
)

// RequestID propagates the caller's X-Request-ID or assigns a new one and
// echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(common.RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one line per request.
func AccessLog(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		}
		if uid, ok := c.Get(userIDKey); ok {
			args = append(args, "user_id", uid)
		}
		if len(c.Errors) > 0 {
			args = append(args, "errors", c.Errors.String())
		}
		l.Info(c.Request.Context(), "http request", args...)
	}
}

// Observe records request counts and latencies by route template.
func Observe(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// Authenticate requires "Authorization: Bearer <access token>".
func Authenticate(a AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeader)
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, common.BearerScheme) || strings.TrimSpace(token) == "" {
			abortWithError(c, common.ErrorUnauthorized)
			return
		}

		uid, err := a.UserIDFromAccessToken(strings.TrimSpace(token))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Set(userIDKey, uid)
		c.Next()
	}
}

func userID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}

func clientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

func userKey(c *gin.Context) string {
	return strconv.FormatInt(userID(c), 10)
}

// RateLimit rejects requests once the caller's bucket is empty. A nil
// limiter lets everything through.
func RateLimit(l *ratelimit.Keyed, scope string, m *observability.Metrics, key func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}
		if !l.Allow(scope + ":" + key(c)) {
			m.RateLimited(scope)
			abortWithError(c, common.ErrorRateLimited)
			return
		}
		c.Next()
	}
}
