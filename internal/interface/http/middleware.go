package http

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/mood-engine/internal/domain/mood"
	"github.com/yanqian/mood-engine/internal/infra/config"
)

// errorHandlingMiddleware renders the last handler error as
// {"error":{"code","message"}} and logs the cause with its failure kind.
func errorHandlingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		httpErr := asHTTPError(c.Errors.Last().Err)
		attrs := []any{"code", httpErr.Code, "status", httpErr.Status, "method", c.Request.Method, "path", c.Request.URL.Path}
		if kind := mood.KindOf(httpErr.Err); kind != mood.KindNone {
			attrs = append(attrs, "kind", kind)
		}
		if httpErr.Err != nil {
			attrs = append(attrs, "error", httpErr.Err)
		}
		level := slog.LevelWarn
		if httpErr.Status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed", attrs...)

		c.JSON(httpErr.Status, gin.H{
			"error": gin.H{
				"code":    httpErr.Code,
				"message": httpErr.Message,
			},
		})
	}
}

func rateLimitMiddleware(cfg config.RateLimitConfig, logger *slog.Logger) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := newIPRateLimiter(cfg, time.Now)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		wait, ok := limiter.allow(ip)
		if ok {
			c.Next()
			return
		}
		logger.Warn("rate limit exceeded", "ip", ip, "path", c.Request.URL.Path, "retry_after", wait)
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		abortWithError(c, NewHTTPError(http.StatusTooManyRequests, "rate_limit_exceeded", "too many requests", nil))
	}
}

// ipRateLimiter is a per-client token bucket refilled at RequestsPerMinute.
type ipRateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	perSecond float64
	burst     float64
	idle      time.Duration
	now       func() time.Time
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

func newIPRateLimiter(cfg config.RateLimitConfig, now func() time.Time) *ipRateLimiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &ipRateLimiter{
		buckets:   make(map[string]*bucket),
		perSecond: float64(cfg.RequestsPerMinute) / 60,
		burst:     float64(burst),
		idle:      5 * time.Minute,
		now:       now,
	}
}

// allow takes a token for ip. When none is left it reports how long until
// the next one is available.
func (l *ipRateLimiter) allow(ip string) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{tokens: l.burst, lastSeen: now}
		l.buckets[ip] = b
	} else if elapsed := now.Sub(b.lastSeen).Seconds(); elapsed > 0 {
		b.tokens = math.Min(l.burst, b.tokens+elapsed*l.perSecond)
		b.lastSeen = now
	}
	l.evictIdleLocked(now)

	if b.tokens < 1 {
		missing := 1 - b.tokens
		return time.Duration(missing / l.perSecond * float64(time.Second)), false
	}
	b.tokens--
	return 0, true
}

func (l *ipRateLimiter) evictIdleLocked(now time.Time) {
	for ip, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.idle {
			delete(l.buckets, ip)
		}
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "client_ip", c.ClientIP(), "latency_ms", latency.Milliseconds())
	}
}
