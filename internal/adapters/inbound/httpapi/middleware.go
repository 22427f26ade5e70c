package httpapi

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

const requestIDHeader = "X-Request-ID"

// requestID tags every request with an ID, reusing the caller's one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := zapcore.InfoLevel
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = zapcore.ErrorLevel
		}
		logger.Log(level, "request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Accept", "Content-Type", "Origin", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "Content-Disposition", requestIDHeader, paymentURIHeader},
		MaxAge:        12 * time.Hour,
	}
	return cors.New(cfg)
}

// clientLimiter rate-limits requests per client IP.
type clientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &clientLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(rps),
		burst:    burst,
		ttl:      10 * time.Minute,
		now:      time.Now,
	}
}

func (l *clientLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if e, ok := l.limiters[key]; ok {
		e.lastSeen = now
		return e.limiter
	}
	// Sweep stale clients while the lock is held anyway.
	for k, e := range l.limiters {
		if now.Sub(e.lastSeen) > l.ttl {
			delete(l.limiters, k)
		}
	}
	lim := rate.NewLimiter(l.rate, l.burst)
	l.limiters[key] = &limiterEntry{limiter: lim, lastSeen: now}
	return lim
}

func (l *clientLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lim := l.get(c.ClientIP())
		if !lim.Allow() {
			c.Header("X-RateLimit-Limit", strconv.Itoa(l.burst))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(l.burst))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(int(lim.Tokens())))
		c.Next()
	}
}
