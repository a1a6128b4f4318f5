package api

import (
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/identity"
	"github.com/Domenick1991/travelbooking/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const principalKey = "principal"

// Authenticate requires a valid bearer token and stores the caller on the
// context.
func Authenticate(verifier identity.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing or invalid Authorization header"})
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing or invalid Authorization header"})
			return
		}

		principal, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// AdminOnly must run after Authenticate.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !principalFrom(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "admin access required"})
			return
		}
		c.Next()
	}
}

func principalFrom(c *gin.Context) *identity.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(*identity.Principal); ok {
			return p
		}
	}
	return nil
}

func RequestLogger(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = logger.Error()
		case status >= http.StatusBadRequest:
			event = logger.Warn()
		}
		if len(c.Errors) > 0 {
			event = event.Str("error", c.Errors.String())
		}
		event.
			Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// rateLimiter keeps one token bucket per client IP. Buckets idle for longer
// than idleTTL are dropped on the next sweep.
type rateLimiter struct {
	limiters sync.Map
	cfg      config.RateLimitConfig
	idleTTL  time.Duration
	now      func() time.Time

	mu        sync.Mutex
	lastSweep time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

const limiterIdleTTL = 10 * time.Minute

func newRateLimiter(cfg config.RateLimitConfig) *rateLimiter {
	return &rateLimiter{cfg: cfg, idleTTL: limiterIdleTTL, now: time.Now, lastSweep: time.Now()}
}

func (l *rateLimiter) getLimiter(key string) *rate.Limiter {
	now := l.now()
	l.sweep(now)

	if v, ok := l.limiters.Load(key); ok {
		entry := v.(*clientLimiter)
		entry.lastSeen.Store(now.UnixNano())
		return entry.limiter
	}

	burst := l.cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	entry := &clientLimiter{limiter: rate.NewLimiter(rate.Limit(l.cfg.RPS), burst)}
	entry.lastSeen.Store(now.UnixNano())
	actual, _ := l.limiters.LoadOrStore(key, entry)
	return actual.(*clientLimiter).limiter
}

// sweep runs at most once per idleTTL.
func (l *rateLimiter) sweep(now time.Time) {
	l.mu.Lock()
	if now.Sub(l.lastSweep) < l.idleTTL {
		l.mu.Unlock()
		return
	}
	l.lastSweep = now
	l.mu.Unlock()

	cutoff := now.Add(-l.idleTTL).UnixNano()
	l.limiters.Range(func(key, v any) bool {
		if v.(*clientLimiter).lastSeen.Load() < cutoff {
			l.limiters.Delete(key)
		}
		return true
	})
}

func (l *rateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.getLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "too many requests"})
			return
		}
		c.Next()
	}
}

// OptionalAuthenticate sets the caller when a valid bearer token is present
// and lets anonymous requests through.
func OptionalAuthenticate(verifier identity.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if token != "" {
			if principal, err := verifier.Verify(c.Request.Context(), token); err == nil {
				c.Set(principalKey, principal)
			}
		}
		c.Next()
	}
}
