package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/shared/server/respond"
)

const (
	defaultRateLimitGroup = "DEFAULT"
	sweepInterval         = time.Minute
)

// RateLimitRule is a token bucket refilled at Rate tokens per second up to Burst.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

// RateLimitConfig selects a rule per request group. Requests whose group has no rule pass through.
type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	Limiter      *RateLimiter
}

// RateLimiter keeps one token bucket per key. Buckets that have refilled
// completely are dropped on the next sweep since a fresh bucket is equivalent.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*rateBucket
	now       func() time.Time
	lastSweep time.Time
}

type rateBucket struct {
	tokens float64
	last   time.Time
	refill time.Duration
}

func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		buckets: make(map[string]*rateBucket),
		now:     now,
	}
}

// RateLimit throttles requests per client IP and group.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = defaultRateLimitGroup
	}
	return func(c *gin.Context) {
		group := cfg.DefaultGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}
		key := strings.TrimSpace(c.ClientIP()) + "|" + group
		allowed, retryAfter := cfg.Limiter.Allow(key, rule)
		if allowed {
			c.Next()
			return
		}
		retryAfterMs := int(retryAfter / time.Millisecond)
		if retryAfterMs <= 0 {
			retryAfterMs = 1000
		}
		retryAfterSeconds := int(math.Ceil(float64(retryAfterMs) / 1000.0))
		if retryAfterSeconds <= 0 {
			retryAfterSeconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Too many requests, slow down.", gin.H{
			"retryAfterMs": retryAfterMs,
		})
	}
}

// Allow consumes a token for key and reports how long to wait when none is left.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	if rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep(now)
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = &rateBucket{
			tokens: float64(rule.Burst),
			last:   now,
			refill: time.Duration(float64(rule.Burst) / rule.Rate * float64(time.Second)),
		}
		l.buckets[key] = bucket
	}
	elapsed := now.Sub(bucket.last).Seconds()
	if elapsed > 0 {
		bucket.tokens = math.Min(float64(rule.Burst), bucket.tokens+elapsed*rule.Rate)
		bucket.last = now
	}
	if bucket.tokens >= 1 {
		bucket.tokens -= 1
		return true, 0
	}
	needed := 1 - bucket.tokens
	waitSec := needed / rule.Rate
	if waitSec < 0 {
		waitSec = 0
	}
	retryAfter := time.Duration(math.Ceil(waitSec*1000.0)) * time.Millisecond
	return false, retryAfter
}

// Len reports the number of tracked buckets.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// sweep must be called with l.mu held.
func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < sweepInterval {
		return
	}
	l.lastSweep = now
	for key, b := range l.buckets {
		if now.Sub(b.last) >= b.refill {
			delete(l.buckets, key)
		}
	}
}
