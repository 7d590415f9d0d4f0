package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wasabi52ngg/restaurant-chain/utils"
	"golang.org/x/time/rate"
)

// RateLimiter is a per-IP sliding window.
type RateLimiter struct {
	rate     int
	interval time.Duration
	ips      map[string][]time.Time
	mu       sync.Mutex
}

func NewRateLimiter(rate int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		rate:     rate,
		interval: interval,
		ips:      make(map[string][]time.Time),
	}
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP(), time.Now()) {
			utils.RespondError(c, http.StatusTooManyRequests, errTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(ip string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := now.Add(-rl.interval)
	valid := rl.ips[ip][:0]
	for _, t := range rl.ips[ip] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.rate {
		rl.ips[ip] = valid
		return false
	}
	rl.ips[ip] = append(valid, now)
	return true
}

// StrictRateLimiter is a token bucket per IP for credential endpoints.
type StrictRateLimiter struct {
	perMinute int
	limiters  map[string]*rate.Limiter
	mu        sync.Mutex
}

func NewStrictRateLimiter(perMinute int) *StrictRateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &StrictRateLimiter{
		perMinute: perMinute,
		limiters:  make(map[string]*rate.Limiter),
	}
}

func (sl *StrictRateLimiter) limiter(ip string) *rate.Limiter {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	l, ok := sl.limiters[ip]
	if !ok {
		l = rate.NewLimiter(rate.Every(time.Minute/time.Duration(sl.perMinute)), sl.perMinute)
		sl.limiters[ip] = l
	}
	return l
}

func (sl *StrictRateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sl.limiter(c.ClientIP()).Allow() {
			utils.RespondError(c, http.StatusTooManyRequests, errTooManyAttempts)
			c.Abort()
			return
		}
		c.Next()
	}
}
