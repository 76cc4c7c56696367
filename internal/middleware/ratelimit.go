package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type playerLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 以玩家為單位限制請求頻率
type RateLimiter struct {
	limit     rate.Limit
	burst     int
	limiters  map[string]*playerLimiter
	mu        sync.Mutex
	lastPrune time.Time
}

// NewRateLimiter 建立限流器，perSecond <= 0 時不限流
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*playerLimiter),
	}
}

// Allow 回傳 key 這次請求是否在限額內
func (l *RateLimiter) Allow(key string) bool {
	if l.limit <= 0 {
		return true
	}

	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastPrune) > time.Minute {
		for k, pl := range l.limiters {
			if now.Sub(pl.lastSeen) > limiterIdleTTL {
				delete(l.limiters, k)
			}
		}
		l.lastPrune = now
	}

	pl, ok := l.limiters[key]
	if !ok {
		pl = &playerLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = pl
	}
	pl.lastSeen = now
	return pl.limiter.AllowN(now, 1)
}

// Middleware 依已驗證的玩家限流，沒有玩家身分時以來源 IP 計算
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := PlayerID(c)
		if key == "" {
			key = c.ClientIP()
		}
		if !l.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": "rate_limited"})
			return
		}
		c.Next()
	}
}
