package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"shortlink-redirect/internal/i18n"
	"shortlink-redirect/response"
)

// RateLimiter 进程内固定窗口计数，按客户端 IP 区分
type RateLimiter struct {
	store  *cache.Cache
	limit  int
	window time.Duration
	mu     sync.Mutex
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		store:  cache.New(window, 2*window),
		limit:  limit,
		window: window,
	}
}

// Allow 返回是否放行以及窗口剩余时间
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := 1
	if err := l.store.Add(key, 1, l.window); err != nil {
		n, err := l.store.IncrementInt(key, 1)
		if err != nil {
			// 计数在两步之间过期
			l.store.Set(key, 1, l.window)
		} else {
			count = n
		}
	}
	if count <= l.limit {
		return true, 0
	}

	retry := l.window
	if _, exp, ok := l.store.GetWithExpiration(key); ok && !exp.IsZero() {
		retry = time.Until(exp)
	}
	return false, retry
}

// RateLimitMiddleware 超限返回 429 和 Retry-After
func RateLimitMiddleware(l *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + ":" + c.FullPath()
		ok, retry := l.Allow(key)
		if !ok {
			seconds := int(math.Ceil(retry.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			zap.L().Warn("Rate limit exceeded",
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorBody{Error: i18n.T(c.Request.Context(), "TooManyRequests", nil)})
			return
		}
		c.Next()
	}
}
