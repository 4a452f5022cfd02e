package middleware

import (
	"expvar"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/academic-bridge/pkg/response"
)

// KeyFunc builds a rate-limit bucket key from the request.
type KeyFunc func(c *gin.Context) string

// AllowFunc reports whether a request skips the limiter.
type AllowFunc func(*gin.Context) bool

func clientIP(c *gin.Context) string {
	if ip := c.GetString(CtxRealIP); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func routeOf(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyByIP buckets requests per client address.
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string { return "rl:ip:" + clientIP(c) }
}

// KeyByIPAndPath buckets requests per client address and route template.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string { return "rl:path:" + routeOf(c) + ":ip:" + clientIP(c) }
}

// KeyByUserID buckets authenticated requests per user; anonymous callers
// share a bucket per address.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString(CtxUserID); uid != "" {
			return "rl:user:" + uid
		}
		return "rl:user:anon:ip:" + clientIP(c)
	}
}

// rateLimited counts rejected requests per route template and is served
// on /api/debug/vars.
var rateLimited = expvar.NewMap("rate_limited")

// hitScript counts a hit, opens the window on the first one and returns
// {count, remaining window in ms}.
var hitScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

type window struct {
	count int
	reset time.Duration
}

func hit(c *gin.Context, rdb *redis.Client, key string, span time.Duration) (window, error) {
	vals, err := hitScript.Run(c.Request.Context(), rdb, []string{key}, span.Milliseconds()).Int64Slice()
	if err != nil || len(vals) != 2 {
		return window{}, err
	}
	w := window{count: int(vals[0])}
	if vals[1] > 0 {
		w.reset = time.Duration(vals[1]) * time.Millisecond
	}
	return w, nil
}

// RateLimit allows limit requests per key within a fixed window stored in
// Redis. Preflight requests and requests matched by allow pass through, and
// Redis errors fail open. A nil client disables the limiter.
func RateLimit(rdb *redis.Client, limit int, span time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || limit <= 0 || span <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}
		w, err := hit(c, rdb, keyFn(c), span)
		if err != nil || w.count == 0 {
			c.Next()
			return
		}

		resetSec := int((w.reset + time.Second - 1) / time.Second)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(limit-w.count, 0)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))
		if w.count > limit {
			c.Header("Retry-After", strconv.Itoa(max(resetSec, 1)))
			rateLimited.Add(routeOf(c), 1)
			response.Abort(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}
