package modules

import (
	"expvar"
	"runtime"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/academic-bridge/internal/interface/middleware"
)

var (
	startedAt   = time.Now()
	publishOnce sync.Once
)

// DebugModule serves expvar metrics. Besides memstats and cmdline it
// publishes uptime, goroutine count and rate-limit rejections.
type DebugModule struct {
	RDB *redis.Client
}

func NewDebugModule(rdb *redis.Client) *DebugModule { return &DebugModule{RDB: rdb} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	publishOnce.Do(func() {
		expvar.Publish("uptime_seconds", expvar.Func(func() any { return int64(time.Since(startedAt).Seconds()) }))
		expvar.Publish("goroutines", expvar.Func(func() any { return runtime.NumGoroutine() }))
	})
	rl := middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
