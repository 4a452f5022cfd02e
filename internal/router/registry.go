package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/academic-bridge/pkg/helpers"
	"github.com/oksasatya/academic-bridge/pkg/response"
)

// Module is a feature area that registers its routes on the /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Registry collects modules plus the middleware shared by every /api route.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
	checks      map[string]HealthCheck

	// Logger receives the failure detail that /healthz keeps to itself.
	Logger *logrus.Logger
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api"), checks: map[string]HealthCheck{}}
}

// Use adds middleware applied to the /api group before any module route.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

// Check registers a named dependency check for GET /healthz.
func (r *Registry) Check(name string, fn HealthCheck) {
	r.checks[name] = fn
}

func (r *Registry) RegisterAll() {
	r.Engine.GET("/healthz", r.health)
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}

func (r *Registry) health(c *gin.Context) {
	status := http.StatusOK
	out := make(map[string]string, len(r.checks))
	for name, fn := range r.checks {
		if err := fn(c.Request.Context()); err != nil {
			helpers.LogError(r.Logger, "health check failed", err, logrus.Fields{"check": name})
			out[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		out[name] = "ok"
	}
	if status != http.StatusOK {
		response.Error[any](c, status, "unhealthy", out)
		return
	}
	response.Success(c, status, out, "ok", nil)
}
