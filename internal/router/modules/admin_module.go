package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	handlers "github.com/oksasatya/academic-bridge/internal/interface/http"
	"github.com/oksasatya/academic-bridge/internal/interface/middleware"
	"github.com/oksasatya/academic-bridge/pkg/helpers"
)

// AdminModule registers /api/admin/* (admins only) and the public settings read.
type AdminModule struct {
	Handler *handlers.AdminHandler
	RDB     *redis.Client
	JWT     *helpers.JWTManager
}

func NewAdminModule(h *handlers.AdminHandler, rdb *redis.Client, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Handler: h, RDB: rdb, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	rg.GET("/settings/public", middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIP(), nil), m.Handler.PublicSettings)

	admin := rg.Group("/admin")
	admin.Use(
		middleware.Auth(m.RDB, m.JWT),
		middleware.RequireRole(entity.UserTypeAdmin),
		middleware.RateLimit(m.RDB, 300, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		admin.GET("/dashboard", m.Handler.Dashboard)

		admin.GET("/projects", m.Handler.ListProjects)
		admin.GET("/projects/:id", m.Handler.GetProject)
		admin.PATCH("/projects/:id/status", m.Handler.ChangeStatus)
		admin.POST("/projects/:id/approve", m.Handler.Approve)
		admin.POST("/projects/:id/reject", m.Handler.Reject)
		admin.DELETE("/projects/:id", m.Handler.DeleteProject)
		admin.POST("/projects/:id/team", m.Handler.AssignTeam)
		admin.DELETE("/projects/:id/team/:userId", m.Handler.RemoveMember)

		admin.GET("/users", m.Handler.ListUsers)
		admin.PATCH("/users/:id/verify", m.Handler.SetVerification)

		admin.GET("/settings", m.Handler.GetSettings)
		admin.PUT("/settings", m.Handler.UpdateSettings)
		admin.POST("/settings/reset", m.Handler.ResetSettings)
	}
}
