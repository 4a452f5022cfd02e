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

type ProjectModule struct {
	Handler *handlers.ProjectHandler
	RDB     *redis.Client
	JWT     *helpers.JWTManager
}

func NewProjectModule(h *handlers.ProjectHandler, rdb *redis.Client, jwt *helpers.JWTManager) *ProjectModule {
	return &ProjectModule{Handler: h, RDB: rdb, JWT: jwt}
}

func (m *ProjectModule) Register(rg *gin.RouterGroup) {
	projects := rg.Group("/projects")
	projects.Use(
		middleware.Auth(m.RDB, m.JWT),
		middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(),
			middleware.AllowRole(entity.UserTypeAdmin)),
	)
	industry := middleware.RequireRole(entity.UserTypeIndustry)
	{
		projects.GET("", m.Handler.List)
		projects.POST("", industry, middleware.RateLimit(m.RDB, 10, time.Hour, middleware.KeyByUserID(), nil), m.Handler.Create)
		projects.GET("/:id", m.Handler.Get)
		projects.POST("/:id/evaluation", industry, m.Handler.Evaluate)
		projects.GET("/:id/evaluation", m.Handler.GetEvaluation)
		projects.POST("/:id/attachments", industry, m.Handler.UploadAttachment)
	}
}
