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

// ProfileModule serves the signed-in user's profile, dashboard, menu and
// the admin candidate search.
type ProfileModule struct {
	Handler *handlers.UserHandler
	RDB     *redis.Client
	JWT     *helpers.JWTManager
}

func NewProfileModule(h *handlers.UserHandler, rdb *redis.Client, jwt *helpers.JWTManager) *ProfileModule {
	return &ProfileModule{Handler: h, RDB: rdb, JWT: jwt}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.RDB, m.JWT))
	// softer per-IP limiter plus a per-user one on all protected routes
	auth.Use(
		middleware.RateLimit(m.RDB, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.POST("/profile/avatar", m.Handler.UploadAvatar)
		auth.GET("/dashboard", m.Handler.Dashboard)
		auth.GET("/menu", m.Handler.Menu)
		auth.GET("/users/search", middleware.RequireRole(entity.UserTypeAdmin), m.Handler.Search)
	}
}
