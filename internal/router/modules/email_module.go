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

type EmailModule struct {
	Handler *handlers.EmailHandler
	RDB     *redis.Client
	JWT     *helpers.JWTManager
}

func NewEmailModule(h *handlers.EmailHandler, rdb *redis.Client, jwt *helpers.JWTManager) *EmailModule {
	return &EmailModule{Handler: h, RDB: rdb, JWT: jwt}
}

func (m *EmailModule) Register(rg *gin.RouterGroup) {
	email := rg.Group("/admin/email", middleware.Auth(m.RDB, m.JWT), middleware.RequireRole(entity.UserTypeAdmin))
	email.GET("/templates", m.Handler.Templates)
	email.POST("/send", middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByUserID(), nil), m.Handler.Send)
}
