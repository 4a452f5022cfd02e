package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/academic-bridge/internal/interface/http"
	"github.com/oksasatya/academic-bridge/internal/interface/middleware"
	"github.com/oksasatya/academic-bridge/pkg/helpers"
)

// AuthModule wires signup, login, session and account recovery routes.
// Public: POST /api/auth/signup, /api/login, /api/login/otp/confirm, /api/refresh,
// /api/auth/verify/confirm, /api/auth/reset/init, /api/auth/reset/confirm
// Protected: POST /api/logout, POST /api/auth/verify/init
type AuthModule struct {
	Handler *handlers.AuthHandler
	RDB     *redis.Client
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, rdb *redis.Client, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, RDB: rdb, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByIP(), nil)
	loginLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByIP(), nil)
	otpConfirmLimiter := middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByIPAndPath(), nil)
	verifyConfirmLimiter := middleware.RateLimit(m.RDB, 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetInitLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetConfirmLimiter := middleware.RateLimit(m.RDB, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/login/otp/confirm", otpConfirmLimiter, m.Handler.LoginOTPConfirm)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)
	rg.POST("/auth/verify/confirm", verifyConfirmLimiter, m.Handler.VerifyConfirm)
	rg.POST("/auth/reset/init", resetInitLimiter, m.Handler.ResetInit)
	rg.POST("/auth/reset/confirm", resetConfirmLimiter, m.Handler.ResetConfirm)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.RDB, m.JWT))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.POST("/auth/verify/init", middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByUserID(), nil), m.Handler.VerifyInit)
	}
}
