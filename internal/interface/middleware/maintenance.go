package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	"github.com/oksasatya/academic-bridge/pkg/helpers"
	"github.com/oksasatya/academic-bridge/pkg/response"
)

// SettingsReader is the part of the settings service the maintenance gate needs.
type SettingsReader interface {
	Current(ctx context.Context) entity.PlatformSettings
}

// maintenanceOpen are reachable by anyone during maintenance, keyed by
// method and route suffix.
var maintenanceOpen = []struct{ method, suffix string }{
	{http.MethodPost, "/login"},
	{http.MethodPost, "/login/otp/confirm"},
	{http.MethodPost, "/refresh"},
	{http.MethodGet, "/settings/public"},
}

// Maintenance answers 503 to everyone but admins while maintenance_mode is
// on. The role is read from the access token so the gate can sit in front
// of public routes too.
func Maintenance(settings SettingsReader, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !settings.Current(c.Request.Context()).MaintenanceMode {
			c.Next()
			return
		}
		path := c.Request.URL.Path
		for _, r := range maintenanceOpen {
			if c.Request.Method == r.method && strings.HasSuffix(path, r.suffix) {
				c.Next()
				return
			}
		}
		if tok := helpers.AccessTokenFromRequest(c); tok != "" && jwt != nil {
			if claims, err := jwt.ParseAccessToken(tok); err == nil && claims.Role == string(entity.UserTypeAdmin) {
				c.Next()
				return
			}
		}
		c.Header("Retry-After", "300")
		response.Abort(c, http.StatusServiceUnavailable, "the platform is under maintenance", nil)
	}
}
