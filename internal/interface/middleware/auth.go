package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	"github.com/oksasatya/academic-bridge/pkg/helpers"
	"github.com/oksasatya/academic-bridge/pkg/response"
)

// Context keys set by Auth.
const (
	CtxUserID    = "userID"
	CtxUserName  = "userName"
	CtxUserEmail = "userEmail"
	CtxUserRole  = "userRole"
)

// Auth validates the access token and ensures the Redis session it was
// issued for is still current. Tokens from a rotated or revoked session
// are rejected even before they expire.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := helpers.AccessTokenFromRequest(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid access token", err.Error())
			return
		}
		if rdb == nil {
			response.Abort(c, http.StatusServiceUnavailable, "session store unavailable", nil)
			return
		}

		data, err := rdb.HGetAll(c.Request.Context(), helpers.KeySession(claims.UserID)).Result()
		if err != nil || len(data) == 0 {
			response.Abort(c, http.StatusUnauthorized, "session not found", nil)
			return
		}
		if data["sid"] != claims.SessionID {
			response.Abort(c, http.StatusUnauthorized, "session expired", nil)
			return
		}

		c.Set(CtxUserID, data["user_id"])
		c.Set(CtxUserName, data["name"])
		c.Set(CtxUserEmail, data["email"])
		c.Set(CtxUserRole, data["role"])
		c.Next()
	}
}

// RequireRole lets the request through only for the listed roles. It must
// run after Auth.
func RequireRole(roles ...entity.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := entity.UserType(c.GetString(CtxUserRole))
		if !slices.Contains(roles, role) {
			response.Abort(c, http.StatusForbidden, "forbidden", nil)
			return
		}
		c.Next()
	}
}
