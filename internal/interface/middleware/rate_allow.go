package middleware

import (
	"net/netip"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
)

// AllowPrivateIP lets loopback and private-range clients skip the limiter.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		addr, err := netip.ParseAddr(clientIP(c))
		if err != nil {
			return false
		}
		addr = addr.Unmap()
		return addr.IsLoopback() || addr.IsPrivate()
	}
}

// AllowRole lets authenticated users with one of roles skip the limiter.
// It must run after Auth.
func AllowRole(roles ...entity.UserType) AllowFunc {
	return func(c *gin.Context) bool {
		return slices.Contains(roles, entity.UserType(c.GetString(CtxUserRole)))
	}
}

// AllowAny combines bypass rules.
func AllowAny(fns ...AllowFunc) AllowFunc {
	return func(c *gin.Context) bool {
		for _, f := range fns {
			if f != nil && f(c) {
				return true
			}
		}
		return false
	}
}
