package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/academic-bridge/internal/application"
	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	"github.com/oksasatya/academic-bridge/internal/interface/middleware"
	"github.com/oksasatya/academic-bridge/pkg/helpers"
	"github.com/oksasatya/academic-bridge/pkg/response"
	"github.com/oksasatya/academic-bridge/pkg/validation"
)

func clientIP(c *gin.Context) string {
	if ip := c.GetString(middleware.CtxRealIP); ip != "" {
		return ip
	}
	return c.ClientIP()
}

func metaFrom(c *gin.Context) application.RequestMeta {
	return application.RequestMeta{IP: clientIP(c), UserAgent: c.GetHeader("User-Agent")}
}

func actorFrom(c *gin.Context) application.Actor {
	return application.Actor{
		ID:   c.GetString(middleware.CtxUserID),
		Role: entity.UserType(c.GetString(middleware.CtxUserRole)),
	}
}

// fail answers with the status mapped from err. Unmapped errors are logged
// and reported as a generic internal error.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	status := application.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"route":      c.FullPath(),
		})
	}
	response.Error[any](c, status, application.PublicMessage(err), nil)
}

func badPayload(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

func splitCSV(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// optBool parses a tri-state query flag; anything but true/false is nil.
func optBool(s string) *bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &b
}
