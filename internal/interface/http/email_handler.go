package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/academic-bridge/config"
	"github.com/oksasatya/academic-bridge/internal/application"
	"github.com/oksasatya/academic-bridge/internal/interface/middleware"
	"github.com/oksasatya/academic-bridge/pkg/helpers"
	"github.com/oksasatya/academic-bridge/pkg/mailer"
	mailtpl "github.com/oksasatya/academic-bridge/pkg/mailer/templates"
	"github.com/oksasatya/academic-bridge/pkg/response"
)

// EmailHandler lets admins queue an ad-hoc email for the worker.
type EmailHandler struct {
	Pub    application.Publisher
	Audit  *application.Auditor
	Logger *logrus.Logger
	Cfg    *config.Config
}

func NewEmailHandler(pub application.Publisher, audit *application.Auditor, logger *logrus.Logger, cfg *config.Config) *EmailHandler {
	return &EmailHandler{Pub: pub, Audit: audit, Logger: logger, Cfg: cfg}
}

type sendEmailRequest struct {
	To       string         `json:"to" binding:"required,email"`
	Template string         `json:"template"` // "universal" or a type such as "project_status_changed"
	Data     map[string]any `json:"data"`
	Subject  string         `json:"subject"`
	Text     string         `json:"text"`
	HTML     string         `json:"html"`
}

func (r sendEmailRequest) job() (mailer.EmailJob, string) {
	tpl := strings.TrimSpace(r.Template)
	if tpl == "" {
		if r.Subject == "" || (r.Text == "" && r.HTML == "") {
			return mailer.EmailJob{}, "either template or subject with text/html is required"
		}
		return mailer.EmailJob{To: r.To, Subject: r.Subject, Text: r.Text, HTML: r.HTML}, ""
	}
	if tpl != "universal" && !mailtpl.IsKnownType(tpl) {
		return mailer.EmailJob{}, "unknown template"
	}
	return mailer.EmailJob{To: r.To, Template: tpl, Subject: r.Subject, Data: r.Data}, ""
}

// Send POST /api/admin/email/send
func (h *EmailHandler) Send(c *gin.Context) {
	var req sendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	job, problem := req.job()
	if problem != "" {
		response.Error[any](c, http.StatusBadRequest, problem, nil)
		return
	}
	if h.Cfg != nil && !h.Cfg.MailSendEnabled {
		response.Success(c, http.StatusAccepted, gin.H{"enqueued": false, "disabled": true}, "email sending disabled", nil)
		return
	}
	if h.Pub == nil {
		response.Error[any](c, http.StatusServiceUnavailable, "email queue unavailable", nil)
		return
	}
	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil {
		helpers.LogWarn(h.Logger, "failed to publish email job", err, logrus.Fields{"to": job.To})
		response.Error[any](c, http.StatusInternalServerError, "failed to enqueue", nil)
		return
	}
	actor := actorFrom(c)
	h.Audit.Record(c.Request.Context(), actor.ID, c.GetString(middleware.CtxUserEmail), "email_send", metaFrom(c),
		map[string]any{"to": job.To, "template": job.Template})
	response.Success(c, http.StatusAccepted, gin.H{"enqueued": true}, "email enqueued", nil)
}

// Templates GET /api/admin/email/templates lists the notification types
// the universal template renders.
func (h *EmailHandler) Templates(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"layout":  "universal",
		"types":   mailtpl.Types,
		"enabled": h.Cfg == nil || h.Cfg.MailSendEnabled,
	}, "ok", nil)
}
