package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/academic-bridge/internal/application"
	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	"github.com/oksasatya/academic-bridge/pkg/response"
)

type AdminHandler struct {
	Svc      *application.AdminService
	Settings *application.SettingsService
	Audit    *application.Auditor
	Logger   *logrus.Logger
}

func NewAdminHandler(svc *application.AdminService, settings *application.SettingsService, audit *application.Auditor, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Svc: svc, Settings: settings, Audit: audit, Logger: logger}
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type teamRequest struct {
	UserIDs []string `json:"user_ids"`
}

type verifyRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

// ListProjects GET /api/admin/projects?search=&status=&industry=
func (h *AdminHandler) ListProjects(c *gin.Context) {
	list, err := h.Svc.ListProjects(c.Request.Context(), application.AdminProjectQuery{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Industry: c.Query("industry"),
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProjects(list.Items), "projects", map[string]any{
		"count":      len(list.Items),
		"industries": list.Industries,
		"stats":      list.Stats,
	})
}

// GetProject GET /api/admin/projects/:id
func (h *AdminHandler) GetProject(c *gin.Context) {
	p, err := h.Svc.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProject(p), "project", nil)
}

func (h *AdminHandler) changeStatus(c *gin.Context, next entity.ProjectStatus) {
	p, err := h.Svc.ChangeStatus(c.Request.Context(), actorFrom(c), c.Param("id"), next)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProject(p), "status updated", nil)
}

// ChangeStatus PATCH /api/admin/projects/:id/status {status}
func (h *AdminHandler) ChangeStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	h.changeStatus(c, entity.ProjectStatus(req.Status))
}

// Approve POST /api/admin/projects/:id/approve
func (h *AdminHandler) Approve(c *gin.Context) { h.changeStatus(c, entity.StatusApproved) }

// Reject POST /api/admin/projects/:id/reject
func (h *AdminHandler) Reject(c *gin.Context) { h.changeStatus(c, entity.StatusRejected) }

// DeleteProject DELETE /api/admin/projects/:id
func (h *AdminHandler) DeleteProject(c *gin.Context) {
	if err := h.Svc.DeleteProject(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, "project deleted", nil)
}

// AssignTeam POST /api/admin/projects/:id/team {user_ids}
func (h *AdminHandler) AssignTeam(c *gin.Context) {
	var req teamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	p, err := h.Svc.AssignTeam(c.Request.Context(), actorFrom(c), c.Param("id"), req.UserIDs)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProject(p), "team assigned", nil)
}

// RemoveMember DELETE /api/admin/projects/:id/team/:userId
func (h *AdminHandler) RemoveMember(c *gin.Context) {
	p, err := h.Svc.RemoveMember(c.Request.Context(), actorFrom(c), c.Param("id"), c.Param("userId"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProject(p), "member removed", nil)
}

// ListUsers GET /api/admin/users?search=&user_type=&verified=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context(), application.UserQuery{
		Search:   c.Query("search"),
		UserType: c.Query("user_type"),
		Verified: optBool(c.Query("verified")),
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUsers(users), "users", map[string]any{"count": len(users)})
}

// SetVerification PATCH /api/admin/users/:id/verify {verified}
func (h *AdminHandler) SetVerification(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	u, err := h.Svc.SetVerification(c.Request.Context(), actorFrom(c), c.Param("id"), *req.Verified)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUser(u), "verification updated", nil)
}

// Dashboard GET /api/admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	d, err := h.Svc.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"projects":         d.Projects,
		"total_users":      d.TotalUsers,
		"professors":       d.Professors,
		"students":         d.Students,
		"industry_users":   d.IndustryUsers,
		"pending_projects": toProjects(d.PendingProjects),
		"recent_projects":  toProjects(d.RecentProjects),
	}, "dashboard", nil)
}

// GetSettings GET /api/admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	st, err := h.Settings.Get(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, st, "settings", nil)
}

// UpdateSettings PUT /api/admin/settings
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req entity.PlatformSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	st, err := h.Settings.Update(c.Request.Context(), req)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	a := actorFrom(c)
	h.Audit.Record(c.Request.Context(), a.ID, "", "settings_update", metaFrom(c), map[string]any{
		"maintenance_mode": st.MaintenanceMode,
	})
	response.Success(c, http.StatusOK, st, "settings saved", nil)
}

// ResetSettings POST /api/admin/settings/reset
func (h *AdminHandler) ResetSettings(c *gin.Context) {
	st, err := h.Settings.Reset(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Audit.Record(c.Request.Context(), actorFrom(c).ID, "", "settings_reset", metaFrom(c), nil)
	response.Success(c, http.StatusOK, st, "settings reset", nil)
}

// PublicSettings GET /api/settings/public returns what signed-out pages need.
func (h *AdminHandler) PublicSettings(c *gin.Context) {
	st := h.Settings.Current(c.Request.Context())
	response.Success(c, http.StatusOK, gin.H{
		"site_name":                  st.SiteName,
		"site_description":           st.SiteDescription,
		"contact_email":              st.ContactEmail,
		"support_phone":              st.SupportPhone,
		"allow_user_registration":    st.AllowUserRegistration,
		"require_email_verification": st.RequireEmailVerification,
		"maintenance_mode":           st.MaintenanceMode,
		"default_language":           st.DefaultLanguage,
		"max_file_size":              st.MaxFileSize,
	}, "settings", nil)
}
