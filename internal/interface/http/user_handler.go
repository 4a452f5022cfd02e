package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/academic-bridge/internal/application"
	"github.com/oksasatya/academic-bridge/pkg/response"
)

type UserHandler struct {
	Svc      *application.UserService
	Projects *application.ProjectService
	Logger   *logrus.Logger
}

func NewUserHandler(svc *application.UserService, projects *application.ProjectService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Projects: projects, Logger: logger}
}

// Absent fields are left unchanged; an explicit empty skills list clears them.
type updateProfileRequest struct {
	FullName          *string  `json:"full_name" binding:"omitnil,tmin=2,max=120"`
	Bio               *string  `json:"bio" binding:"omitempty,max=2000"`
	ProfilePictureURL *string  `json:"profile_picture_url" binding:"omitempty,max=500"`
	CompanyName       *string  `json:"company_name" binding:"omitempty,max=200"`
	Skills            []string `json:"skills" binding:"omitempty,max=50,dive,max=60"`
}

// GetProfile GET /api/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), actorFrom(c).ID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUser(u), "profile", nil)
}

// UpdateProfile PUT /api/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), actorFrom(c).ID, application.UpdateProfileInput{
		FullName:          req.FullName,
		Bio:               req.Bio,
		ProfilePictureURL: req.ProfilePictureURL,
		CompanyName:       req.CompanyName,
		Skills:            req.Skills,
		SkillsSet:         req.Skills != nil,
	}, metaFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUser(u), "profile updated", nil)
}

// UploadAvatar POST /api/profile/avatar (multipart "file")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), actorFrom(c).ID, f, fh.Size, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile_picture_url": url}, "avatar uploaded", nil)
}

// Dashboard GET /api/dashboard
func (h *UserHandler) Dashboard(c *gin.Context) {
	d, err := h.Projects.Dashboard(c.Request.Context(), actorFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"total":           d.Total,
		"in_progress":     d.InProgress,
		"completed":       d.Completed,
		"recent_projects": toProjects(d.Recent),
	}, "dashboard", nil)
}

// Menu GET /api/menu?path=
func (h *UserHandler) Menu(c *gin.Context) {
	a := actorFrom(c)
	response.Success(c, http.StatusOK, application.MenuFor(a.Role, c.Query("path")), "menu", nil)
}

// Search GET /api/users/search?q=&skills=a,b&academic=true&size=
func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	academic := optBool(c.Query("academic"))
	users, err := h.Svc.SearchUsers(c.Request.Context(), application.CandidateQuery{
		Q:            c.Query("q"),
		Skills:       splitCSV(c.Query("skills")),
		AcademicOnly: academic != nil && *academic,
		Size:         size,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUsers(users), "users", map[string]any{"count": len(users)})
}
