package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/academic-bridge/internal/application"
	"github.com/oksasatya/academic-bridge/pkg/response"
)

type ProjectHandler struct {
	Svc    *application.ProjectService
	Logger *logrus.Logger
}

func NewProjectHandler(svc *application.ProjectService, logger *logrus.Logger) *ProjectHandler {
	return &ProjectHandler{Svc: svc, Logger: logger}
}

type createProjectRequest struct {
	Title             string `json:"title" binding:"required,notblank,max=200"`
	Description       string `json:"description" binding:"required,tmin=10,max=5000"`
	IndustryField     string `json:"industry_field" binding:"required,notblank,max=120"`
	EstimatedBudget   string `json:"estimated_budget" binding:"required,notblank,max=120"`
	EstimatedTimeline string `json:"estimated_timeline" binding:"required,notblank,max=120"`
}

type evaluationRequest struct {
	InnovationScore int    `json:"innovation_score" binding:"required,score"`
	AccuracyScore   int    `json:"accuracy_score" binding:"required,score"`
	UsabilityScore  int    `json:"usability_score" binding:"required,score"`
	Comments        string `json:"comments" binding:"max=2000"`
}

// List GET /api/projects?search=&status=
func (h *ProjectHandler) List(c *gin.Context) {
	list, err := h.Svc.ListMine(c.Request.Context(), actorFrom(c), application.ProjectQuery{
		Search: c.Query("search"),
		Status: c.Query("status"),
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProjects(list.Items), "projects", map[string]any{
		"total":  list.Total,
		"count":  len(list.Items),
		"counts": statusCounts(list.Counts),
	})
}

// Get GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProject(p), "project", nil)
}

// Create POST /api/projects (industry)
func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), actorFrom(c), application.CreateProjectInput{
		Title:             req.Title,
		Description:       req.Description,
		IndustryField:     req.IndustryField,
		EstimatedBudget:   req.EstimatedBudget,
		EstimatedTimeline: req.EstimatedTimeline,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toProject(p), "project submitted", nil)
}

// Evaluate POST /api/projects/:id/evaluation
func (h *ProjectHandler) Evaluate(c *gin.Context) {
	var req evaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	e, overall, err := h.Svc.Evaluate(c.Request.Context(), actorFrom(c), c.Param("id"), application.EvaluationInput{
		InnovationScore: req.InnovationScore,
		AccuracyScore:   req.AccuracyScore,
		UsabilityScore:  req.UsabilityScore,
		Comments:        req.Comments,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	dto := toEvaluation(e)
	dto.OverallScore = overall
	response.Success(c, http.StatusCreated, dto, "evaluation recorded", nil)
}

// GetEvaluation GET /api/projects/:id/evaluation
func (h *ProjectHandler) GetEvaluation(c *gin.Context) {
	e, err := h.Svc.GetEvaluation(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toEvaluation(e), "evaluation", nil)
}

// UploadAttachment POST /api/projects/:id/attachments (multipart "file")
func (h *ProjectHandler) UploadAttachment(c *gin.Context) {
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

	url, err := h.Svc.AddAttachment(c.Request.Context(), actorFrom(c), c.Param("id"), f, fh.Size, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"url": url}, "attachment uploaded", nil)
}
