package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/academic-bridge/internal/application/apptest"
	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	handlers "github.com/oksasatya/academic-bridge/internal/interface/http"
	"github.com/oksasatya/academic-bridge/internal/interface/middleware"
	"github.com/oksasatya/academic-bridge/internal/router/modules"
	"github.com/oksasatya/academic-bridge/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Error   json.RawMessage `json:"error"`
}

type api struct {
	t *testing.T
	h *apptest.Harness
	r *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	h := apptest.NewHarness(t)
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware(), middleware.RealIP())
	g := r.Group("/api")
	g.Use(middleware.Maintenance(h.Settings, h.JWT))

	for _, m := range []interface{ Register(*gin.RouterGroup) }{
		modules.NewAuthModule(handlers.NewAuthHandler(h.Auth, nil, "localhost", false), h.RDB, h.JWT),
		modules.NewProfileModule(handlers.NewUserHandler(h.Profile, h.Project, nil), h.RDB, h.JWT),
		modules.NewProjectModule(handlers.NewProjectHandler(h.Project, nil), h.RDB, h.JWT),
		modules.NewAdminModule(handlers.NewAdminHandler(h.Admin, h.Settings, h.Auditor, nil), h.RDB, h.JWT),
		modules.NewEmailModule(handlers.NewEmailHandler(h.Pub, h.Auditor, nil, h.Cfg), h.RDB, h.JWT),
	} {
		m.Register(g)
	}
	return &api{t: t, h: h, r: r}
}

func (a *api) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.serve(req)
}

func (a *api) serve(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

// login signs u in through the API and returns the access token.
func (a *api) login(u *entity.User) string {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/login", "", map[string]string{"email_or_mobile": u.Email, "password": apptest.Password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &body))
	return body.AccessToken
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestSignupAndProfile(t *testing.T) {
	a := newAPI(t)

	w, env := a.do(http.MethodPost, "/api/auth/signup", "", map[string]any{
		"full_name": "Ahmad Rezaei", "email": "ahmad@pars.ir", "mobile": "09123456789",
		"password": "Str0ng!Pass", "password_confirm": "Str0ng!Pass",
		"user_type": "industry", "company_name": "Pars Industrial",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode[map[string]any](t, env.Data)
	assert.NotEmpty(t, body["verify_link"])
	assert.NotEmpty(t, w.Result().Cookies())
	user := body["user"].(map[string]any)
	assert.Equal(t, "industry", user["user_type"])
	assert.NotContains(t, w.Body.String(), "password_hash")

	token := body["access_token"].(string)
	w, env = a.do(http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ahmad@pars.ir", decode[handlers.UserDTO](t, env.Data).Email)

	w, env = a.do(http.MethodPut, "/api/profile", token, map[string]any{"skills": []string{" Go ", "", "Go", "SQL"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"Go", "SQL"}, decode[handlers.UserDTO](t, env.Data).Skills)
}

func TestSignupValidation(t *testing.T) {
	a := newAPI(t)
	w, env := a.do(http.MethodPost, "/api/auth/signup", "", map[string]any{
		"full_name": "A", "email": "nope", "mobile": "123",
		"password": "Str0ng!Pass", "password_confirm": "different", "user_type": "admin",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	details := decode[map[string]any](t, env.Error)
	for _, field := range []string{"full_name", "email", "mobile", "password_confirm", "user_type"} {
		assert.Contains(t, details, field)
	}
}

func TestWhitespaceOnlyFields(t *testing.T) {
	a := newAPI(t)

	w, env := a.do(http.MethodPost, "/api/auth/signup", "", map[string]any{
		"full_name": "    ", "email": "blank@pars.ir", "mobile": "09123456780",
		"password": "Str0ng!Pass", "password_confirm": "Str0ng!Pass", "user_type": "industry",
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, decode[map[string]any](t, env.Error), "full_name")

	client := a.h.AddUser("Ahmad", "ahmad@pars.ir", "09120000001", entity.UserTypeIndustry)
	tok := a.login(client)

	w, env = a.do(http.MethodPost, "/api/projects", tok, map[string]any{
		"title": "   ", "description": "   short      ",
		"industry_field": "\t", "estimated_budget": " ", "estimated_timeline": "  ",
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	details := decode[map[string]string](t, env.Error)
	assert.Equal(t, "must not be blank", details["title"])
	assert.Equal(t, "must be at least 10 characters long", details["description"])
	for _, field := range []string{"industry_field", "estimated_budget", "estimated_timeline"} {
		assert.Contains(t, details, field)
	}
	n, err := a.h.Projects.CountOpenByClient(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	w, env = a.do(http.MethodPut, "/api/profile", tok, map[string]any{"full_name": "   "})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, decode[map[string]any](t, env.Error), "full_name")
	u, err := a.h.Users.GetByID(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ahmad", u.FullName)
}

func TestLoginFailures(t *testing.T) {
	a := newAPI(t)
	u := a.h.AddUser("Sara", "sara@uni.ir", "09120000001", entity.UserTypeStudent)

	w, env := a.do(http.MethodPost, "/api/login", "", map[string]string{"email_or_mobile": u.Email, "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)

	w, _ = a.do(http.MethodGet, "/api/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := a.login(u)
	w, _ = a.do(http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = a.do(http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProjectLifecycle(t *testing.T) {
	a := newAPI(t)
	client := a.h.AddUser("Ahmad", "ahmad@pars.ir", "09120000001", entity.UserTypeIndustry)
	prof := a.h.AddUser("Dr. Ahmadi", "ahmadi@uni.ir", "09120000002", entity.UserTypeProfessor, "Machine Learning")
	admin := a.h.AddUser("Admin", "admin@clinic.com", "09120000000", entity.UserTypeAdmin)
	clientTok, profTok, adminTok := a.login(client), a.login(prof), a.login(admin)

	w, _ := a.do(http.MethodPost, "/api/projects", clientTok, map[string]any{"title": "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	payload := map[string]any{
		"title": "Defect detection", "description": "Detect defects on the line with cameras",
		"industry_field": "Manufacturing", "estimated_budget": "100M", "estimated_timeline": "3 months",
	}
	w, _ = a.do(http.MethodPost, "/api/projects", profTok, payload)
	require.Equal(t, http.StatusForbidden, w.Code)

	w, env := a.do(http.MethodPost, "/api/projects", clientTok, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decode[handlers.ProjectDTO](t, env.Data)
	assert.Equal(t, "pending", p.Status)
	assert.Equal(t, "Ahmad", p.ClientName)

	// not visible to an academic outside the team
	w, _ = a.do(http.MethodGet, "/api/projects/"+p.ID, profTok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = a.do(http.MethodPost, "/api/admin/projects/"+p.ID+"/approve", clientTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = a.do(http.MethodPost, "/api/admin/projects/"+p.ID+"/approve", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = a.do(http.MethodPost, "/api/admin/projects/"+p.ID+"/reject", adminTok, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = a.do(http.MethodPost, "/api/admin/projects/"+p.ID+"/team", adminTok, map[string]any{"user_ids": []string{prof.ID, prof.ID}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	p = decode[handlers.ProjectDTO](t, env.Data)
	assert.Equal(t, "in_progress", p.Status)
	require.Len(t, p.TeamMembers, 1)

	w, env = a.do(http.MethodGet, "/api/projects", profTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]handlers.ProjectDTO](t, env.Data), 1)

	w, _ = a.do(http.MethodPost, "/api/projects/"+p.ID+"/evaluation", clientTok, map[string]any{
		"innovation_score": 5, "accuracy_score": 4, "usability_score": 4,
	})
	assert.Equal(t, http.StatusConflict, w.Code, "evaluation needs a completed project")

	w, _ = a.do(http.MethodPatch, "/api/admin/projects/"+p.ID+"/status", adminTok, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = a.do(http.MethodPost, "/api/projects/"+p.ID+"/evaluation", clientTok, map[string]any{
		"innovation_score": 9, "accuracy_score": 4, "usability_score": 4,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = a.do(http.MethodPost, "/api/projects/"+p.ID+"/evaluation", clientTok, map[string]any{
		"innovation_score": 5, "accuracy_score": 4, "usability_score": 4, "comments": "great",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.InDelta(t, 4.3, decode[handlers.EvaluationDTO](t, env.Data).OverallScore, 0.001)

	w, env = a.do(http.MethodGet, "/api/projects/"+p.ID+"/evaluation", profTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "great", decode[handlers.EvaluationDTO](t, env.Data).Comments)
}

func TestAttachmentWithoutStorage(t *testing.T) {
	a := newAPI(t)
	client := a.h.AddUser("Ahmad", "ahmad@pars.ir", "09120000001", entity.UserTypeIndustry)
	p := a.h.AddProject(client, "Forecast", "Retail", entity.StatusPending, time.Now())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "brief.pdf")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("%PDF-1.4"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/projects/"+p.ID+"/attachments", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+a.login(client))
	w, _ := a.serve(req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAdminListingsAndUsers(t *testing.T) {
	a := newAPI(t)
	admin := a.h.AddUser("Admin", "admin@clinic.com", "09120000000", entity.UserTypeAdmin)
	client := a.h.AddUser("Ahmad", "ahmad@pars.ir", "09120000001", entity.UserTypeIndustry)
	stu := a.h.AddUser("Sara", "sara@uni.ir", "09120000002", entity.UserTypeStudent, "Python")
	now := time.Now()
	a.h.AddProject(client, "Forecast", "Retail", entity.StatusPending, now.Add(-time.Hour))
	a.h.AddProject(client, "Defects", "Manufacturing", entity.StatusInProgress, now)
	tok := a.login(admin)

	w, env := a.do(http.MethodGet, "/api/admin/projects?industry=Retail", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]handlers.ProjectDTO](t, env.Data), 1)
	meta := decode[map[string]any](t, env.Meta)
	assert.Equal(t, []any{"Manufacturing", "Retail"}, meta["industries"])

	w, env = a.do(http.MethodGet, "/api/admin/users?user_type=student&verified=false", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode[[]handlers.UserDTO](t, env.Data)
	require.Len(t, users, 1)
	assert.Equal(t, stu.ID, users[0].ID)

	w, env = a.do(http.MethodPatch, "/api/admin/users/"+stu.ID+"/verify", tok, map[string]bool{"verified": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[handlers.UserDTO](t, env.Data).IsVerified)

	w, _ = a.do(http.MethodPatch, "/api/admin/users/"+stu.ID+"/verify", tok, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = a.do(http.MethodGet, "/api/users/search?q=sar&academic=true", tok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[[]handlers.UserDTO](t, env.Data), 1)

	w, env = a.do(http.MethodGet, "/api/admin/dashboard", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash := decode[map[string]any](t, env.Data)
	assert.EqualValues(t, 3, dash["total_users"])
}

func TestSettingsAndMaintenance(t *testing.T) {
	a := newAPI(t)
	admin := a.h.AddUser("Admin", "admin@clinic.com", "09120000000", entity.UserTypeAdmin)
	stu := a.h.AddUser("Sara", "sara@uni.ir", "09120000002", entity.UserTypeStudent)
	adminTok, stuTok := a.login(admin), a.login(stu)

	w, env := a.do(http.MethodGet, "/api/admin/settings", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	st := decode[entity.PlatformSettings](t, env.Data)
	assert.Equal(t, entity.DefaultSettings(), st)

	st.BackupFrequency = "hourly"
	w, _ = a.do(http.MethodPut, "/api/admin/settings", adminTok, st)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	st.BackupFrequency = "weekly"
	st.MaintenanceMode = true
	w, _ = a.do(http.MethodPut, "/api/admin/settings", adminTok, st)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, a.h.AuditLog.Actions(), "settings_update")

	w, _ = a.do(http.MethodGet, "/api/profile", stuTok, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	w, env = a.do(http.MethodGet, "/api/settings/public", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, env.Data)["maintenance_mode"])
	w, _ = a.do(http.MethodGet, "/api/profile", adminTok, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = a.do(http.MethodPost, "/api/admin/settings/reset", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[entity.PlatformSettings](t, env.Data).MaintenanceMode)
	assert.False(t, a.h.Settings.Current(context.Background()).MaintenanceMode)
}

func TestMenuAndDashboard(t *testing.T) {
	a := newAPI(t)
	client := a.h.AddUser("Ahmad", "ahmad@pars.ir", "09120000001", entity.UserTypeIndustry)
	a.h.AddProject(client, "Forecast", "Retail", entity.StatusInProgress, time.Now())
	tok := a.login(client)

	w, env := a.do(http.MethodGet, "/api/menu?path=/projects/new", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"active":true`)

	w, env = a.do(http.MethodGet, "/api/dashboard", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash := decode[map[string]any](t, env.Data)
	assert.EqualValues(t, 1, dash["in_progress"])
}

func TestAdminEmailSend(t *testing.T) {
	a := newAPI(t)
	admin := a.h.AddUser("Admin", "admin@clinic.com", "09120000000", entity.UserTypeAdmin)
	tok := a.login(admin)
	before := a.h.Pub.Count()

	w, _ := a.do(http.MethodPost, "/api/admin/email/send", tok, map[string]any{"to": "x@test.ir"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = a.do(http.MethodPost, "/api/admin/email/send", tok, map[string]any{
		"to": "x@test.ir", "template": "project_submitted", "data": map[string]any{"ProjectTitle": "Forecast"},
	})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Equal(t, before+1, a.h.Pub.Count())
	assert.Contains(t, a.h.AuditLog.Actions(), "email_send")

	w, _ = a.do(http.MethodPost, "/api/admin/email/send", tok, map[string]any{"to": "x@test.ir", "template": "newsletter"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, before+1, a.h.Pub.Count())
}
