package apptest

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/academic-bridge/config"
	"github.com/oksasatya/academic-bridge/internal/application"
	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	"github.com/oksasatya/academic-bridge/pkg/helpers"
)

// Password is the plain password of every user made by AddUser.
const Password = "password123"

// Harness wires every service over in-memory stores and a miniredis server.
type Harness struct {
	t        *testing.T
	MR       *miniredis.Miniredis
	RDB      *redis.Client
	Cfg      *config.Config
	JWT      *helpers.JWTManager
	Users    *Users
	Projects *Projects
	Evals    *Evaluations
	Store    *Settings
	AuditLog *Audit
	Pub      *Publisher

	Settings *application.SettingsService
	Sessions *application.Sessions
	Notifier *application.Notifier
	Auditor  *application.Auditor
	Auth     *application.AuthService
	Profile  *application.UserService
	Project  *application.ProjectService
	Admin    *application.AdminService
}

// NewHarness builds a development-mode harness with mail sending enabled.
func NewHarness(t *testing.T) *Harness {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		Env:              "development",
		MailSendEnabled:  true,
		VerifyEmailURL:   "http://app.test/verify",
		ResetPasswordURL: "http://app.test/reset",
		ProjectURL:       "http://app.test/projects/",
	}
	h := &Harness{t: t, MR: mr, RDB: rdb, Cfg: cfg}
	h.Users = NewUsers()
	h.Projects = NewProjects(h.Users)
	h.Evals = NewEvaluations(h.Projects)
	h.Store = &Settings{}
	h.AuditLog = &Audit{}
	h.Pub = &Publisher{}

	h.JWT = helpers.NewJWTManager("access", "refresh", time.Hour, 24*time.Hour)
	h.Settings = application.NewSettingsService(h.Store, rdb, nil)
	h.Sessions = application.NewSessions(h.JWT, rdb, nil)
	h.Notifier = application.NewNotifier(h.Pub, cfg, h.Settings, nil, nil)
	auditor := application.NewAuditor(h.AuditLog, nil)
	h.Auditor = auditor

	h.Auth = &application.AuthService{
		Users: h.Users, Sessions: h.Sessions, Settings: h.Settings, Notifier: h.Notifier,
		Audit: auditor, Redis: rdb, Cfg: cfg,
	}
	h.Profile = &application.UserService{Repo: h.Users, Sessions: h.Sessions, Notifier: h.Notifier}
	h.Project = &application.ProjectService{
		Projects: h.Projects, Users: h.Users, Evaluations: h.Evals,
		Settings: h.Settings, Notifier: h.Notifier, Audit: auditor,
	}
	h.Admin = &application.AdminService{
		Projects: h.Projects, Users: h.Users, Notifier: h.Notifier, Audit: auditor, Redis: rdb,
	}
	return h
}

// UpdateSettings saves the defaults after applying mut.
func (h *Harness) UpdateSettings(mut func(*entity.PlatformSettings)) {
	h.t.Helper()
	st := entity.DefaultSettings()
	mut(&st)
	_, err := h.Settings.Update(context.Background(), st)
	require.NoError(h.t, err)
}

// AddUser stores a user whose password is Password.
func (h *Harness) AddUser(name, email, mobile string, role entity.UserType, skills ...string) *entity.User {
	h.t.Helper()
	hash, err := helpers.HashPassword(Password)
	require.NoError(h.t, err)
	u := &entity.User{FullName: name, Email: email, Mobile: mobile, PasswordHash: hash, UserType: role, Skills: skills}
	require.NoError(h.t, h.Users.Create(context.Background(), u))
	return u
}

func (h *Harness) AddProject(client *entity.User, title, industry string, status entity.ProjectStatus, created time.Time) *entity.Project {
	h.t.Helper()
	p := &entity.Project{
		Title: title, Description: "A project about " + title, IndustryField: industry,
		Status: status, ClientID: client.ID, ClientName: client.DisplayOrganization(), CreatedAt: created,
	}
	require.NoError(h.t, h.Projects.Create(context.Background(), p))
	return p
}

func ActorOf(u *entity.User) application.Actor {
	return application.Actor{ID: u.ID, Role: u.UserType}
}
