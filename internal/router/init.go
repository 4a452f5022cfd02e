package router

import (
	"context"

	"github.com/oksasatya/academic-bridge/internal/application"
	"github.com/oksasatya/academic-bridge/internal/container"
	pginfra "github.com/oksasatya/academic-bridge/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/academic-bridge/internal/interface/http"
	"github.com/oksasatya/academic-bridge/internal/interface/middleware"
	"github.com/oksasatya/academic-bridge/internal/router/modules"
)

// Services holds the application layer built from the container singletons.
type Services struct {
	Settings *application.SettingsService
	Sessions *application.Sessions
	Notifier *application.Notifier
	Audit    *application.Auditor
	Index    *application.UserIndex
	Auth     *application.AuthService
	Profile  *application.UserService
	Project  *application.ProjectService
	Admin    *application.AdminService
}

// BuildServices wires repositories and services. Optional infrastructure
// missing from the container disables the features that depend on it.
func BuildServices() *Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()
	rdb := container.GetRedis()

	users := pginfra.NewUserRepository(pool)
	projects := pginfra.NewProjectRepository(pool)
	evaluations := pginfra.NewEvaluationRepository(pool)

	s := &Services{}
	s.Settings = application.NewSettingsService(pginfra.NewSettingsRepository(pool), rdb, logger)
	s.Sessions = application.NewSessions(container.GetJWT(), rdb, logger)
	s.Notifier = application.NewNotifier(container.GetPublisher(), cfg, s.Settings, container.GetGeo(), logger)
	s.Audit = application.NewAuditor(pginfra.NewAuditRepository(pool), logger)
	s.Index = application.NewUserIndex(container.GetES(), cfg.ESUsersIndex, logger)

	s.Auth = &application.AuthService{
		Users:    users,
		Sessions: s.Sessions,
		Settings: s.Settings,
		Notifier: s.Notifier,
		Audit:    s.Audit,
		Index:    s.Index,
		Redis:    rdb,
		Cfg:      cfg,
		Logger:   logger,
	}
	s.Profile = &application.UserService{
		Repo:      users,
		Sessions:  s.Sessions,
		Notifier:  s.Notifier,
		Index:     s.Index,
		GCS:       container.GetGCS(),
		GCSBucket: cfg.GCSBucket,
		Logger:    logger,
	}
	s.Project = &application.ProjectService{
		Projects:    projects,
		Users:       users,
		Evaluations: evaluations,
		Settings:    s.Settings,
		Notifier:    s.Notifier,
		Audit:       s.Audit,
		GCS:         container.GetGCS(),
		GCSBucket:   cfg.GCSBucket,
		Logger:      logger,
	}
	s.Admin = &application.AdminService{
		Projects: projects,
		Users:    users,
		Notifier: s.Notifier,
		Audit:    s.Audit,
		Index:    s.Index,
		Redis:    rdb,
		Logger:   logger,

		GCS:       container.GetGCS(),
		GCSBucket: cfg.GCSBucket,
	}
	return s
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	jwt := container.GetJWT()
	s := BuildServices()

	r.Use(middleware.Maintenance(s.Settings, jwt))
	if pool := container.GetPGPool(); pool != nil {
		r.Check("postgres", func(ctx context.Context) error { return pginfra.Ping(ctx, pool) })
	}
	if rdb != nil {
		r.Check("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(s.Auth, logger, cfg.CookieDomain, cfg.CookieSecure), rdb, jwt))
	r.Add(modules.NewProfileModule(handlers.NewUserHandler(s.Profile, s.Project, logger), rdb, jwt))
	r.Add(modules.NewProjectModule(handlers.NewProjectHandler(s.Project, logger), rdb, jwt))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(s.Admin, s.Settings, s.Audit, logger), rdb, jwt))
	r.Add(modules.NewEmailModule(handlers.NewEmailHandler(container.GetPublisher(), s.Audit, logger, cfg), rdb, jwt))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb))
	}
}
