package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/academic-bridge/config"
	"github.com/oksasatya/academic-bridge/internal/application"
	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	pginfra "github.com/oksasatya/academic-bridge/internal/infrastructure/postgres"
	"github.com/oksasatya/academic-bridge/pkg/helpers"
)

type demoUser struct {
	key      string
	name     string
	email    string
	mobile   string
	role     entity.UserType
	bio      string
	company  string
	skills   []string
	verified bool
}

var demoUsers = []demoUser{
	{"ind-1", "Ahmad Rezaei", "ahmad.rezaei@parsindustry.com", "09123456781", entity.UserTypeIndustry,
		"Technical director at Pars Industrial with 15 years in industrial automation", "Pars Industrial Co.",
		[]string{"Automation", "PLC Programming", "Industrial IoT", "Process Control"}, true},
	{"ind-2", "Fateme Karimi", "fateme.karimi@aryagroup.com", "09187654321", entity.UserTypeIndustry,
		"Chief information officer at Arya Trading Group", "Arya Trading Group",
		[]string{"IT Management", "Digital Transformation", "ERP Systems", "Data Analytics"}, true},
	{"ind-3", "Mohammad Hosseini", "mohammad.hosseini@techstartup.com", "09351234567", entity.UserTypeIndustry,
		"Founder and CEO of a technology startup", "Novin Tech Startup",
		[]string{"Startup Management", "Product Development", "AI/ML", "Business Strategy"}, false},
	{"prof-1", "Dr. Ali Ahmadi", "ahmadi@university.ac.ir", "09123456782", entity.UserTypeProfessor,
		"Full professor of computer engineering, University of Tehran", "University of Tehran",
		[]string{"Machine Learning", "Deep Learning", "Computer Vision", "Natural Language Processing"}, true},
	{"prof-2", "Dr. Maryam Mohammadi", "mohammadi@sharif.edu", "09187654322", entity.UserTypeProfessor,
		"Professor of electrical engineering, Sharif University of Technology", "Sharif University of Technology",
		[]string{"Signal Processing", "Control Systems", "Robotics", "Embedded Systems"}, true},
	{"prof-3", "Dr. Reza Nouri", "nouri@amirkabir.ac.ir", "09351234568", entity.UserTypeProfessor,
		"Professor of industrial engineering, Amirkabir University", "Amirkabir University",
		[]string{"Operations Research", "Supply Chain Management", "Quality Control", "Project Management"}, true},
	{"stu-1", "Sara Mohammadi", "sara@student.ac.ir", "09123456783", entity.UserTypeStudent,
		"MSc student of computer engineering, University of Tehran", "University of Tehran",
		[]string{"Python", "TensorFlow", "Data Analysis", "Web Development"}, true},
	{"stu-2", "Ali Rezaei", "ali.rezaei@student.sharif.edu", "09187654323", entity.UserTypeStudent,
		"PhD student of electrical engineering, Sharif University of Technology", "Sharif University of Technology",
		[]string{"MATLAB", "Simulink", "Control Theory", "Robotics"}, true},
	{"stu-3", "Fateme Karimi", "fateme.karimi@student.amirkabir.ac.ir", "09351234569", entity.UserTypeStudent,
		"BSc student of industrial engineering, Amirkabir University", "Amirkabir University",
		[]string{"Excel", "SPSS", "Process Modeling", "Quality Management"}, false},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLife,
		ConnectAttempts: 5,
	})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	ids := map[string]string{}
	adminID, err := upsertUser(ctx, pool, demoUser{
		key: "admin", name: "System Administrator", email: cfg.SeedAdminEmail, mobile: "09120000000",
		role: entity.UserTypeAdmin, bio: "Platform administrator", company: "Platform",
		skills: []string{"System Administration", "User Management", "Security"}, verified: true,
	}, cfg.SeedAdminPassword)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	logger.WithFields(logrus.Fields{"email": cfg.SeedAdminEmail, "id": adminID}).Info("seeded admin")

	for _, u := range demoUsers {
		id, err := upsertUser(ctx, pool, u, cfg.SeedUserPassword)
		if err != nil {
			log.Fatalf("failed to seed %s: %v", u.email, err)
		}
		ids[u.key] = id
	}
	logger.WithField("count", len(demoUsers)).Info("seeded demo users")

	inProgress, err := ensureProject(ctx, pool, ids["ind-1"], "Pars Industrial Co.", entity.Project{
		Title:             "Predictive maintenance for production lines",
		Description:       "Use sensor data from PLC-controlled lines to predict failures before they stop production.",
		IndustryField:     "Manufacturing",
		EstimatedBudget:   "500,000,000 IRR",
		EstimatedTimeline: "6 months",
		Status:            entity.StatusInProgress,
	})
	if err != nil {
		log.Fatalf("failed to seed project: %v", err)
	}
	projects := pginfra.NewProjectRepository(pool)
	if err := projects.AddMembers(ctx, inProgress, []string{ids["prof-1"], ids["stu-1"]}); err != nil {
		log.Fatalf("failed to seed team: %v", err)
	}

	completed, err := ensureProject(ctx, pool, ids["ind-2"], "Arya Trading Group", entity.Project{
		Title:             "ERP data quality dashboard",
		Description:       "Build a dashboard that reports data quality issues across the ERP modules.",
		IndustryField:     "Information Technology",
		EstimatedBudget:   "200,000,000 IRR",
		EstimatedTimeline: "3 months",
		Status:            entity.StatusCompleted,
	})
	if err != nil {
		log.Fatalf("failed to seed project: %v", err)
	}
	if err := projects.AddMembers(ctx, completed, []string{ids["prof-3"], ids["stu-3"]}); err != nil {
		log.Fatalf("failed to seed team: %v", err)
	}
	if err := ensureEvaluation(ctx, pool, completed, ids["ind-2"]); err != nil {
		log.Fatalf("failed to seed evaluation: %v", err)
	}
	logger.Info("seeded demo projects")

	if err := ensureSettings(ctx, pool); err != nil {
		log.Fatalf("failed to seed settings: %v", err)
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		reindex(ctx, cfg, pool, logger)
	}
	logger.Info("seed finished")
}

func upsertUser(ctx context.Context, pool *pgxpool.Pool, u demoUser, password string) (string, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return "", err
	}
	var id string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (full_name, email, mobile, password_hash, user_type, bio, skills, company_name, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (email) DO UPDATE
		SET full_name = EXCLUDED.full_name, bio = EXCLUDED.bio, skills = EXCLUDED.skills,
		    company_name = EXCLUDED.company_name, updated_at = now()
		RETURNING id::text
	`, u.name, u.email, u.mobile, hash, string(u.role), u.bio, u.skills, u.company, u.verified).Scan(&id)
	return id, err
}

// ensureProject inserts p for the client unless a project with the same
// title already exists for them.
func ensureProject(ctx context.Context, pool *pgxpool.Pool, clientID, clientName string, p entity.Project) (string, error) {
	var id string
	err := pool.QueryRow(ctx, `
		WITH existing AS (
			SELECT id FROM projects WHERE client_id = $1 AND title = $2
		), inserted AS (
			INSERT INTO projects (title, description, industry_field, estimated_budget, estimated_timeline, status, client_id, client_name)
			SELECT $2, $3, $4, $5, $6, $7, $1, $8
			WHERE NOT EXISTS (SELECT 1 FROM existing)
			RETURNING id
		)
		SELECT id::text FROM inserted UNION ALL SELECT id::text FROM existing
	`, clientID, p.Title, p.Description, p.IndustryField, p.EstimatedBudget, p.EstimatedTimeline, string(p.Status), clientName).Scan(&id)
	return id, err
}

func ensureEvaluation(ctx context.Context, pool *pgxpool.Pool, projectID, evaluatorID string) error {
	e := entity.Evaluation{InnovationScore: 5, AccuracyScore: 4, UsabilityScore: 4}
	_, err := pool.Exec(ctx, `
		INSERT INTO evaluations (project_id, evaluator_id, innovation_score, accuracy_score, usability_score, comments)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (project_id) DO NOTHING
	`, projectID, evaluatorID, e.InnovationScore, e.AccuracyScore, e.UsabilityScore, "Clear reporting and a responsive team.")
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `UPDATE projects SET evaluation_score = $1 WHERE id = $2`, e.Overall(), projectID)
	return err
}

// ensureSettings stores the defaults only when no settings row exists yet.
func ensureSettings(ctx context.Context, pool *pgxpool.Pool) error {
	repo := pginfra.NewSettingsRepository(pool)
	if _, err := repo.Get(ctx); err == nil {
		return nil
	}
	st := entity.DefaultSettings()
	return repo.Save(ctx, &st)
}

func reindex(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger *logrus.Logger) {
	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err == nil {
		err = helpers.EnsureUsersIndex(ctx, es, cfg.ESUsersIndex)
	}
	if err != nil {
		helpers.LogWarn(logger, "skipping search index", err, nil)
		return
	}
	svc := &application.UserService{
		Repo:   pginfra.NewUserRepository(pool),
		Index:  application.NewUserIndex(es, cfg.ESUsersIndex, logger),
		Logger: logger,
	}
	n, err := svc.ReindexAll(ctx)
	if err != nil {
		helpers.LogWarn(logger, "reindex failed", err, nil)
		return
	}
	logger.WithField("count", n).Info("indexed users")
}
