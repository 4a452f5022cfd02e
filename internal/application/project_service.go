package application

import (
	"context"
	"errors"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	repo "github.com/oksasatya/academic-bridge/internal/domain/repository"
	"github.com/oksasatya/academic-bridge/pkg/helpers"
)

type ProjectService struct {
	Projects    repo.ProjectRepository
	Users       repo.UserRepository
	Evaluations repo.EvaluationRepository
	Settings    *SettingsService
	Notifier    *Notifier
	Audit       *Auditor
	GCS         *storage.Client
	GCSBucket   string
	Logger      *logrus.Logger
}

type CreateProjectInput struct {
	Title             string
	Description       string
	IndustryField     string
	EstimatedBudget   string
	EstimatedTimeline string
}

type ProjectQuery struct {
	Search string
	Status string
}

// ProjectList is a filtered page plus counts over the unfiltered set.
type ProjectList struct {
	Items  []entity.Project
	Total  int
	Counts map[entity.ProjectStatus]int
}

type UserDashboard struct {
	Total      int
	InProgress int
	Completed  int
	Recent     []entity.Project
}

type EvaluationInput struct {
	InnovationScore int
	AccuracyScore   int
	UsabilityScore  int
	Comments        string
}

// Create submits a project for the calling industry client.
func (s *ProjectService) Create(ctx context.Context, actor Actor, in CreateProjectInput) (*entity.Project, error) {
	if actor.Role != entity.UserTypeIndustry {
		return nil, ErrForbidden
	}
	client, err := s.Users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if limit := s.Settings.Current(ctx).MaxProjectsPerUser; limit > 0 {
		open, err := s.Projects.CountOpenByClient(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if open >= limit {
			return nil, ErrProjectLimit
		}
	}
	p := &entity.Project{
		Title:             strings.TrimSpace(in.Title),
		Description:       strings.TrimSpace(in.Description),
		IndustryField:     strings.TrimSpace(in.IndustryField),
		EstimatedBudget:   strings.TrimSpace(in.EstimatedBudget),
		EstimatedTimeline: strings.TrimSpace(in.EstimatedTimeline),
		Status:            entity.StatusPending,
		ClientID:          client.ID,
		ClientName:        client.DisplayOrganization(),
		TeamMembers:       []entity.TeamMember{},
		Attachments:       []string{},
	}
	if err := s.Projects.Create(ctx, p); err != nil {
		return nil, err
	}
	s.Notifier.ProjectSubmitted(ctx, p, client)
	s.Audit.Record(ctx, actor.ID, client.Email, "project_create", RequestMeta{}, map[string]any{"project_id": p.ID})
	return p, nil
}

func (s *ProjectService) ListMine(ctx context.Context, actor Actor, q ProjectQuery) (*ProjectList, error) {
	all, err := s.Projects.List(ctx, scopeFor(actor))
	if err != nil {
		return nil, err
	}
	items := FilterUserProjects(all, q.Search, q.Status)
	return &ProjectList{Items: items, Total: len(all), Counts: CountByStatus(all)}, nil
}

// load returns the project when actor may see it. Invisible and missing
// projects are indistinguishable.
func (s *ProjectService) load(ctx context.Context, actor Actor, id string) (*entity.Project, error) {
	if !validID(id) {
		return nil, ErrProjectNotFound
	}
	p, err := s.Projects.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	if !p.VisibleTo(actor.ID, actor.Role) {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

func (s *ProjectService) Get(ctx context.Context, actor Actor, id string) (*entity.Project, error) {
	return s.load(ctx, actor, id)
}

// Evaluate records the owner's scoring of a completed project and stores
// the rounded mean as the project score.
func (s *ProjectService) Evaluate(ctx context.Context, actor Actor, id string, in EvaluationInput) (*entity.Evaluation, float64, error) {
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, 0, err
	}
	if p.ClientID != actor.ID {
		return nil, 0, ErrForbidden
	}
	if p.Status != entity.StatusCompleted {
		return nil, 0, ErrNotCompleted
	}
	if p.EvaluationScore != nil {
		return nil, 0, ErrAlreadyEvaluated
	}
	e := &entity.Evaluation{
		ProjectID:       p.ID,
		EvaluatorID:     actor.ID,
		InnovationScore: in.InnovationScore,
		AccuracyScore:   in.AccuracyScore,
		UsabilityScore:  in.UsabilityScore,
		Comments:        strings.TrimSpace(in.Comments),
	}
	if !e.ScoresValid() {
		return nil, 0, ErrInvalidScore
	}
	overall := e.Overall()
	if err := s.Evaluations.Create(ctx, e, overall); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, 0, ErrAlreadyEvaluated
		}
		return nil, 0, err
	}
	p.EvaluationScore = &overall
	s.Notifier.EvaluationReceived(ctx, p, overall)
	s.Audit.Record(ctx, actor.ID, "", "project_evaluate", RequestMeta{}, map[string]any{"project_id": p.ID, "score": overall})
	return e, overall, nil
}

func (s *ProjectService) GetEvaluation(ctx context.Context, actor Actor, id string) (*entity.Evaluation, error) {
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	e, err := s.Evaluations.GetByProject(ctx, p.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrEvaluationNotFound
	}
	return e, err
}

// AddAttachment uploads a file for the owner, capped by max_file_size.
func (s *ProjectService) AddAttachment(ctx context.Context, actor Actor, id string, r io.Reader, size int64, filename, contentType string) (string, error) {
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return "", err
	}
	if p.ClientID != actor.ID {
		return "", ErrForbidden
	}
	if size > s.Settings.Current(ctx).MaxFileBytes() {
		return "", ErrFileTooLarge
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", ErrStorageUnavailable
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, helpers.ObjectPath("projects", p.ID, filename), contentType, r)
	if err != nil {
		return "", err
	}
	if err := s.Projects.AddAttachment(ctx, p.ID, url); err != nil {
		return "", err
	}
	return url, nil
}

func (s *ProjectService) Dashboard(ctx context.Context, actor Actor) (*UserDashboard, error) {
	all, err := s.Projects.List(ctx, scopeFor(actor))
	if err != nil {
		return nil, err
	}
	counts := CountByStatus(all)
	return &UserDashboard{
		Total:      len(all),
		InProgress: counts[entity.StatusInProgress],
		Completed:  counts[entity.StatusCompleted],
		Recent:     Latest(all, 5, nil),
	}, nil
}
