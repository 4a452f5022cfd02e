package application

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/storage"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	repo "github.com/oksasatya/academic-bridge/internal/domain/repository"
	"github.com/oksasatya/academic-bridge/pkg/helpers"
)

const (
	adminDashboardKey = "admin:dashboard"
	adminDashboardTTL = 30 * time.Second
)

type AdminService struct {
	Projects repo.ProjectRepository
	Users    repo.UserRepository
	Notifier *Notifier
	Audit    *Auditor
	Index    *UserIndex
	Redis    *redis.Client
	Logger   *logrus.Logger

	GCS       *storage.Client
	GCSBucket string
}

type AdminProjectQuery struct {
	Search   string
	Status   string
	Industry string
}

type ProjectStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

type AdminProjectList struct {
	Items      []entity.Project
	Industries []string
	Stats      ProjectStats
}

type UserQuery struct {
	Search   string
	UserType string
	Verified *bool
}

type AdminDashboard struct {
	Projects        ProjectStats     `json:"projects"`
	TotalUsers      int              `json:"total_users"`
	Professors      int              `json:"professors"`
	Students        int              `json:"students"`
	IndustryUsers   int              `json:"industry_users"`
	PendingProjects []entity.Project `json:"pending_projects"`
	RecentProjects  []entity.Project `json:"recent_projects"`
}

func statsOf(items []entity.Project) ProjectStats {
	c := CountByStatus(items)
	return ProjectStats{
		Total:      len(items),
		Pending:    c[entity.StatusPending],
		InProgress: c[entity.StatusInProgress],
		Completed:  c[entity.StatusCompleted],
	}
}

func (s *AdminService) invalidate(ctx context.Context) {
	if s.Redis != nil {
		_ = helpers.RedisDel(ctx, s.Redis, adminDashboardKey)
	}
}

func (s *AdminService) ListProjects(ctx context.Context, q AdminProjectQuery) (*AdminProjectList, error) {
	all, err := s.Projects.List(ctx, repo.ProjectScope{})
	if err != nil {
		return nil, err
	}
	return &AdminProjectList{
		Items:      FilterAdminProjects(all, q.Search, q.Status, q.Industry),
		Industries: Industries(all),
		Stats:      statsOf(all),
	}, nil
}

func (s *AdminService) GetProject(ctx context.Context, id string) (*entity.Project, error) {
	if !validID(id) {
		return nil, ErrProjectNotFound
	}
	p, err := s.Projects.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrProjectNotFound
	}
	return p, err
}

// ChangeStatus moves a project along its lifecycle and notifies the client.
func (s *AdminService) ChangeStatus(ctx context.Context, actor Actor, id string, next entity.ProjectStatus) (*entity.Project, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Status.Transition(next); err != nil {
		return nil, err
	}
	if err := s.Projects.UpdateStatus(ctx, p.ID, p.Status, next); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	prev := p.Status
	p.Status = next
	s.invalidate(ctx)
	if client, err := s.Users.GetByID(ctx, p.ClientID); err == nil {
		s.Notifier.StatusChanged(ctx, p, client)
	}
	s.Audit.Record(ctx, actor.ID, "", "project_status", RequestMeta{}, map[string]any{
		"project_id": p.ID, "from": string(prev), "to": string(next),
	})
	return p, nil
}

func (s *AdminService) DeleteProject(ctx context.Context, actor Actor, id string) error {
	if !validID(id) {
		return ErrProjectNotFound
	}
	p, err := s.Projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	if err := s.Projects.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	s.purgeAttachments(ctx, p.Attachments)
	s.invalidate(ctx)
	s.Audit.Record(ctx, actor.ID, "", "project_delete", RequestMeta{}, map[string]any{"project_id": id})
	return nil
}

// purgeAttachments removes stored files of a deleted project. Failures are
// logged; the project row is already gone.
func (s *AdminService) purgeAttachments(ctx context.Context, urls []string) {
	if s.GCS == nil || s.GCSBucket == "" {
		return
	}
	for _, u := range urls {
		key, ok := helpers.ObjectKey(s.GCSBucket, u)
		if !ok {
			continue
		}
		if err := helpers.DeleteObject(ctx, s.GCS, s.GCSBucket, key); err != nil {
			helpers.LogWarn(s.Logger, "attachment cleanup failed", err, logrus.Fields{"object": key})
		}
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// AssignTeam adds academic users to a project. Existing members stay; an
// approved project starts once it has a team.
func (s *AdminService) AssignTeam(ctx context.Context, actor Actor, id string, userIDs []string) (*entity.Project, error) {
	ids := dedupe(userIDs)
	if len(ids) == 0 {
		return nil, ErrEmptyTeam
	}
	for _, uid := range ids {
		if !validID(uid) {
			return nil, ErrInvalidTeamMember
		}
	}
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.AcceptsTeam() {
		return nil, ErrTeamClosed
	}
	users, err := s.Users.List(ctx, repo.UserFilter{IDs: ids})
	if err != nil {
		return nil, err
	}
	if len(users) != len(ids) {
		return nil, ErrInvalidTeamMember
	}
	added := make([]entity.User, 0, len(users))
	for _, u := range users {
		if !u.UserType.IsAcademic() {
			return nil, ErrInvalidTeamMember
		}
		if !p.HasMember(u.ID) {
			added = append(added, u)
		}
	}
	if err := s.Projects.AddMembers(ctx, p.ID, ids); err != nil {
		return nil, err
	}
	if p.Status == entity.StatusApproved {
		err := s.Projects.UpdateStatus(ctx, p.ID, entity.StatusApproved, entity.StatusInProgress)
		var te *entity.TransitionError
		// a concurrent assignment may already have started the project
		if errors.As(err, &te) && te.From == entity.StatusInProgress {
			err = nil
		}
		if err != nil {
			return nil, err
		}
	}
	s.invalidate(ctx)

	updated, err := s.Projects.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	s.Notifier.TeamAssigned(ctx, updated, added)
	if updated.Status != p.Status {
		if client, err := s.Users.GetByID(ctx, updated.ClientID); err == nil {
			s.Notifier.StatusChanged(ctx, updated, client)
		}
	}
	s.Audit.Record(ctx, actor.ID, "", "project_team_assign", RequestMeta{}, map[string]any{"project_id": p.ID, "user_ids": ids})
	return updated, nil
}

func (s *AdminService) RemoveMember(ctx context.Context, actor Actor, id, userID string) (*entity.Project, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.AcceptsTeam() {
		return nil, ErrTeamClosed
	}
	if !p.HasMember(userID) {
		return nil, ErrNotTeamMember
	}
	if err := s.Projects.RemoveMember(ctx, p.ID, userID); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.Audit.Record(ctx, actor.ID, "", "project_team_remove", RequestMeta{}, map[string]any{"project_id": p.ID, "user_id": userID})
	return s.Projects.GetByID(ctx, p.ID)
}

func (s *AdminService) ListUsers(ctx context.Context, q UserQuery) ([]entity.User, error) {
	users, err := s.Users.List(ctx, repo.UserFilter{})
	if err != nil {
		return nil, err
	}
	return FilterUsers(users, q.Search, q.UserType, q.Verified), nil
}

func (s *AdminService) SetVerification(ctx context.Context, actor Actor, id string, verified bool) (*entity.User, error) {
	if !validID(id) {
		return nil, ErrUserNotFound
	}
	if err := s.Users.SetVerified(ctx, id, verified); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	s.Index.Put(ctx, u)
	s.Audit.Record(ctx, actor.ID, "", "user_verify", RequestMeta{}, map[string]any{"user_id": id, "verified": verified})
	return u, nil
}

// Dashboard aggregates platform stats, cached briefly in Redis.
func (s *AdminService) Dashboard(ctx context.Context) (*AdminDashboard, error) {
	if s.Redis != nil {
		var cached AdminDashboard
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, adminDashboardKey, &cached); err == nil && ok {
			return &cached, nil
		}
	}
	all, err := s.Projects.List(ctx, repo.ProjectScope{})
	if err != nil {
		return nil, err
	}
	byType, err := s.Users.CountByType(ctx)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range byType {
		total += n
	}
	d := &AdminDashboard{
		Projects:        statsOf(all),
		TotalUsers:      total,
		Professors:      byType[entity.UserTypeProfessor],
		Students:        byType[entity.UserTypeStudent],
		IndustryUsers:   byType[entity.UserTypeIndustry],
		PendingProjects: Latest(all, 3, func(p entity.Project) bool { return p.Status == entity.StatusPending }),
		RecentProjects:  Latest(all, 5, nil),
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, adminDashboardKey, d, adminDashboardTTL); err != nil {
			helpers.LogWarn(s.Logger, "cache admin dashboard failed", err, nil)
		}
	}
	return d, nil
}
