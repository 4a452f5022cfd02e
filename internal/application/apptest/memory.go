// Package apptest provides in-memory repositories and a wired service
// harness for tests of the application and HTTP layers.
package apptest

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	repo "github.com/oksasatya/academic-bridge/internal/domain/repository"
)

// Users is a UserRepository kept in a map.
type Users struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func NewUsers() *Users { return &Users{users: map[string]*entity.User{}} }

func (m *Users) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.users {
		if x.Email == u.Email || x.Mobile == u.Mobile {
			return repo.ErrDuplicate
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *Users) find(pred func(*entity.User) bool) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if pred(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *Users) GetByID(_ context.Context, id string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.ID == id })
}

func (m *Users) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.Email == email })
}

func (m *Users) GetByMobile(_ context.Context, mobile string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.Mobile == mobile })
}

func (m *Users) List(_ context.Context, f repo.UserFilter) ([]entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.User{}
	for _, u := range m.users {
		if len(f.UserTypes) > 0 && !slices.Contains(f.UserTypes, u.UserType) {
			continue
		}
		if len(f.IDs) > 0 && !slices.Contains(f.IDs, u.ID) {
			continue
		}
		out = append(out, *u)
	}
	slices.SortFunc(out, func(a, b entity.User) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (m *Users) Update(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *u
	cp.UpdatedAt = time.Now()
	m.users[u.ID] = &cp
	return nil
}

func (m *Users) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *Users) SetVerified(_ context.Context, id string, verified bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.IsVerified = verified
	return nil
}

func (m *Users) CountByType(_ context.Context) (map[entity.UserType]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[entity.UserType]int{}
	for _, u := range m.users {
		out[u.UserType]++
	}
	return out, nil
}

// Projects hydrates team members from the linked Users store like the
// SQL join does.
type Projects struct {
	mu       sync.Mutex
	users    *Users
	projects map[string]*entity.Project
	members  map[string][]string
}

func NewProjects(users *Users) *Projects {
	return &Projects{users: users, projects: map[string]*entity.Project{}, members: map[string][]string{}}
}

func (m *Projects) Create(_ context.Context, p *entity.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = entity.StatusPending
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = p.CreatedAt
	cp := *p
	cp.TeamMembers = nil
	m.projects[p.ID] = &cp
	return nil
}

// hydrate must be called with mu held.
func (m *Projects) hydrate(p entity.Project) entity.Project {
	p.TeamMembers = []entity.TeamMember{}
	for _, uid := range m.members[p.ID] {
		if u, err := m.users.GetByID(context.Background(), uid); err == nil {
			p.TeamMembers = append(p.TeamMembers, entity.TeamMember{
				UserID: u.ID, FullName: u.FullName, Email: u.Email, UserType: u.UserType, Skills: u.Skills,
			})
		}
	}
	p.Attachments = slices.Clone(p.Attachments)
	return p
}

func (m *Projects) GetByID(_ context.Context, id string) (*entity.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	out := m.hydrate(*p)
	return &out, nil
}

func (m *Projects) List(_ context.Context, scope repo.ProjectScope) ([]entity.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.Project{}
	for _, p := range m.projects {
		if scope.ClientID != "" && p.ClientID != scope.ClientID {
			continue
		}
		if scope.MemberID != "" && !slices.Contains(m.members[p.ID], scope.MemberID) {
			continue
		}
		out = append(out, m.hydrate(*p))
	}
	slices.SortFunc(out, func(a, b entity.Project) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (m *Projects) CountOpenByClient(_ context.Context, clientID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.projects {
		if p.ClientID == clientID && !p.Status.Terminal() {
			n++
		}
	}
	return n, nil
}

func (m *Projects) UpdateStatus(_ context.Context, id string, from, to entity.ProjectStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return repo.ErrNotFound
	}
	if p.Status != from {
		return &entity.TransitionError{From: p.Status, To: to}
	}
	p.Status = to
	return nil
}

func (m *Projects) AddMembers(_ context.Context, projectID string, userIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, uid := range userIDs {
		if !slices.Contains(m.members[projectID], uid) {
			m.members[projectID] = append(m.members[projectID], uid)
		}
	}
	return nil
}

func (m *Projects) RemoveMember(_ context.Context, projectID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[projectID] = slices.DeleteFunc(m.members[projectID], func(id string) bool { return id == userID })
	return nil
}

func (m *Projects) AddAttachment(_ context.Context, projectID, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[projectID]
	if !ok {
		return repo.ErrNotFound
	}
	p.Attachments = append(p.Attachments, url)
	return nil
}

func (m *Projects) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.projects, id)
	delete(m.members, id)
	return nil
}

func (m *Projects) setScore(id string, score float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.projects[id]; ok {
		p.EvaluationScore = &score
	}
}

type Evaluations struct {
	mu       sync.Mutex
	projects *Projects
	byID     map[string]*entity.Evaluation
}

func NewEvaluations(p *Projects) *Evaluations {
	return &Evaluations{projects: p, byID: map[string]*entity.Evaluation{}}
}

func (m *Evaluations) Create(_ context.Context, e *entity.Evaluation, overall float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[e.ProjectID]; ok {
		return repo.ErrDuplicate
	}
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now()
	cp := *e
	m.byID[e.ProjectID] = &cp
	m.projects.setScore(e.ProjectID, overall)
	return nil
}

func (m *Evaluations) GetByProject(_ context.Context, projectID string) (*entity.Evaluation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byID[projectID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

type Settings struct {
	mu    sync.Mutex
	saved *entity.PlatformSettings
}

func (m *Settings) Get(context.Context) (*entity.PlatformSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		return nil, repo.ErrNotFound
	}
	cp := *m.saved
	return &cp, nil
}

func (m *Settings) Save(_ context.Context, s *entity.PlatformSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.saved = &cp
	return nil
}

type Audit struct {
	mu      sync.Mutex
	entries []entity.AuditEntry
}

func (m *Audit) Insert(_ context.Context, e entity.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *Audit) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Action
	}
	return out
}

// Publisher records published jobs instead of sending them.
type Publisher struct {
	mu   sync.Mutex
	jobs []any
}

func (p *Publisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, body)
	return nil
}

func (p *Publisher) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.jobs)
}

// Jobs returns a copy of everything published so far.
func (p *Publisher) Jobs() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.jobs)
}

var (
	_ repo.UserRepository       = (*Users)(nil)
	_ repo.ProjectRepository    = (*Projects)(nil)
	_ repo.EvaluationRepository = (*Evaluations)(nil)
	_ repo.SettingsRepository   = (*Settings)(nil)
	_ repo.AuditRepository      = (*Audit)(nil)
)
