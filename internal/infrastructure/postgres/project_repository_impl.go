package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	"github.com/oksasatya/academic-bridge/internal/domain/repository"
)

const projectColumns = `p.id::text, p.title, p.description, p.industry_field, p.estimated_budget, p.estimated_timeline,
	p.status, p.client_id::text, p.client_name, p.attachments, p.evaluation_score::float8, p.created_at, p.updated_at`

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func scanProject(row pgx.Row) (*entity.Project, error) {
	p := &entity.Project{}
	var status string
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.IndustryField, &p.EstimatedBudget, &p.EstimatedTimeline,
		&status, &p.ClientID, &p.ClientName, &p.Attachments, &p.EvaluationScore, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	p.Status = entity.ProjectStatus(status)
	return p, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *entity.Project) error {
	if p.Attachments == nil {
		p.Attachments = []string{}
	}
	if p.Status == "" {
		p.Status = entity.StatusPending
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO projects (title, description, industry_field, estimated_budget, estimated_timeline, status, client_id, client_name, attachments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id::text, created_at, updated_at
	`, p.Title, p.Description, p.IndustryField, p.EstimatedBudget, p.EstimatedTimeline, string(p.Status), p.ClientID, p.ClientName, p.Attachments)
	return mapErr(row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt))
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	p, err := scanProject(r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects p WHERE p.id = $1`, id))
	if err != nil {
		return nil, err
	}
	members, err := r.members(ctx, []string{p.ID})
	if err != nil {
		return nil, err
	}
	p.TeamMembers = members[p.ID]
	return p, nil
}

func (r *ProjectRepository) List(ctx context.Context, scope repository.ProjectScope) ([]entity.Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+projectColumns+`
		FROM projects p
		WHERE ($1 = '' OR p.client_id::text = $1)
		  AND ($2 = '' OR EXISTS (
		      SELECT 1 FROM project_members m WHERE m.project_id = p.id AND m.user_id::text = $2))
		ORDER BY p.created_at DESC
	`, scope.ClientID, scope.MemberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Project{}
	ids := []string{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	members, err := r.members(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].TeamMembers = members[out[i].ID]
	}
	return out, nil
}

// members loads team members for the given projects keyed by project id.
func (r *ProjectRepository) members(ctx context.Context, projectIDs []string) (map[string][]entity.TeamMember, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.project_id::text, u.id::text, u.full_name, u.email, u.user_type, u.skills, m.assigned_at
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id::text = ANY($1)
		ORDER BY m.assigned_at
	`, projectIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]entity.TeamMember, len(projectIDs))
	for rows.Next() {
		var pid, userType string
		var m entity.TeamMember
		if err := rows.Scan(&pid, &m.UserID, &m.FullName, &m.Email, &userType, &m.Skills, &m.AssignedAt); err != nil {
			return nil, err
		}
		m.UserType = entity.UserType(userType)
		out[pid] = append(out[pid], m)
	}
	return out, rows.Err()
}

func (r *ProjectRepository) CountOpenByClient(ctx context.Context, clientID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM projects
		WHERE client_id = $1 AND status NOT IN ('rejected', 'completed')
	`, clientID).Scan(&n)
	return n, err
}

func (r *ProjectRepository) UpdateStatus(ctx context.Context, id string, from, to entity.ProjectStatus) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE projects SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`, string(to), time.Now(), id, string(from))
	if err != nil {
		return err
	}
	if res.RowsAffected() == 1 {
		return nil
	}
	var current string
	if err := r.pool.QueryRow(ctx, `SELECT status FROM projects WHERE id = $1`, id).Scan(&current); err != nil {
		return mapErr(err)
	}
	return &entity.TransitionError{From: entity.ProjectStatus(current), To: to}
}

func (r *ProjectRepository) AddMembers(ctx context.Context, projectID string, userIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, uid := range userIDs {
		batch.Queue(`
			INSERT INTO project_members (project_id, user_id) VALUES ($1, $2)
			ON CONFLICT (project_id, user_id) DO NOTHING
		`, projectID, uid)
	}
	batch.Queue(`UPDATE projects SET updated_at = now() WHERE id = $1`, projectID)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapErr(err)
	}
	return tx.Commit(ctx)
}

func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) AddAttachment(ctx context.Context, projectID, url string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE projects SET attachments = array_append(attachments, $1), updated_at = now() WHERE id = $2
	`, url, projectID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ProjectRepository = (*ProjectRepository)(nil)
