package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	"github.com/oksasatya/academic-bridge/internal/domain/repository"
)

type EvaluationRepository struct {
	pool *pgxpool.Pool
}

func NewEvaluationRepository(pool *pgxpool.Pool) *EvaluationRepository {
	return &EvaluationRepository{pool: pool}
}

func (r *EvaluationRepository) Create(ctx context.Context, e *entity.Evaluation, overall float64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO evaluations (project_id, evaluator_id, innovation_score, accuracy_score, usability_score, comments)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text, created_at
	`, e.ProjectID, e.EvaluatorID, e.InnovationScore, e.AccuracyScore, e.UsabilityScore, e.Comments)
	if err := row.Scan(&e.ID, &e.CreatedAt); err != nil {
		return mapErr(err)
	}
	if _, err := tx.Exec(ctx, `UPDATE projects SET evaluation_score = $1, updated_at = now() WHERE id = $2`, overall, e.ProjectID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *EvaluationRepository) GetByProject(ctx context.Context, projectID string) (*entity.Evaluation, error) {
	e := &entity.Evaluation{}
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, project_id::text, evaluator_id::text, innovation_score, accuracy_score, usability_score, comments, created_at
		FROM evaluations WHERE project_id = $1
	`, projectID).Scan(&e.ID, &e.ProjectID, &e.EvaluatorID, &e.InnovationScore, &e.AccuracyScore, &e.UsabilityScore, &e.Comments, &e.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return e, nil
}

var _ repository.EvaluationRepository = (*EvaluationRepository)(nil)
