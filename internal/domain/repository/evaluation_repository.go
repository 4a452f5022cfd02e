package repository

import (
	"context"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
)

type EvaluationRepository interface {
	// Create stores the evaluation and the project's overall score atomically.
	// Returns ErrDuplicate when the project was already evaluated.
	Create(ctx context.Context, e *entity.Evaluation, overall float64) error
	GetByProject(ctx context.Context, projectID string) (*entity.Evaluation, error)
}
