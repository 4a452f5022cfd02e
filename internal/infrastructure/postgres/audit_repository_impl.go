package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	"github.com/oksasatya/academic-bridge/internal/domain/repository"
)

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func (r *AuditRepository) Insert(ctx context.Context, e entity.AuditEntry) error {
	md := e.Metadata
	if md == nil {
		md = map[string]any{}
	}
	b, err := json.Marshal(md)
	if err != nil {
		return err
	}
	var uid pgtype.UUID
	if parsed, err := uuid.Parse(e.UserID); err == nil {
		uid = pgtype.UUID{Bytes: parsed, Valid: true}
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO audit_logs (user_id, email, action, ip, user_agent, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uid, text(e.Email), e.Action, text(e.IP), text(e.UserAgent), b)
	return err
}

var _ repository.AuditRepository = (*AuditRepository)(nil)
