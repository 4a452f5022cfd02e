package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	"github.com/oksasatya/academic-bridge/internal/domain/repository"
)

type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Get decodes the stored document over the defaults so keys added later
// keep their factory value.
func (r *SettingsRepository) Get(ctx context.Context) (*entity.PlatformSettings, error) {
	var raw []byte
	if err := r.pool.QueryRow(ctx, `SELECT data FROM platform_settings WHERE id = 1`).Scan(&raw); err != nil {
		return nil, mapErr(err)
	}
	s := entity.DefaultSettings()
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) Save(ctx context.Context, s *entity.PlatformSettings) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO platform_settings (id, data, updated_at) VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`, b)
	return err
}

var _ repository.SettingsRepository = (*SettingsRepository)(nil)
