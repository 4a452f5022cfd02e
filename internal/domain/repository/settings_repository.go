package repository

import (
	"context"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
)

type SettingsRepository interface {
	// Get returns ErrNotFound when settings were never saved.
	Get(ctx context.Context) (*entity.PlatformSettings, error)
	Save(ctx context.Context, s *entity.PlatformSettings) error
}

type AuditRepository interface {
	Insert(ctx context.Context, e entity.AuditEntry) error
}
