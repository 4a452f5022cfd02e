package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	repo "github.com/oksasatya/academic-bridge/internal/domain/repository"
	"github.com/oksasatya/academic-bridge/pkg/helpers"
)

const settingsCacheKey = "platform:settings"

type SettingsService struct {
	Repo     repo.SettingsRepository
	Redis    *redis.Client
	Logger   *logrus.Logger
	CacheTTL time.Duration
}

func NewSettingsService(r repo.SettingsRepository, rdb *redis.Client, logger *logrus.Logger) *SettingsService {
	return &SettingsService{Repo: r, Redis: rdb, Logger: logger, CacheTTL: time.Minute}
}

// Get returns the stored settings, or the defaults when none were saved.
func (s *SettingsService) Get(ctx context.Context) (entity.PlatformSettings, error) {
	if s.Redis != nil {
		var cached entity.PlatformSettings
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, settingsCacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}
	if s.Repo == nil {
		return entity.DefaultSettings(), nil
	}
	stored, err := s.Repo.Get(ctx)
	if errors.Is(err, repo.ErrNotFound) {
		return entity.DefaultSettings(), nil
	}
	if err != nil {
		return entity.DefaultSettings(), err
	}
	s.cache(ctx, *stored)
	return *stored, nil
}

// Current is Get without the error: failures are logged and the defaults used.
func (s *SettingsService) Current(ctx context.Context) entity.PlatformSettings {
	if s == nil {
		return entity.DefaultSettings()
	}
	st, err := s.Get(ctx)
	if err != nil {
		helpers.LogWarn(s.Logger, "load settings failed, using defaults", err, nil)
	}
	return st
}

func (s *SettingsService) Update(ctx context.Context, in entity.PlatformSettings) (entity.PlatformSettings, error) {
	if err := s.Repo.Save(ctx, &in); err != nil {
		return entity.PlatformSettings{}, err
	}
	s.cache(ctx, in)
	return in, nil
}

// Reset stores and returns the factory defaults.
func (s *SettingsService) Reset(ctx context.Context) (entity.PlatformSettings, error) {
	return s.Update(ctx, entity.DefaultSettings())
}

func (s *SettingsService) cache(ctx context.Context, st entity.PlatformSettings) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisSetJSON(ctx, s.Redis, settingsCacheKey, st, s.CacheTTL); err != nil {
		helpers.LogWarn(s.Logger, "cache settings failed", err, nil)
	}
}
