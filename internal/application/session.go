package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	"github.com/oksasatya/academic-bridge/pkg/helpers"
)

const defaultSessionTTL = 24 * time.Hour

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// Sessions issues token pairs bound to a Redis session hash. Rotating the
// session id invalidates every token issued before it.
type Sessions struct {
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewSessions(jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *Sessions {
	return &Sessions{JWT: jwt, Redis: rdb, Logger: logger}
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// SessionTTL converts the session_timeout setting (minutes) to a duration.
func SessionTTL(st entity.PlatformSettings) time.Duration {
	if st.SessionTimeout <= 0 {
		return defaultSessionTTL
	}
	return time.Duration(st.SessionTimeout) * time.Minute
}

func (s *Sessions) sign(u *entity.User, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid, string(u.UserType))
	if err != nil {
		helpers.LogError(s.Logger, "generate access token failed", err, logrus.Fields{"user_id": u.ID})
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid, string(u.UserType))
	if err != nil {
		helpers.LogError(s.Logger, "generate refresh token failed", err, logrus.Fields{"user_id": u.ID})
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Issue starts a new session for u.
func (s *Sessions) Issue(ctx context.Context, u *entity.User, ttl time.Duration) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.sign(u, sid)
	if err != nil {
		return TokenPair{}, err
	}
	if s.Redis != nil {
		key := helpers.KeySession(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.FullName,
			"role":       string(u.UserType),
			"avatar_url": u.ProfilePictureURL,
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, ttl)
		if _, rErr := pipe.Exec(ctx); rErr != nil {
			helpers.LogWarn(s.Logger, "redis pipeline failed", rErr, logrus.Fields{"key": key})
		}
	}
	return pair, nil
}

// Rotate checks claims against the stored session and swaps in a new sid.
func (s *Sessions) Rotate(ctx context.Context, u *entity.User, claims *helpers.Claims, ttl time.Duration) (TokenPair, error) {
	if s.Redis != nil {
		data, err := s.Redis.HGetAll(ctx, helpers.KeySession(u.ID)).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, ErrInvalidCredentials
		}
	}
	sid := uuid.NewString()
	pair, err := s.sign(u, sid)
	if err != nil {
		return TokenPair{}, err
	}
	if s.Redis != nil {
		key := helpers.KeySession(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"sid":        sid,
			"role":       string(u.UserType),
			"updated_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, ttl)
		_, _ = pipe.Exec(ctx)
	}
	return pair, nil
}

// Touch refreshes the cached profile fields and keeps the remaining TTL.
func (s *Sessions) Touch(ctx context.Context, u *entity.User) {
	if s == nil || s.Redis == nil {
		return
	}
	key := helpers.KeySession(u.ID)
	ttl, err := s.Redis.TTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		return
	}
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"email":      u.Email,
		"name":       u.FullName,
		"avatar_url": u.ProfilePictureURL,
		"updated_at": nowRFC3339(),
	})
	pipe.Expire(ctx, key, ttl)
	if _, pErr := pipe.Exec(ctx); pErr != nil {
		helpers.LogWarn(s.Logger, "redis pipeline failed", pErr, logrus.Fields{"key": key})
	}
}

func (s *Sessions) Revoke(ctx context.Context, userID string) error {
	if s.Redis == nil {
		return nil
	}
	return helpers.RedisDel(ctx, s.Redis, helpers.KeySession(userID))
}
