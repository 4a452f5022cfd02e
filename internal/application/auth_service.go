package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/academic-bridge/config"
	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	repo "github.com/oksasatya/academic-bridge/internal/domain/repository"
	"github.com/oksasatya/academic-bridge/pkg/helpers"
)

const (
	loginFailureWindow = 15 * time.Minute
	loginOTPTTL        = 5 * time.Minute
	trustedDeviceTTL   = 30 * 24 * time.Hour
	verifyTokenTTL     = 24 * time.Hour
	resetTokenTTL      = 30 * time.Minute
)

type AuthService struct {
	Users    repo.UserRepository
	Sessions *Sessions
	Settings *SettingsService
	Notifier *Notifier
	Audit    *Auditor
	Index    *UserIndex
	Redis    *redis.Client
	Cfg      *config.Config
	Logger   *logrus.Logger
}

type SignupInput struct {
	FullName    string
	Email       string
	Mobile      string
	Password    string
	UserType    entity.UserType
	CompanyName string
}

type SignupResult struct {
	User       *entity.User
	Tokens     TokenPair
	VerifyLink string
}

// LoginResult carries tokens, or OTPRequired when a code was sent instead.
type LoginResult struct {
	User        *entity.User
	Tokens      TokenPair
	OTPRequired bool
}

func (s *AuthService) devLinks() bool {
	return s.Cfg != nil && s.Cfg.Env == "development"
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput, meta RequestMeta) (*SignupResult, error) {
	st := s.Settings.Current(ctx)
	if !st.AllowUserRegistration {
		return nil, ErrRegistrationClosed
	}
	if !in.UserType.SelfRegistrable() {
		return nil, ErrForbidden
	}
	if st.RequireStrongPasswords && !helpers.IsStrongPassword(in.Password) {
		return nil, ErrWeakPassword
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	mobile := strings.TrimSpace(in.Mobile)
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if _, err := s.Users.GetByMobile(ctx, mobile); err == nil {
		return nil, ErrMobileTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        email,
		Mobile:       mobile,
		PasswordHash: hash,
		UserType:     in.UserType,
		CompanyName:  strings.TrimSpace(in.CompanyName),
		Skills:       []string{},
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			if strings.Contains(err.Error(), "mobile") {
				return nil, ErrMobileTaken
			}
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.Index.Put(ctx, u)
	s.Audit.Record(ctx, u.ID, u.Email, "signup", meta, map[string]any{"user_type": string(u.UserType)})

	res := &SignupResult{User: u}
	if st.RequireEmailVerification {
		link, err := s.issueVerifyLink(ctx, u, meta)
		if err != nil {
			helpers.LogWarn(s.Logger, "issue verify link failed", err, logrus.Fields{"user_id": u.ID})
		} else if s.devLinks() {
			res.VerifyLink = link
		}
	}
	res.Tokens, err = s.Sessions.Issue(ctx, u, SessionTTL(st))
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *AuthService) lookup(ctx context.Context, identifier string) (*entity.User, error) {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return s.Users.GetByEmail(ctx, strings.ToLower(identifier))
	}
	return s.Users.GetByMobile(ctx, identifier)
}

func (s *AuthService) failureCount(ctx context.Context, key string) int64 {
	if s.Redis == nil {
		return 0
	}
	n, err := s.Redis.Get(ctx, key).Int64()
	if err != nil {
		return 0
	}
	return n
}

// Login checks the password, applies the lockout policy and either issues
// tokens or starts the one-time-code step. deviceID is the trusted-device
// cookie value, possibly empty.
//
// Failures count per account, so switching between email and mobile does
// not reset the budget. Unknown identifiers count under the identifier.
func (s *AuthService) Login(ctx context.Context, identifier, password, deviceID string, meta RequestMeta) (*LoginResult, error) {
	st := s.Settings.Current(ctx)
	maxAttempts := int64(st.MaxLoginAttempts)

	u, err := s.lookup(ctx, identifier)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	failKey := helpers.KeyLoginFailures(strings.ToLower(strings.TrimSpace(identifier)))
	if u != nil {
		failKey = helpers.KeyLoginFailures(u.ID)
	}

	if maxAttempts > 0 && s.failureCount(ctx, failKey) >= maxAttempts {
		s.Audit.Record(ctx, "", identifier, "login_locked", meta, nil)
		return nil, ErrAccountLocked
	}

	if u == nil || !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		s.Audit.Record(ctx, "", identifier, "login_failed", meta, nil)
		if s.Redis != nil && maxAttempts > 0 {
			n, rErr := helpers.RedisIncrWindow(ctx, s.Redis, failKey, loginFailureWindow)
			if rErr == nil && n >= maxAttempts {
				return nil, ErrAccountLocked
			}
		}
		return nil, ErrInvalidCredentials
	}
	if s.Redis != nil {
		_ = helpers.RedisDel(ctx, s.Redis, failKey)
	}

	if st.EnableTwoFactorAuth {
		if s.Redis == nil {
			helpers.LogWarn(s.Logger, "two-factor login refused", ErrUnavailable, logrus.Fields{"user_id": u.ID})
			return nil, ErrUnavailable
		}
		if !s.trusted(ctx, u.ID, deviceID) {
			code, err := helpers.GenOTPCode()
			if err != nil {
				return nil, err
			}
			if err := s.Redis.Set(ctx, helpers.KeyLoginOTP(u.ID), code, loginOTPTTL).Err(); err != nil {
				return nil, err
			}
			s.Notifier.LoginCode(ctx, u, code, loginOTPTTL, meta)
			s.Audit.Record(ctx, u.ID, u.Email, "login_otp_sent", meta, nil)
			return &LoginResult{User: u, OTPRequired: true}, nil
		}
	}

	pair, err := s.Sessions.Issue(ctx, u, SessionTTL(st))
	if err != nil {
		return nil, err
	}
	s.Audit.Record(ctx, u.ID, u.Email, "login", meta, nil)
	return &LoginResult{User: u, Tokens: pair}, nil
}

func (s *AuthService) trusted(ctx context.Context, userID, deviceID string) bool {
	if deviceID == "" {
		return false
	}
	n, err := s.Redis.Exists(ctx, helpers.KeyTrustedDevice(userID, deviceID)).Result()
	return err == nil && n == 1
}

// ConfirmOTP completes a two-step login. When trust is set the device is
// remembered and its id returned for the cookie.
func (s *AuthService) ConfirmOTP(ctx context.Context, email, code string, trust bool, deviceID string, meta RequestMeta) (*LoginResult, string, error) {
	if s.Redis == nil {
		return nil, "", ErrUnavailable
	}
	u, err := s.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", ErrInvalidOTP
	}
	key := helpers.KeyLoginOTP(u.ID)
	want, err := s.Redis.Get(ctx, key).Result()
	if err != nil || want == "" || want != strings.TrimSpace(code) {
		s.Audit.Record(ctx, u.ID, u.Email, "login_otp_failed", meta, nil)
		return nil, "", ErrInvalidOTP
	}
	_ = helpers.RedisDel(ctx, s.Redis, key)

	if trust {
		if deviceID == "" {
			deviceID = uuid.NewString()
		}
		if err := s.Redis.Set(ctx, helpers.KeyTrustedDevice(u.ID, deviceID), "1", trustedDeviceTTL).Err(); err != nil {
			helpers.LogWarn(s.Logger, "store trusted device failed", err, logrus.Fields{"user_id": u.ID})
		}
	} else {
		deviceID = ""
	}

	pair, err := s.Sessions.Issue(ctx, u, SessionTTL(s.Settings.Current(ctx)))
	if err != nil {
		return nil, "", err
	}
	s.Audit.Record(ctx, u.ID, u.Email, "login_otp_confirmed", meta, map[string]any{"trusted": trust})
	return &LoginResult{User: u, Tokens: pair}, deviceID, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.Sessions.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	return s.Sessions.Rotate(ctx, u, claims, SessionTTL(s.Settings.Current(ctx)))
}

func (s *AuthService) Logout(ctx context.Context, userID string, meta RequestMeta) error {
	if userID == "" {
		return nil
	}
	s.Audit.Record(ctx, userID, "", "logout", meta, nil)
	return s.Sessions.Revoke(ctx, userID)
}

func (s *AuthService) issueVerifyLink(ctx context.Context, u *entity.User, meta RequestMeta) (string, error) {
	if s.Redis == nil {
		return "", ErrUnavailable
	}
	tok, err := helpers.GenToken(32)
	if err != nil {
		return "", err
	}
	if err := s.Redis.Set(ctx, helpers.KeyVerifyToken(tok), u.ID, verifyTokenTTL).Err(); err != nil {
		return "", err
	}
	link := s.Cfg.VerifyEmailURL + "?token=" + tok
	s.Notifier.VerifyEmail(ctx, u, link, verifyTokenTTL, meta)
	s.Audit.Record(ctx, u.ID, u.Email, "verify_init_issue", meta, nil)
	return link, nil
}

// VerifyInit issues a verification link. already is true when the user is
// verified; link is only returned in development.
func (s *AuthService) VerifyInit(ctx context.Context, userID string, meta RequestMeta) (link string, already bool, err error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return "", false, ErrUserNotFound
	}
	if u.IsVerified {
		s.Audit.Record(ctx, u.ID, u.Email, "verify_init_already", meta, nil)
		return "", true, nil
	}
	link, err = s.issueVerifyLink(ctx, u, meta)
	if err != nil {
		return "", false, err
	}
	if !s.devLinks() {
		link = ""
	}
	return link, false, nil
}

func (s *AuthService) VerifyConfirm(ctx context.Context, token string, meta RequestMeta) error {
	if s.Redis == nil {
		return ErrUnavailable
	}
	uid, err := s.Redis.Get(ctx, helpers.KeyVerifyToken(token)).Result()
	if err != nil || uid == "" {
		return ErrInvalidToken
	}
	if err := s.Users.SetVerified(ctx, uid, true); err != nil {
		return err
	}
	_ = helpers.RedisDel(ctx, s.Redis, helpers.KeyVerifyToken(token))
	if u, err := s.Users.GetByID(ctx, uid); err == nil {
		s.Index.Put(ctx, u)
	}
	s.Audit.Record(ctx, uid, "", "verify_confirm", meta, nil)
	return nil
}

// ResetInit never reveals whether email exists. The link is only returned
// in development.
func (s *AuthService) ResetInit(ctx context.Context, email string, meta RequestMeta) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil || s.Redis == nil {
		s.Audit.Record(ctx, "", email, "reset_init_unknown", meta, nil)
		return "", nil
	}
	tok, err := helpers.GenToken(32)
	if err != nil {
		return "", err
	}
	if err := s.Redis.Set(ctx, helpers.KeyResetToken(tok), u.ID, resetTokenTTL).Err(); err != nil {
		return "", err
	}
	link := s.Cfg.ResetPasswordURL + "?token=" + tok
	s.Notifier.ResetPassword(ctx, u, link, resetTokenTTL, meta)
	s.Audit.Record(ctx, u.ID, u.Email, "reset_init_issue", meta, nil)
	if !s.devLinks() {
		return "", nil
	}
	return link, nil
}

// ResetConfirm sets a new password and ends any active session.
func (s *AuthService) ResetConfirm(ctx context.Context, token, newPassword string, meta RequestMeta) error {
	if s.Redis == nil {
		return ErrUnavailable
	}
	uid, err := s.Redis.Get(ctx, helpers.KeyResetToken(token)).Result()
	if err != nil || uid == "" {
		return ErrInvalidToken
	}
	if s.Settings.Current(ctx).RequireStrongPasswords && !helpers.IsStrongPassword(newPassword) {
		return ErrWeakPassword
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Users.UpdatePassword(ctx, uid, hash); err != nil {
		return err
	}
	_ = helpers.RedisDel(ctx, s.Redis, helpers.KeyResetToken(token))
	_ = s.Sessions.Revoke(ctx, uid)
	s.Audit.Record(ctx, uid, "", "reset_confirm", meta, nil)
	return nil
}
