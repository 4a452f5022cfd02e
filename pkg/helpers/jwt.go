package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrTokenKind is returned when a token is presented in the wrong role,
// for example a refresh token used as an access token.
var ErrTokenKind = errors.New("token kind mismatch")

const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

// JWTManager signs and verifies the HS256 access/refresh token pair.
// Each kind has its own secret and lifetime.
type JWTManager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

var defaultManager *JWTManager

// NewJWTManager also records the manager as the process default returned
// by DefaultJWT.
func NewJWTManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	m := &JWTManager{
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
		Issuer:        "academic-bridge",
	}
	defaultManager = m
	return m
}

// DefaultJWT returns the last manager built by NewJWTManager.
func DefaultJWT() *JWTManager { return defaultManager }

// Claims identifies the user, their Redis session and role. The session id
// must match the stored session for the token to be accepted.
type Claims struct {
	UserID    string `json:"uid"`
	SessionID string `json:"sid"`
	Role      string `json:"role"`
	Kind      string `json:"kind"`
	jwt.RegisteredClaims
}

func (m *JWTManager) GenerateAccessToken(userID, sessionID, role string) (string, time.Time, error) {
	return m.sign(kindAccess, userID, sessionID, role)
}

func (m *JWTManager) GenerateRefreshToken(userID, sessionID, role string) (string, time.Time, error) {
	return m.sign(kindRefresh, userID, sessionID, role)
}

func (m *JWTManager) ParseAccessToken(token string) (*Claims, error) {
	return m.parse(kindAccess, token)
}

func (m *JWTManager) ParseRefreshToken(token string) (*Claims, error) {
	return m.parse(kindRefresh, token)
}

func (m *JWTManager) keyFor(kind string) ([]byte, time.Duration) {
	if kind == kindRefresh {
		return m.RefreshSecret, m.RefreshTTL
	}
	return m.AccessSecret, m.AccessTTL
}

func (m *JWTManager) sign(kind, userID, sessionID, role string) (string, time.Time, error) {
	secret, ttl := m.keyFor(kind)
	now := time.Now()
	exp := now.Add(ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:    userID,
		SessionID: sessionID,
		Role:      role,
		Kind:      kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := tok.SignedString(secret)
	return signed, exp, err
}

func (m *JWTManager) parse(kind, token string) (*Claims, error) {
	secret, _ := m.keyFor(kind)
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.Issuer))
	}
	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) { return secret, nil }, opts...); err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, ErrTokenKind
	}
	return claims, nil
}
