package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("JWT_ACCESS_TTL", "")
	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.Hour, cfg.AccessTTL)
	assert.Equal(t, "admin@clinic.com", cfg.SeedAdminEmail)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_ACCESS_TTL", "15m")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestListsAndDSN(t *testing.T) {
	cfg := &Config{
		CORSAllowedOrigins: " http://a.test, ,http://b.test",
		ElasticsearchAddrs: "http://es:9200",
		DBUser:             "u",
		DBPassword:         "p",
		DBHost:             "db",
		DBPort:             "5432",
		DBName:             "app",
		DBSSLMode:          "disable",
	}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
	assert.Equal(t, []string{"http://es:9200"}, cfg.ESAddrs())
	assert.Equal(t, "postgres://u:p@db:5432/app?sslmode=disable", cfg.PostgresDSN())
}

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromLookupReportsInvalidValues(t *testing.T) {
	cfg, warnings := FromLookup(lookupFrom(map[string]string{
		"DB_MAX_CONNS":      "many",
		"MAIL_SEND_ENABLED": "nope",
		"DB_NAME":           "bridge_test",
	}))
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.True(t, cfg.MailSendEnabled)
	assert.Equal(t, "bridge_test", cfg.DBName)
	assert.Len(t, warnings, 2)
}

func TestValidate(t *testing.T) {
	cfg, _ := FromLookup(lookupFrom(nil))
	assert.NoError(t, cfg.Validate())

	cfg.Env = "production"
	err := cfg.Validate()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "JWT secrets")
		assert.Contains(t, err.Error(), "COOKIE_SECURE")
	}

	cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.CookieSecure = "a", "b", true
	assert.NoError(t, cfg.Validate())

	cfg.DBMinConns = 50
	assert.Error(t, cfg.Validate())
}

func TestPostgresDSNEscapesCredentials(t *testing.T) {
	cfg := &Config{DBUser: "app", DBPassword: "p@ss/word", DBHost: "db", DBPort: "5432", DBName: "x", DBSSLMode: "require"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/x?sslmode=require", cfg.PostgresDSN())
}
