package helpers

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/academic-bridge/pkg/mailer"
	mailtpl "github.com/oksasatya/academic-bridge/pkg/mailer/templates"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("a-secret", "r-secret", time.Minute, time.Hour)

	access, aexp, err := m.GenerateAccessToken("u1", "s1", "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), aexp, 2*time.Second)

	claims, err := m.ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "s1", claims.SessionID)
	assert.Equal(t, "admin", claims.Role)

	_, err = m.ParseRefreshToken(access)
	assert.Error(t, err, "access token must not validate with the refresh secret")
}

func TestJWTExpired(t *testing.T) {
	m := NewJWTManager("a", "r", -time.Minute, time.Hour)
	tok, _, err := m.GenerateAccessToken("u1", "s1", "student")
	require.NoError(t, err)
	_, err = m.ParseAccessToken(tok)
	assert.Error(t, err)
}

func TestJWTKindAndIssuer(t *testing.T) {
	m := NewJWTManager("same", "same", time.Minute, time.Hour)
	refresh, _, err := m.GenerateRefreshToken("u1", "s1", "student")
	require.NoError(t, err)
	_, err = m.ParseAccessToken(refresh)
	assert.ErrorIs(t, err, ErrTokenKind)

	claims, err := m.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	other := NewJWTManager("same", "same", time.Minute, time.Hour)
	other.Issuer = "someone-else"
	_, err = other.ParseRefreshToken(refresh)
	assert.Error(t, err)
}

func TestPasswordHelpers(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.True(t, CompareHashAndPassword(hash, "password123"))
	assert.False(t, CompareHashAndPassword(hash, "password124"))

	assert.True(t, IsStrongPassword("Str0ng!pass"))
	assert.False(t, IsStrongPassword("weakpass"))
	assert.False(t, IsStrongPassword("NoDigits!!"))
	assert.False(t, IsStrongPassword("S0!a"))
}

func TestGenOTPCode(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := GenOTPCode()
		require.NoError(t, err)
		assert.Len(t, code, 6)
	}
	assert.Equal(t, "login:otp:u1", KeyLoginOTP("u1"))
	assert.Equal(t, "login:trusted:u1:d1", KeyTrustedDevice("u1", "d1"))
}

func TestMapTypeToUniversal(t *testing.T) {
	job := &mailer.EmailJob{To: "a@test.ir", Template: "TEAM_ASSIGNED"}
	MapTypeToUniversal(job)
	EnsureRecipientAndEmail(job)
	assert.Equal(t, "universal", job.Template)
	assert.Equal(t, "team_assigned", job.Data["Type"])
	assert.Equal(t, "a@test.ir", job.Data["RecipientEmail"])

	raw := &mailer.EmailJob{To: "b@test.ir", Template: "custom"}
	MapTypeToUniversal(raw)
	assert.Equal(t, "custom", raw.Template)
}

func TestObjectPath(t *testing.T) {
	p := ObjectPath("avatars", "u1", "My Photo.PNG")
	assert.Contains(t, p, "avatars/u1/")
	assert.Contains(t, p, ".png")

	url := PublicURL("bridge-files", p)
	key, ok := ObjectKey("bridge-files", url)
	assert.True(t, ok)
	assert.Equal(t, p, key)
	_, ok = ObjectKey("other-bucket", url)
	assert.False(t, ok)
}

type fixedGeo struct {
	tz  string
	err error
}

func (f fixedGeo) Lookup(context.Context, string) (mailtpl.Geo, error) {
	return mailtpl.Geo{Timezone: f.tz}, f.err
}

func TestLocalizeTimes(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	data := map[string]any{"IP": "5.160.0.1", "TimeAt": at.Format(time.RFC3339)}
	LocalizeTimesIfPossible(context.Background(), fixedGeo{tz: "Asia/Tehran"}, data)
	assert.Contains(t, data["Time"], "15:30")

	untouched := map[string]any{"IP": "5.160.0.1", "Time": "orig", "TimeAt": at.Format(time.RFC3339)}
	LocalizeTimesIfPossible(context.Background(), fixedGeo{err: errors.New("down")}, untouched)
	assert.Equal(t, "orig", untouched["Time"])

	native := map[string]any{"IP": "5.160.0.1", "ExpiresAt": at, "TimeAt": time.Time{}, "Time": "keep"}
	LocalizeTimesIfPossible(context.Background(), fixedGeo{tz: "Asia/Tehran"}, native)
	assert.Equal(t, "01 March 2025, 15:30 +0330", native["ExpiresAtText"])
	assert.Equal(t, "keep", native["Time"])
}

func TestGenToken(t *testing.T) {
	a, err := GenToken(32)
	require.NoError(t, err)
	b, err := GenToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43)
}

func TestRedisHelpers(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	type entry struct{ Name string }
	var got entry
	found, err := RedisGetJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, RedisSetJSON(ctx, rdb, "k", entry{Name: "ali"}, time.Minute))
	found, err = RedisGetJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ali", got.Name)
	require.NoError(t, RedisDel(ctx, rdb))
	require.NoError(t, RedisDel(ctx, rdb, "k"))
	assert.False(t, mr.Exists("k"))

	for i := int64(1); i <= 3; i++ {
		n, err := RedisIncrWindow(ctx, rdb, "fails", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	assert.Equal(t, time.Minute, mr.TTL("fails"))
	mr.FastForward(time.Minute)
	n, err := RedisIncrWindow(ctx, rdb, "fails", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
