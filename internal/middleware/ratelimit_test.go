package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/semester-scrapbook/internal/config"
)

func rateCtx(t *testing.T, userID string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	req.Header.Set("X-Real-Ip", "10.0.0.7")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/auth/login")
	if userID != "" {
		c.Set("user_id", userID)
	}
	return c
}

func TestBuildRateKeyStrategies(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		userID   string
		want     string
	}{
		{
			name:     "ip only",
			strategy: "ip",
			want:     "rl:ip:10.0.0.7",
		},
		{
			name:     "user only",
			strategy: "user",
			userID:   "user-9",
			want:     "rl:user:user-9",
		},
		{
			name:     "user strategy falls back to anon",
			strategy: "user",
			want:     "rl:user:anon",
		},
		{
			name:     "ip and user",
			strategy: "ip_user",
			userID:   "user-9",
			want:     "rl:ip:10.0.0.7:user:user-9",
		},
		{
			name:     "default includes route",
			strategy: "",
			userID:   "user-9",
			want:     "rl:ip:10.0.0.7:user:user-9:route:POST /v1/auth/login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: tt.strategy}
			got := buildRateKey(cfg, rateCtx(t, tt.userID))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAsInt64(t *testing.T) {
	assert.Equal(t, int64(7), asInt64(int64(7)))
	assert.Equal(t, int64(7), asInt64(7))
	assert.Equal(t, int64(7), asInt64(7.0))
	assert.Equal(t, int64(7), asInt64("7"))
	assert.Equal(t, int64(0), asInt64("not a number"))
	assert.Equal(t, int64(0), asInt64(nil))
}

func TestDisabledLimiterPassesThrough(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)

	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	c := rateCtx(t, "")
	require.NoError(t, h(c))
	assert.True(t, called)
}

func TestNilRedisLimiterPassesThrough(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: true, Prefix: "rl"}, nil)

	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, h(rateCtx(t, "")))
	assert.True(t, called)
}
