package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchpoint/court-reservation/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Set("X-Custom", "v")
	body := []byte(`{"slots":[]}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, "v", gotHdr.Get("X-Custom"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsShortInput(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{1, 2, 3})
	assert.False(t, ok)
}

func TestCacheKeyStrategies(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}

	ctxFor := func(method, target string) echo.Context {
		e := echo.New()
		req := httptest.NewRequest(method, target, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/v1/courts/:id/availability")
		return c
	}

	t.Run("route strategy ignores query", func(t *testing.T) {
		cfg.KeyStrategy = "route"
		a := cacheKeyFrom(cfg, ctxFor(http.MethodGet, "/v1/courts/5/availability?date=2026-09-01"))
		b := cacheKeyFrom(cfg, ctxFor(http.MethodGet, "/v1/courts/5/availability?date=2026-09-02"))
		assert.Equal(t, a, b)
	})

	t.Run("route_query separates dates", func(t *testing.T) {
		cfg.KeyStrategy = "route_query"
		a := cacheKeyFrom(cfg, ctxFor(http.MethodGet, "/v1/courts/5/availability?date=2026-09-01"))
		b := cacheKeyFrom(cfg, ctxFor(http.MethodGet, "/v1/courts/5/availability?date=2026-09-02"))
		assert.NotEqual(t, a, b)
	})

	t.Run("keys carry the prefix", func(t *testing.T) {
		cfg.KeyStrategy = "route_query"
		key := cacheKeyFrom(cfg, ctxFor(http.MethodGet, "/v1/complexes"))
		assert.Regexp(t, `^cache:[0-9a-f]{40}$`, key)
	})
}

func TestNewRedisCachePassthroughWhenDisabled(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/complexes", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}
