package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/hotel-booking/internal/config"
	"github.com/iliyamo/hotel-booking/internal/utils"
)

const testSecret = "test-secret"

func newEcho(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.Use(mw...)
	e.GET("/whoami", func(c echo.Context) error {
		return c.String(http.StatusOK, VisitorID(c))
	})
	return e
}

func TestVisitorMintsTokenWhenMissing(t *testing.T) {
	e := newEcho(Visitor(testSecret, time.Hour, false, nil))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	raw := rec.Header().Get(VisitorHeader)
	require.NotEmpty(t, raw)
	tok, err := utils.ParseVisitorToken(testSecret, raw)
	require.NoError(t, err)
	assert.Equal(t, tok.VisitorID, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, VisitorCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestVisitorReusesValidToken(t *testing.T) {
	e := newEcho(Visitor(testSecret, time.Hour, false, nil))
	tok, err := utils.NewVisitorToken(testSecret, time.Hour)
	require.NoError(t, err)

	t.Run("bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+tok.Token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, tok.VisitorID, rec.Body.String())
		assert.Empty(t, rec.Header().Get(VisitorHeader))
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: VisitorCookie, Value: tok.Token})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, tok.VisitorID, rec.Body.String())
	})
}

func TestVisitorRefreshesNearExpiry(t *testing.T) {
	e := newEcho(Visitor(testSecret, time.Hour, false, nil))
	tok, err := utils.SignVisitorToken(testSecret, "7f9c2a52-8f4e-4b8a-9c1d-2b3a4c5d6e7f", 5*time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, tok.VisitorID, rec.Body.String())
	fresh, err := utils.ParseVisitorToken(testSecret, rec.Header().Get(VisitorHeader))
	require.NoError(t, err)
	assert.Equal(t, tok.VisitorID, fresh.VisitorID)
	assert.True(t, fresh.Exp.After(tok.Exp))
}

func TestVisitorReplacesForgedToken(t *testing.T) {
	e := newEcho(Visitor(testSecret, time.Hour, false, nil))
	forged, err := utils.NewVisitorToken("someone-else", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+forged.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.NotEqual(t, forged.VisitorID, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(VisitorHeader))
}

func TestLocalRateLimit(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled: true, Capacity: 2, RefillTokens: 1,
		RefillInterval: time.Hour, TTL: time.Hour, Prefix: "rl",
	}
	e := newEcho(Visitor(testSecret, time.Hour, false, nil), NewTokenBucket(cfg, nil, nil))
	tok, err := utils.NewVisitorToken(testSecret, time.Hour)
	require.NoError(t, err)

	call := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, call(tok.Token).Code)
	assert.Equal(t, http.StatusOK, call(tok.Token).Code)
	blocked := call(tok.Token)
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))

	other, err := utils.NewVisitorToken(testSecret, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, call(other.Token).Code)
}

func TestRateLimitDisabled(t *testing.T) {
	e := newEcho(NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil, nil))
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestCachePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 1, 0})
	assert.False(t, ok)
}

func TestCaptureWriterOverflow(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	assert.False(t, cw.overflow)
	_, _ = cw.Write([]byte("def"))
	assert.True(t, cw.overflow)
	assert.Equal(t, "abcdef", rec.Body.String())
}

func TestRequestLoggerLevels(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := echo.New()
	e.Use(RequestLogger(zap.New(core)))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusBadGateway, "upstream") })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	assert.EqualValues(t, http.StatusBadGateway, entries[1].ContextMap()["status"])
}
