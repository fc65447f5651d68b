package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-booking/internal/config"
	"github.com/iliyamo/hotel-booking/internal/utils"
)

const secret = "test-secret"

func whoami(c echo.Context) error {
	id, _ := UserID(c)
	return c.JSON(http.StatusOK, echo.Map{"id": id, "role": Role(c)})
}

func serve(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	e := echo.New()
	e.GET("/x", whoami, JWTAuth(secret), RequireRole("STAFF"))

	staff, err := utils.NewAccessToken(secret, 9, "STAFF", time.Minute)
	require.NoError(t, err)
	guest, err := utils.NewAccessToken(secret, 7, "GUEST", time.Minute)
	require.NoError(t, err)
	expired, err := utils.NewAccessToken(secret, 9, "STAFF", -time.Minute)
	require.NoError(t, err)
	forged, err := utils.NewAccessToken("other", 9, "STAFF", time.Minute)
	require.NoError(t, err)

	rec := serve(e, staff.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":9,"role":"STAFF"}`, rec.Body.String())

	assert.Equal(t, http.StatusForbidden, serve(e, guest.Token).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, expired.Token).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, forged.Token).Code)
}

func TestJWTAuth_StringSubjectAndBadAlg(t *testing.T) {
	e := echo.New()
	e.GET("/x", whoami, JWTAuth(secret))

	str, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "12", "role": "GUEST", "exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	rec := serve(e, str)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":12,"role":"GUEST"}`, rec.Body.String())

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": 12, "role": "GUEST", "exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(e, hs512).Code)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": 12, "role": "GUEST"}).SignedString([]byte(secret))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(e, noExp).Code)
}

func TestSubject(t *testing.T) {
	id, err := subject(float64(5))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), id)

	for _, bad := range []any{float64(0), float64(1.5), "abc", "0", nil, true} {
		_, err := subject(bad)
		assert.Error(t, err, "%v", bad)
	}
}

func TestTokenBucket(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.RateLimitConfig{
		Enabled: true, Capacity: 2, RefillTokens: 1, RefillInterval: time.Hour,
		TTL: time.Hour, KeyStrategy: "ip", Prefix: "rl",
	}
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, NewTokenBucket(cfg, rdb))

	assert.Equal(t, http.StatusNoContent, serve(e, "").Code)
	rec := serve(e, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = serve(e, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestTokenBucket_DisabledOrNoRedis(t *testing.T) {
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
		NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, serve(e, "").Code)
	}
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/reservations", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/reservations")
	c.Set(CtxUserID, uint64(7))

	assert.Equal(t, "rl:ip:10.0.0.1:user:7:route:POST /v1/reservations",
		buildRateKey(config.RateLimitConfig{Prefix: "rl"}, c))
	assert.Equal(t, "rl:user:7", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}, c))
}
