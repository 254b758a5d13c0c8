package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fyyur/internal/config"
	"github.com/iliyamo/fyyur/internal/web"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

type cachedSite struct {
	e        *echo.Echo
	listHits int
}

func newCachedSite(t *testing.T, rdb *redis.Client) *cachedSite {
	t.Helper()
	logger, _ := test.NewNullLogger()
	s := &cachedSite{e: echo.New()}
	s.e.Use(NewRedisCache(config.CacheConfig{
		Enabled:      true,
		Paths:        map[string]bool{"/venues": true},
		NoPurge:      map[string]bool{"/venues/search": true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "fyyur:page",
		MaxBodyBytes: 1 << 20,
	}, rdb, logger))

	s.e.GET("/venues", func(c echo.Context) error {
		s.listHits++
		c.SetCookie(&http.Cookie{Name: NonceCookie, Value: "browser-a"})
		if msg := web.PopFlash(c); msg != "" {
			return c.HTML(http.StatusOK, "<p>"+msg+"</p><h1>Venues</h1>")
		}
		return c.HTML(http.StatusOK, "<h1>Venues</h1>")
	})
	s.e.POST("/venues/create", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/venues")
	})
	s.e.POST("/venues/search", func(c echo.Context) error {
		return c.HTML(http.StatusOK, "<h1>Results</h1>")
	})
	s.e.POST("/venues/broken", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid")
	})
	return s
}

func (s *cachedSite) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *cachedSite) get(cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/venues", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return s.do(req)
}

func (s *cachedSite) post(target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(url.Values{"search_term": {"Hop"}}.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return s.do(req)
}

func TestRedisCache_SecondGetIsHitWithoutCookies(t *testing.T) {
	mr, rdb := newTestRedis(t)
	site := newCachedSite(t, rdb)

	first := site.get()
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.NotEmpty(t, first.Header().Values(echo.HeaderSetCookie))
	assert.Len(t, mr.Keys(), 1)

	second := site.get()
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Contains(t, second.Header().Get(echo.HeaderContentType), "text/html")
	assert.Empty(t, second.Header().Values(echo.HeaderSetCookie))
	assert.Equal(t, 1, site.listHits)
}

func TestRedisCache_FlashBypassesBothWays(t *testing.T) {
	mr, rdb := newTestRedis(t)
	site := newCachedSite(t, rdb)

	flash := &http.Cookie{Name: web.FlashCookie, Value: "VmVudWUgc2F2ZWQ"} // "Venue saved"

	// a flash request on a cold cache is not stored
	rec := site.get(flash)
	assert.Contains(t, rec.Body.String(), "Venue saved")
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Empty(t, mr.Keys())

	// a flash request on a warm cache is not served from it
	site.get()
	rec = site.get(flash)
	assert.Contains(t, rec.Body.String(), "Venue saved")
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Equal(t, 3, site.listHits)

	// and the cached page never picks up the notice
	rec = site.get()
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.NotContains(t, rec.Body.String(), "Venue saved")
}

func TestRedisCache_SuccessfulWritePurges(t *testing.T) {
	mr, rdb := newTestRedis(t)
	site := newCachedSite(t, rdb)
	mr.Set("unrelated", "keep")

	site.get()
	require.Len(t, mr.Keys(), 2)

	rec := site.post("/venues/create")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []string{"unrelated"}, mr.Keys())

	assert.Equal(t, "MISS", site.get().Header().Get("X-Cache"))
	assert.Equal(t, 2, site.listHits)
}

func TestRedisCache_SearchAndFailedWritesKeepCache(t *testing.T) {
	mr, rdb := newTestRedis(t)
	site := newCachedSite(t, rdb)

	site.get()
	require.Len(t, mr.Keys(), 1)

	require.Equal(t, http.StatusOK, site.post("/venues/search").Code)
	assert.Len(t, mr.Keys(), 1)

	require.Equal(t, http.StatusUnprocessableEntity, site.post("/venues/broken").Code)
	assert.Len(t, mr.Keys(), 1)

	assert.Equal(t, "HIT", site.get().Header().Get("X-Cache"))
}

func newLimitedSite(t *testing.T, rdb *redis.Client) *echo.Echo {
	t.Helper()
	logger, _ := test.NewNullLogger()
	e := echo.New()
	e.Use(NewTokenBucket(config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_route",
		Prefix:         "fyyur:rl",
	}, rdb, logger))
	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	e.GET("/venues/create", ok)
	e.POST("/venues/create", ok)
	return e
}

func submit(e *echo.Echo, method, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/venues/create", nil)
	req.RemoteAddr = ip + ":5555"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTokenBucket_BlocksWithRetryAfter(t *testing.T) {
	mr, rdb := newTestRedis(t)
	e := newLimitedSite(t, rdb)

	first := submit(e, http.MethodPost, "203.0.113.7")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	require.Equal(t, http.StatusOK, submit(e, http.MethodPost, "203.0.113.7").Code)

	blocked := submit(e, http.MethodPost, "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "60", blocked.Header().Get("Retry-After"))
	assert.Equal(t, "0", blocked.Header().Get("X-RateLimit-Remaining"))

	assert.True(t, mr.Exists("fyyur:rl:ip:203.0.113.7:route:POST /venues/create"))
	assert.True(t, mr.TTL("fyyur:rl:ip:203.0.113.7:route:POST /venues/create") > 0)
}

func TestTokenBucket_IgnoresSafeMethodsAndOtherClients(t *testing.T) {
	mr, rdb := newTestRedis(t)
	e := newLimitedSite(t, rdb)

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, submit(e, http.MethodGet, "203.0.113.7").Code)
	}
	assert.Empty(t, mr.Keys())

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, submit(e, http.MethodPost, "203.0.113.7").Code)
	}
	require.Equal(t, http.StatusTooManyRequests, submit(e, http.MethodPost, "203.0.113.7").Code)
	assert.Equal(t, http.StatusOK, submit(e, http.MethodPost, "198.51.100.2").Code)
}
