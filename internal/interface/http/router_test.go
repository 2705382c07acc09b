package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/uptime-status/internal/domain/auth"
	"github.com/yanqian/uptime-status/internal/domain/monitor"
	"github.com/yanqian/uptime-status/internal/infra/config"
	"github.com/yanqian/uptime-status/internal/infra/respcache"
	"github.com/yanqian/uptime-status/internal/infra/uptimerobot"
	"github.com/yanqian/uptime-status/pkg/metrics"
)

func TestRouter_GetMonitorsThenCache(t *testing.T) {
	upstream := newFakeUpstream(t)
	env := newTestEnv(t, testConfig(upstream.URL()))

	first := env.post("/api/getMonitors", "", nil)
	require.Equal(t, http.StatusOK, first.Code)
	body := decodeEnvelope(t, first)
	require.Equal(t, 200, body.Code)
	require.Equal(t, "success", body.Message)
	require.Equal(t, "api", body.Source)
	require.NotNil(t, body.Data)
	require.Len(t, body.Data.Monitors, 1)
	require.Equal(t, "Homepage", body.Data.Monitors[0].Name)
	require.Len(t, body.Data.Monitors[0].Days, 3)

	second := env.post("/api/getMonitors", "", nil)
	require.Equal(t, http.StatusOK, second.Code)
	cached := decodeEnvelope(t, second)
	require.Equal(t, "cache", cached.Source)
	require.Equal(t, body.Data, cached.Data)
	require.Equal(t, int32(1), upstream.calls.Load())
	require.Equal(t, "ur-test-key", upstream.lastKey.Load())
}

func TestRouter_GetMonitorsMissingAPIURL(t *testing.T) {
	upstream := newFakeUpstream(t)
	cfg := testConfig(upstream.URL())
	cfg.Upstream.APIURL = ""
	env := newTestEnv(t, cfg)

	rec := env.post("/api/getMonitors", "", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"code":500,"message":"Missing API url or API key","source":"api"}`, rec.Body.String())
	require.Equal(t, int32(0), upstream.calls.Load())
}

func TestRouter_GetMonitorsRequiresLogin(t *testing.T) {
	upstream := newFakeUpstream(t)
	cfg := testConfig(upstream.URL())
	cfg.Site.Password = "hunter2"
	cfg.Site.SecretKey = "signing-secret"
	env := newTestEnv(t, cfg)

	rec := env.post("/api/getMonitors", "", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeEnvelope(t, rec)
	require.Equal(t, 500, body.Code)
	require.Equal(t, "Please log in first", body.Message)
	require.Equal(t, "api", body.Source)
	require.Nil(t, body.Data)

	rec = env.post("/api/getMonitors", "", []*http.Cookie{{Name: "authToken", Value: "forged"}})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Invalid or expired token", decodeEnvelope(t, rec).Message)
	require.Equal(t, int32(0), upstream.calls.Load())
}

func TestRouter_LoginVerifyAndFetch(t *testing.T) {
	upstream := newFakeUpstream(t)
	cfg := testConfig(upstream.URL())
	cfg.Site.Password = "hunter2"
	cfg.Site.SecretKey = "signing-secret"
	env := newTestEnv(t, cfg)

	rec := env.post("/api/login", `{"password":"wrong"}`, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "invalid_credentials", errBody["error"]["code"])

	rec = env.post("/api/login", ``, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.post("/api/verify", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "auth_required", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	rec = env.post("/api/login", `{"password":"hunter2"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := findCookie(rec, "authToken")
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)
	require.NotEmpty(t, cookie.Value)

	rec = env.post("/api/verify", "", []*http.Cookie{cookie})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.post("/api/getMonitors", "", []*http.Cookie{cookie})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "api", decodeEnvelope(t, rec).Source)
	require.Equal(t, int32(1), upstream.calls.Load())

	rec = env.post("/api/logout", "", []*http.Cookie{cookie})
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := findCookie(rec, "authToken")
	require.NotNil(t, cleared)
	require.Empty(t, cleared.Value)
	require.Less(t, cleared.MaxAge, 0)
}

func TestRouter_LoginWithoutGate(t *testing.T) {
	upstream := newFakeUpstream(t)
	env := newTestEnv(t, testConfig(upstream.URL()))

	rec := env.post("/api/login", `{"password":"anything"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"code":200,"message":"no password required"}`, rec.Body.String())
	require.Nil(t, findCookie(rec, "authToken"))

	rec = env.post("/api/verify", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_UpstreamFailureDoesNotPopulateCache(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := dead.URL + "/"
	dead.Close()
	env := newTestEnv(t, testConfig(deadURL))

	rec := env.post("/api/getMonitors", "", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeEnvelope(t, rec)
	require.Contains(t, body.Message, "getMonitors request failed")
	require.Equal(t, "api", body.Source)
	require.Nil(t, body.Data)
	require.Equal(t, 0, env.cache.Len())
}

func TestRouter_UpstreamStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()
	env := newTestEnv(t, testConfig(server.URL+"/"))

	rec := env.post("/api/getMonitors", "", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "getMonitors request error: status=502 body=bad gateway", decodeEnvelope(t, rec).Message)
	require.Equal(t, 0, env.cache.Len())
}

func TestRouter_HealthMetricsAndRequestID(t *testing.T) {
	upstream := newFakeUpstream(t)
	env := newTestEnv(t, testConfig(upstream.URL()))
	env.post("/api/getMonitors", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	env.server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	env.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `uptime_status_upstream_requests_total{outcome="ok"} 1`)
	require.Contains(t, rec.Body.String(), `uptime_status_cache_lookups_total{result="miss"} 1`)
}

func TestRouter_CORSPreflight(t *testing.T) {
	upstream := newFakeUpstream(t)
	cfg := testConfig(upstream.URL())
	cfg.HTTP.AllowedOrigins = []string{"https://status.example.com"}
	env := newTestEnv(t, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/api/getMonitors", nil)
	req.Header.Set("Origin", "https://status.example.com")
	rec := httptest.NewRecorder()
	env.server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://status.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRouter_RateLimit(t *testing.T) {
	upstream := newFakeUpstream(t)
	cfg := testConfig(upstream.URL())
	cfg.HTTP.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}
	env := newTestEnv(t, cfg)

	require.Equal(t, http.StatusOK, env.post("/api/getMonitors", "", nil).Code)
	rec := env.post("/api/getMonitors", "", nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "rate_limit_exceeded", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

type testEnv struct {
	server *http.Server
	cache  *respcache.MemoryStore
}

func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	logger := newTestLogger()
	m := metrics.New()

	authCfg := auth.Config{Password: cfg.Site.Password, SecretKey: cfg.Site.SecretKey, TokenTTL: cfg.Site.TokenTTL}
	tokens := auth.NewJWTTokens(authCfg)
	gate := auth.NewGate(authCfg, tokens, logger)
	authSvc := auth.NewService(authCfg, tokens, gate, logger)

	cache := respcache.NewMemoryStore(0)
	monitorSvc := monitor.NewService(monitor.Config{
		APIURL:    cfg.Upstream.APIURL,
		APIKey:    cfg.Upstream.APIKey,
		CountDays: cfg.Window.CountDays,
		Location:  time.UTC,
		CacheKey:  cfg.Cache.Key,
		CacheTTL:  cfg.Cache.TTL,
	}, gate, cache, uptimerobot.NewClient(cfg.Upstream.APIURL, cfg.Upstream.APIKey, time.Second), uptimerobot.NewFormatter(), m, logger)

	cookies := CookieConfig{Name: cfg.Site.CookieName, MaxAge: cfg.Site.TokenTTL}
	handler := NewHandler(monitorSvc, authSvc, cookies, logger)
	return &testEnv{server: NewRouter(cfg, handler, authSvc, m, logger), cache: cache}
}

func (e *testEnv) post(path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.server.Handler.ServeHTTP(rec, req)
	return rec
}

func testConfig(apiURL string) *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
		Upstream: config.UpstreamConfig{APIURL: apiURL, APIKey: "ur-test-key", Timeout: time.Second},
		Site:     config.SiteConfig{TokenTTL: time.Hour, CookieName: "authToken"},
		Window:   config.WindowConfig{CountDays: 3, Timezone: "UTC"},
		Cache:    config.CacheConfig{Key: "site-data-v3", TTL: time.Minute},
	}
}

type fakeUpstream struct {
	server  *httptest.Server
	calls   atomic.Int32
	lastKey atomic.Value
}

// newFakeUpstream answers getMonitors with one monitor whose ranges match the request.
func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		f.lastKey.Store(r.Header.Get("X-Api-Key"))
		n := len(strings.Split(r.URL.Query().Get("custom_uptime_ranges"), "-"))
		values := make([]string, n)
		for i := range values {
			values[i] = "100.000"
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"stat":"ok","monitors":[{"id":1,"friendly_name":"Homepage","url":"https://example.com","type":1,"interval":300,"status":2,"custom_uptime_ranges":%q,"logs":[]}]}`, strings.Join(values, "-"))
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeUpstream) URL() string {
	return f.server.URL + "/"
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) monitor.Envelope {
	t.Helper()
	var env monitor.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}
