package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"scoreboard/config"
	"scoreboard/internal/database/client"
	fluentdRepo "scoreboard/internal/database/fluentd/repository"
	minioRepo "scoreboard/internal/database/minio/repository"
	redisRepo "scoreboard/internal/database/redis/repository"
	"scoreboard/internal/handler"
	"scoreboard/internal/middleware"
	cErr "scoreboard/internal/pkg/error"
	"scoreboard/internal/pkg/response"
	"scoreboard/internal/registry"
	"scoreboard/internal/service"
	"scoreboard/internal/service/platform"
	"scoreboard/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	engine   *gin.Engine
	store    *registry.Store
	upstream *[]*http.Request
}

// newTestEnv 以記憶體 registry 與假上游組出完整 engine
func newTestEnv(t *testing.T, upstream http.HandlerFunc) *testEnv {
	t.Helper()
	var calls []*http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Clone(context.Background()))
		upstream(w, r)
	}))
	t.Cleanup(srv.Close)

	logger := zap.NewNop()
	conf := &config.Configuration{
		App:      config.App{Env: "test", Name: "scoreboard", Version: "test", SecretKey: "router-test-secret"},
		Admin:    config.Admin{Password: "admin-pass"},
		Platform: config.Platform{APIBaseURL: srv.URL, PortalBaseURL: srv.URL},
		Backup:   config.Backup{Dir: t.TempDir()},
	}
	trace := &telemetry.Trace{}
	metric := &telemetry.Metric{}
	logRepository := fluentdRepo.NewLogRepository(conf, &client.NoopClient{})
	store := registry.NewStore(registry.NewMemoryPersister(), logger)
	require.NoError(t, store.Init(context.Background()))

	redisClient, _, err := client.NewRedisClient(logger, conf)
	require.NoError(t, err)
	minioClient, err := client.NewMinioClient(logger, conf)
	require.NoError(t, err)

	httpClient := srv.Client()
	platformClient := platform.NewHTTPClient(conf, httpClient, trace, metric, logger)
	cooldown := redisRepo.NewSmsCooldownRepository(trace, redisClient, conf)

	registryService := service.NewRegistryService(trace, metric, logger, store, logRepository)
	adminAuthService := service.NewAdminAuthService(trace, conf)
	backupService := service.NewBackupService(trace, metric, logger, conf, registryService, minioRepo.NewBackupRepository(trace, minioClient))
	sessionService := service.NewSessionService(trace, metric, logger, conf, platformClient, store, cooldown)
	examService := service.NewExamService(trace, logger, platformClient, store)
	proxyService := service.NewProxyService(trace, httpClient, platformClient)
	healthService := service.NewHealthService(store)
	healthService.SetReady(true)

	engine := NewRouter(
		conf,
		middleware.NewTraceEntry(trace, metric, conf),
		middleware.NewRecovery(logger, trace, metric, conf, logRepository),
		middleware.NewCors(trace),
		middleware.NewLogger(logger, trace, conf, logRepository),
		middleware.NewResponse(logger, trace, metric, conf, logRepository),
		NewHealthRouter(handler.NewHealthHandler(healthService)),
		NewAdminRouter(
			handler.NewAdminAuthHandler(trace, adminAuthService),
			handler.NewAdminUserHandler(trace, registryService),
			handler.NewAdminDataHandler(trace, registryService, backupService),
			middleware.NewAdminAuth(logger, trace, adminAuthService),
		),
		NewAPIRouter(
			handler.NewSessionHandler(trace, sessionService),
			handler.NewExamHandler(trace, examService),
		),
		NewProxyRouter(handler.NewPassthroughHandler(trace, proxyService, logger)),
	)
	return &testEnv{engine: engine, store: store, upstream: &calls}
}

func (env *testEnv) do(t *testing.T, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) (response.Response, map[string]any) {
	t.Helper()
	var res response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	data, _ := res.Data.(map[string]any)
	return res, data
}

func (env *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	w := env.do(t, http.MethodPost, "/admin/login", `{"password":"admin-pass"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, data := decode(t, w)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func envelope(w http.ResponseWriter, data string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"code":200,"success":true,"message":"ok","data":`+data+`}`)
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {})

	w := env.do(t, http.MethodGet, "/health-check/live", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/health-check/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRoutes_RequireBearerToken(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {})

	w := env.do(t, http.MethodGet, "/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	res, _ := decode(t, w)
	assert.Equal(t, cErr.UNAUTHORIZED, res.Code)

	w = env.do(t, http.MethodGet, "/admin/users", "", map[string]string{"Authorization": "Bearer not-a-jwt"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/admin/login", `{"password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutes_BlacklistAndExport(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx := context.Background()
	id, account := "u-1", "13800000000"
	_, err := env.store.Upsert(ctx, registry.UserPatch{ID: &id, Account: &account})
	require.NoError(t, err)

	auth := map[string]string{"Authorization": "Bearer " + env.adminToken(t)}

	w := env.do(t, http.MethodPatch, "/admin/users/u-1/blacklist", `{"blacklisted":true}`, auth)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, data := decode(t, w)
	assert.Equal(t, true, data["blacklisted"])
	assert.True(t, env.store.IsBlacklisted(account))

	w = env.do(t, http.MethodGet, "/admin/users?view=blacklist", "", auth)
	require.Equal(t, http.StatusOK, w.Code)
	_, data = decode(t, w)
	assert.EqualValues(t, 1, data["blacklisted"])

	w = env.do(t, http.MethodGet, "/admin/data/export", "", auth)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "user_data_")
	assert.Contains(t, w.Body.String(), `"u-1"`)

	w = env.do(t, http.MethodDelete, "/admin/users/missing", "", auth)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionLogin_BlacklistedAccountRejected(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		envelope(w, `{"token":"tk","refreshToken":"rt","id":"u-9"}`)
	})
	env.store.SetBlacklisted(context.Background(), "13800000000", true)

	w := env.do(t, http.MethodPost, "/api/session/login", `{"mode":"password","account":"13800000000","password":"pw"}`, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	res, _ := decode(t, w)
	assert.Equal(t, cErr.ACCOUNT_BLACKLISTED, res.Code)
}

func TestSessionLogin_ValidationError(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {})

	w := env.do(t, http.MethodPost, "/api/session/login", `{"mode":"sms","account":"13800000000","smsCode":"12"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, *env.upstream)
}

func TestPassthrough_KeepsUpstreamStatusAndBody(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/missing") {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"code":404,"success":false}`)
			return
		}
		_, _ = io.WriteString(w, `{"code":200,"success":true,"data":{"echo":"`+r.URL.RawQuery+`"}}`)
	})

	w := env.do(t, http.MethodGet, "/api/platform/api/user/ping?x=1", "", map[string]string{"token": "tk"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-Proxy-Passthrough"))
	assert.JSONEq(t, `{"code":200,"success":true,"data":{"echo":"x=1"}}`, w.Body.String())

	require.Len(t, *env.upstream, 1)
	call := (*env.upstream)[0]
	assert.Equal(t, "/platform/api/user/ping", call.URL.Path)
	assert.Equal(t, "tk", call.Header.Get("token"))
	assert.Equal(t, "SXT", call.Header.Get("pid"))

	w = env.do(t, http.MethodGet, "/api/passport/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"code":404,"success":false}`, w.Body.String())
}

func TestExams_RequireToken(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {})

	w := env.do(t, http.MethodGet, "/api/exams?studentId=s-1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	res, _ := decode(t, w)
	assert.Equal(t, cErr.INVALID_SESSION, res.Code)
}
