package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"scoreboard/config"
	"scoreboard/internal/core"
	"scoreboard/internal/database/client"
	fluentdRepo "scoreboard/internal/database/fluentd/repository"
	cErr "scoreboard/internal/pkg/error"
	"scoreboard/internal/pkg/response"
	"scoreboard/internal/service"
	"scoreboard/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "middleware-test-secret"

func newAdminEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	conf := &config.Configuration{
		App:   config.App{SecretKey: testSecret},
		Admin: config.Admin{Password: "pw"},
	}
	authService := service.NewAdminAuthService(&telemetry.Trace{}, conf)
	adminAuth := NewAdminAuth(zap.NewNop(), &telemetry.Trace{}, authService)

	engine := gin.New()
	engine.GET("/admin/ping", adminAuth.Handler(), func(c *gin.Context) {
		v, _ := c.Get(core.ContextAdminClaimsKey)
		claims := v.(*core.Claims)
		c.String(http.StatusOK, claims.Username)
	})
	return engine
}

func signed(t *testing.T, claims core.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestAdminAuth(t *testing.T) {
	engine := newAdminEngine(t)
	valid := signed(t, core.Claims{
		Username: "admin",
		Role:     core.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	expired := signed(t, core.Claims{
		Username: "admin",
		Role:     core.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
		{"scheme is case insensitive", "bearer " + valid, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			// 錯誤由 Recovery 輸出，此處只驗證是否放行
			if tt.status == http.StatusOK {
				assert.Equal(t, http.StatusOK, w.Code)
				assert.Equal(t, "admin", w.Body.String())
			} else {
				assert.NotEqual(t, "admin", w.Body.String())
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	token, ok := bearerToken("  Bearer   abc ")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	_, ok = bearerToken("abc")
	assert.False(t, ok)
}

func TestUntraced(t *testing.T) {
	for _, path := range []string{"/swagger/*any", "/metrics", "/version", "/health-check/ready", "/debug/pprof/heap"} {
		assert.True(t, untraced(path), path)
	}
	for _, path := range []string{"/api/exams", "/admin/users", ""} {
		assert.False(t, untraced(path), path)
	}
}

func TestRedactFields(t *testing.T) {
	body := map[string]any{"account": "13800000000", "password": "pw", "smsCode": "123456"}
	assert.True(t, redactFields(body))
	assert.Equal(t, redacted, body["password"])
	assert.Equal(t, redacted, body["smsCode"])
	assert.Equal(t, "13800000000", body["account"])

	assert.False(t, redactFields(map[string]any{"account": "x"}))
}

func TestRequestIDOf(t *testing.T) {
	assert.Equal(t, "abc", requestIDOf("abc", true))

	id, err := uuid.Parse(requestIDOf("", false))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestToSafePreview(t *testing.T) {
	assert.Equal(t, "", toSafePreview(nil, 10))
	assert.Equal(t, "abc…", toSafePreview([]byte("abcdef"), 3))
	assert.Equal(t, "b64:/w==", toSafePreview([]byte{0xff}, 10))
}

func TestProxyServiceOf(t *testing.T) {
	assert.Equal(t, "platform", proxyServiceOf("/api/platform/api/user/ping"))
	assert.Equal(t, "sxt-h5", proxyServiceOf("/api/sxt-h5/exam/list"))
	assert.Equal(t, "", proxyServiceOf("/api/exams/e-1/scores"))
	assert.Equal(t, "", proxyServiceOf("/admin/users"))
}

func TestClientHash(t *testing.T) {
	a := clientHash("10.0.0.1", "k1")
	assert.Len(t, a, 16)
	assert.Equal(t, a, clientHash("10.0.0.1", "k1"))
	assert.NotEqual(t, a, clientHash("10.0.0.1", "k2"))
	assert.Equal(t, "", clientHash("", "k1"))
}

func newResponseEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	conf := &config.Configuration{App: config.App{Name: "scoreboard", Version: "test"}}
	logRepository := fluentdRepo.NewLogRepository(conf, &client.NoopClient{})
	trace, metric := &telemetry.Trace{}, &telemetry.Metric{}

	engine := gin.New()
	engine.Use(
		NewRecovery(zap.NewNop(), trace, metric, conf, logRepository).ErrorHandler(),
		NewResponse(zap.NewNop(), trace, metric, conf, logRepository).FormatHandler(),
	)
	engine.POST("/created", func(c *gin.Context) {
		response.Create(c, gin.H{"id": "u-1"})
	})
	engine.GET("/raw", func(c *gin.Context) {
		c.Set(response.PassthroughKey, true)
		c.Data(http.StatusTeapot, "text/plain", []byte("upstream body"))
	})
	return engine
}

func TestResponse_WrapsEnvelopeAndKeepsStatus(t *testing.T) {
	engine := newResponseEngine(t)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/created", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	requestID := w.Header().Get("X-Request-ID")
	require.NotEmpty(t, requestID)

	var res response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, requestID, res.RequestID)
	assert.Equal(t, "Create Success", res.Description)
	assert.Equal(t, map[string]any{"id": "u-1"}, res.Data)
}

func TestResponse_PassthroughUntouched(t *testing.T) {
	engine := newResponseEngine(t)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/raw", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "upstream body", w.Body.String())
	assert.Empty(t, w.Header().Get("X-Request-ID"))
}

func TestResponse_UnmatchedRouteBecomesNotFoundEnvelope(t *testing.T) {
	engine := newResponseEngine(t)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var res response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, cErr.NOT_FOUND, res.Code)
}

func TestPreviewOfData(t *testing.T) {
	assert.Equal(t, "", previewOfData(nil, 10))
	assert.Equal(t, `{"a":1}`, previewOfData(`{ "a": 1 }`, 100))
	assert.Equal(t, "plain…", previewOfData("plain text", 5))
	assert.Equal(t, `["x"]`, previewOfData([]string{"x"}, 100))
}
