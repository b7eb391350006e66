package middleware

import (
	"strings"

	"scoreboard/internal/core"
	cErr "scoreboard/internal/pkg/error"
	"scoreboard/internal/pkg/response"
	"scoreboard/internal/service"
	"scoreboard/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminAuth 驗證管理後台 Bearer JWT
type AdminAuth struct {
	logger      *zap.Logger
	trace       *telemetry.Trace
	authService *service.AdminAuthService
}

func NewAdminAuth(logger *zap.Logger, trace *telemetry.Trace, authService *service.AdminAuthService) *AdminAuth {
	return &AdminAuth{logger: logger, trace: trace, authService: authService}
}

func (m *AdminAuth) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanAdminMiddleware))

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			cause := cErr.Unauthorized("missing admin bearer token")
			m.trace.ApplyTraceAttributes(span, core.TraceAdminAuthMeta{Status: "rejected", Reason: "missing_token"})
			end(cause)
			response.AbortWithError(c, cause)
			return
		}

		claims, err := m.authService.ParseToken(token)
		if err != nil {
			m.trace.ApplyTraceAttributes(span, core.TraceAdminAuthMeta{Status: "rejected", Reason: cErr.From(err).Error()})
			m.logger.Info("admin token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			end(err)
			response.AbortWithError(c, err)
			return
		}

		m.trace.ApplyTraceAttributes(span, core.TraceAdminAuthMeta{Username: claims.Username, Status: "ok"})
		c.Set(core.ContextAdminClaimsKey, claims)
		end(nil)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
