package middleware

import (
	"strings"
	"time"

	"scoreboard/internal/core"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewTraceEntry,
	NewCors,
	NewLogger,
	NewRecovery,
	NewResponse,
	NewAdminAuth,
)

// 不追蹤、不記錄、不包裝的路徑
var untracedPrefixes = []string{"/swagger", "/metrics", "/version", "/health-check", "/debug/pprof"}

func untraced(endpoint string) bool {
	for _, prefix := range untracedPrefixes {
		if strings.HasPrefix(endpoint, prefix) {
			return true
		}
	}
	return false
}

// proxyServiceOf 取出 /api/{service}/* 的轉發目標，非轉發路徑回傳空字串
func proxyServiceOf(path string) string {
	rest, ok := strings.CutPrefix(path, "/api/")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(rest, "/")
	for _, svc := range core.PlatformServices() {
		if string(svc) == name {
			return name
		}
	}
	return ""
}

// fluentdTS fluentd 記錄統一使用的時間格式
func fluentdTS(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05.999999 UTC")
}

// requestStart 取 trace middleware 記下的起始時間；沒有時以現在為準並寫回
func requestStart(c *gin.Context) time.Time {
	if v, ok := c.Get(core.ContextRequestStartKey); ok {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	now := time.Now().UTC()
	c.Set(core.ContextRequestStartKey, now)
	return now
}
