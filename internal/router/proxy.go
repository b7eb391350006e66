package router

import (
	"scoreboard/internal/core"
	"scoreboard/internal/handler"

	"github.com/gin-gonic/gin"
)

// ProxyRouter 開發用透明轉傳：/api/<service>/*path 直接送往上游
type ProxyRouter struct {
	passthroughHandler *handler.PassthroughHandler
}

func NewProxyRouter(
	passthroughHandler *handler.PassthroughHandler,
) *ProxyRouter {
	return &ProxyRouter{
		passthroughHandler: passthroughHandler,
	}
}

func (proxyRouter *ProxyRouter) RegisterRoutes(engine *gin.Engine) {
	for _, service := range core.PlatformServices() {
		engine.Any("/api/"+string(service)+"/*path", proxyRouter.passthroughHandler.Forward(service))
	}
}
