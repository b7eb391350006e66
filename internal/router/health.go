package router

import (
	"scoreboard/internal/handler"

	"github.com/gin-gonic/gin"
)

type HealthRouter struct {
	healthHandler *handler.HealthHandler
}

func NewHealthRouter(
	healthHandler *handler.HealthHandler,
) *HealthRouter {
	return &HealthRouter{
		healthHandler: healthHandler,
	}
}

func (healthRouter *HealthRouter) RegisterRoutes(r *gin.Engine) {
	g := r.Group("/health-check")
	{
		g.GET("", healthRouter.healthHandler.Liveness)
		g.GET("/live", healthRouter.healthHandler.Liveness)
		g.GET("/ready", healthRouter.healthHandler.Readiness)
	}
}
