package router

import (
	"scoreboard/internal/handler"
	"scoreboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

type AdminRouter struct {
	authHandler *handler.AdminAuthHandler
	userHandler *handler.AdminUserHandler
	dataHandler *handler.AdminDataHandler
	adminAuth   *middleware.AdminAuth
}

func NewAdminRouter(
	authHandler *handler.AdminAuthHandler,
	userHandler *handler.AdminUserHandler,
	dataHandler *handler.AdminDataHandler,
	adminAuth *middleware.AdminAuth,
) *AdminRouter {
	return &AdminRouter{
		authHandler: authHandler,
		userHandler: userHandler,
		dataHandler: dataHandler,
		adminAuth:   adminAuth,
	}
}

func (ar *AdminRouter) RegisterRoutes(r *gin.Engine) {
	r.POST("/admin/login", ar.authHandler.Login)

	admin := r.Group("/admin")
	admin.Use(ar.adminAuth.Handler())

	users := admin.Group("/users")
	{
		users.GET("", ar.userHandler.List)
		users.GET("/:userID", ar.userHandler.Get)
		users.PATCH("/:userID/blacklist", ar.userHandler.SetBlacklist)
		users.DELETE("/:userID", ar.userHandler.Delete)
	}

	data := admin.Group("/data")
	{
		data.GET("/export", ar.dataHandler.Export)
		data.POST("/import", ar.dataHandler.Import)
		data.DELETE("", ar.dataHandler.Clear)
		data.POST("/backup", ar.dataHandler.Backup)
	}
}
