package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamhub.app/server/common/metrics"
	"teamhub.app/server/internal/http/handler"
	"teamhub.app/server/internal/http/middleware"
	"teamhub.app/server/internal/service"
)

type RouterConfig struct {
	MetricsEnabled bool
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	requireAuth := middleware.RequireAuth(services.Auth())

	v1 := router.Group("/api/v1")
	{
		userHandler := handler.NewUserHandler(services.Auth(), services.Users())
		UserRouter(v1, userHandler, requireAuth)

		authed := v1.Group("", requireAuth)
		workspaceHandler := handler.NewWorkspaceHandler(services.Workspaces())
		inviteHandler := handler.NewInviteHandler(services.Invites(), services.Users())
		WorkspaceRouter(authed, workspaceHandler, inviteHandler)
	}
}
