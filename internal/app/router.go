package app

import (
	"clinplace_backend/internal/config"
	"clinplace_backend/internal/middleware"
	"clinplace_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Check)
		public.POST("/login", c.auth.Login)
	}

	// 业务只有一个入口：所有动作都走 POST /api/actions，
	// 动作名和角色检查在分发器里处理
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.POST("/actions", c.action.Dispatch)
	}
}
