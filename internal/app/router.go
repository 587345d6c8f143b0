package app

import (
	"lexstudy_backend/internal/middleware"
	"lexstudy_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	auth := middleware.AuthMiddleware(a.Config.JWT.Secret)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(auth)
	{
		a.registerLessonRoutes(authGroup, c)
		a.registerViewerRoutes(authGroup, c)
	}

	// 3. 服务端渲染页面，token 可通过 query 传入
	pages := router.Group("/views")
	pages.Use(auth)
	{
		pages.GET("/:viewId", c.page.Show)
	}
}

func (a *App) registerLessonRoutes(group *gin.RouterGroup, c *controllers) {
	lessons := group.Group("/lessons")
	{
		lessons.GET("", c.lesson.ListLessons)
		lessons.GET("/:id", c.lesson.GetLesson)
	}

	subsections := group.Group("/subsections")
	{
		subsections.GET("/lesson/:lessonId", c.subsection.ListByLesson)
		subsections.GET("/:id", c.subsection.GetSubsection)
	}

	progress := group.Group("/progress")
	{
		progress.GET("/overview", c.progress.GetOverview)
		progress.GET("/lesson/:lessonId", c.progress.GetLessonProgress)
		progress.POST("/complete", c.progress.MarkComplete)
		progress.DELETE("/incomplete/:subsectionId", c.progress.MarkIncomplete)
	}
}

func (a *App) registerViewerRoutes(group *gin.RouterGroup, c *controllers) {
	views := group.Group("/views")
	{
		views.POST("", c.viewer.Mount)
		views.GET("/:viewId", c.viewer.Get)
		views.POST("/:viewId/select", c.viewer.Select)
		views.POST("/:viewId/next", c.viewer.Next)
		views.POST("/:viewId/previous", c.viewer.Previous)
		views.POST("/:viewId/toggle", c.viewer.Toggle)
		views.POST("/:viewId/answer", c.viewer.Answer)
		views.POST("/:viewId/retry", c.viewer.Retry)
		views.DELETE("/:viewId", c.viewer.Unmount)
	}
}
