package app

import (
	"tg_quiz_backend/docs"
	"tg_quiz_backend/internal/config"
	"tg_quiz_backend/internal/middleware"

	"tg_quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 测验会话路由（Mini App 调用）
	a.registerQuizRoutes(router, c, repos)

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/telegram", c.auth.TelegramAuth)
		public.POST("/admin/login", c.auth.AdminLogin)
		public.GET("/questions/summary", c.question.DifficultySummary)
	}
}

func (a *App) registerQuizRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	quiz := router.Group("/api")
	quiz.Use(middleware.ActivityMiddleware(repos.user))
	{
		quiz.POST("/sessions", c.session.CreateSession)
		quiz.GET("/sessions/last", c.session.GetLastActiveSession)
		quiz.GET("/sessions/:id/questions/:index", c.session.GetQuestion)
		quiz.POST("/sessions/:id/answers", c.session.SubmitAnswer)
		quiz.GET("/sessions/:id/results", c.session.GetResults)

		quiz.GET("/users/:id", c.user.GetUser)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AdminAuthMiddleware(cfg))
	{
		admin.GET("/verify", c.auth.AdminVerify)
		admin.POST("/questions/import", c.question.ImportQuestions)
		admin.GET("/questions", c.question.ListQuestions)
		admin.POST("/questions/export", c.question.ExportQuestions)
	}
}
