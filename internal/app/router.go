package app

import (
	"physbank_backend/docs"
	"physbank_backend/internal/config"
	"physbank_backend/internal/middleware"
	"physbank_backend/internal/model"
	"physbank_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)
	a.registerAuthedRoutes(router, c, cfg)
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerAuthedRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	rg := router.Group("/api")
	rg.Use(middleware.AuthMiddleware(cfg))
	{
		rg.GET("/profile", c.auth.GetProfile)
		rg.PATCH("/users/:id/username", c.user.UpdateUsername)

		// 投题
		rg.POST("/problems", c.problem.Create)
		rg.GET("/problems/mine", c.problem.ListMine)
		rg.GET("/problems/:id", c.problem.Get)
		rg.PUT("/problems/:id", c.problem.Update)
		rg.DELETE("/problems/:id", c.problem.Delete)
		rg.POST("/problems/:id/figure", c.problem.UploadFigure)
		rg.GET("/problems/:id/ai-performances", c.problem.ListAIPerformances)

		// 审题（选票协议自己做指派校验）
		rg.GET("/review/problems/:id/ballot", c.review.GetBallot)
		rg.PATCH("/review/problems/:id/ballot", c.review.SubmitBallot)

		// 翻译
		rg.PUT("/translate/problems/:id", c.problem.SetTranslation)
		rg.PATCH("/translate/problems/:id/status", c.review.SetTranslatedStatus)

		// 积分
		rg.GET("/scores/events", c.score.ListMyEvents)
		rg.GET("/scores/leaderboard", c.score.Leaderboard)

		// 指派
		rg.GET("/assignments/mine", c.assignment.ListMine)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.GET("/users", c.user.List)
		admin.PATCH("/users/:id/role", c.user.ChangeRole)

		admin.GET("/problems", c.problem.ListAll)
		admin.POST("/problems/:id/ai-performances", c.problem.AddEvaluation)

		// 审核批处理
		admin.POST("/review/sync", c.review.SyncOpinions)
		admin.POST("/review/promote-translated", c.review.PromoteTranslated)

		// 分配
		admin.POST("/assignments/examine", c.assignment.AssignExamine)
		admin.POST("/assignments/translate", c.assignment.AssignTranslate)
		admin.GET("/assignments/pending-counts", c.assignment.PendingCounts)

		// 积分管理
		admin.POST("/scores/recompute", c.score.RecomputeOne)
		admin.POST("/scores/recompute-all", c.score.RecomputeAll)
		admin.POST("/scores/examine-reward", c.score.SetExamineReward)
		admin.POST("/scores/events", c.score.CreateEvent)
		admin.DELETE("/scores/events", c.score.ClearEvents)
	}
}
