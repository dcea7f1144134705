package app

import (
	"mathlearn_backend/docs"
	"mathlearn_backend/internal/middleware"
	"mathlearn_backend/internal/model"
	"mathlearn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)
	a.registerUserRoutes(router, c, repos)
	a.registerAdminRoutes(router, c)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// Lesson browsing works for guests; progress appears when a token
		// is present.
		public.GET("/lessons", middleware.TryAuthMiddleware(a.Settings), c.lesson.GetLessons)
		public.GET("/lessons/:id", middleware.TryAuthMiddleware(a.Settings), c.lesson.GetLessonDetail)
	}
}

func (a *App) registerUserRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(a.Settings), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.POST("/lessons/:id/submit", c.lesson.SubmitLesson)
		authGroup.GET("/profile", c.user.GetProfile)
		authGroup.PUT("/user/profile", c.user.UpdateProfile)
		authGroup.POST("/user/avatar/upload", c.user.UploadAvatar)
		authGroup.GET("/leaderboard", c.user.GetLeaderboard)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(a.Settings), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/lessons", c.lesson.CreateLesson)
		admin.PUT("/lessons/:id", c.lesson.UpdateLesson)
		admin.DELETE("/lessons/:id", c.lesson.DeleteLesson)
		admin.GET("/users", c.user.GetUsers)
	}
}
