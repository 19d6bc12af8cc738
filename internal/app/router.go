package app

import (
	"time"

	"lms_backend/docs"
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/me", c.auth.Me)

		// 学习记录：学生操作。自动保存按用户限流，避免共享IP的教室互相挤占
		attempts := authGroup.Group("/attempts")
		attempts.Use(security.RateLimiter(120, time.Minute, security.ByUser))
		{
			attempts.POST("", c.attempt.Start)
			attempts.GET("", c.attempt.List)
			attempts.GET("/:id/results", c.attempt.Results)
			attempts.PUT("/:id/progress", c.attempt.SaveProgress)
			attempts.POST("/:id/submit", c.attempt.Submit)
			attempts.POST("/:id/abandon", c.attempt.Abandon)
			attempts.POST("/:id/suspend", c.attempt.Suspend)
			attempts.POST("/:id/resume", c.attempt.Resume)
			attempts.GET("/:id/cmi", c.attempt.GetCmi)
			attempts.PUT("/:id/cmi", c.attempt.UpdateCmi)

			// 人工评分仅教师可用
			attempts.POST("/:id/grade", middleware.RoleMiddleware(model.Teacher), c.attempt.GradeQuestion)
		}

		// 课程
		courses := authGroup.Group("/courses")
		{
			courses.GET("", c.course.List)
			courses.GET("/:id", c.course.Get)
			courses.POST("/:id/enroll", c.course.Enroll)

			teacher := courses.Group("")
			teacher.Use(middleware.RoleMiddleware(model.Teacher))
			{
				teacher.POST("", c.course.Create)
				teacher.PUT("/:id", c.course.Update)
				teacher.DELETE("/:id", c.course.Delete)
				teacher.GET("/:id/enrollments", c.course.Enrollments)
			}
		}

		// 题库：仅教师
		banks := authGroup.Group("/banks")
		banks.Use(middleware.RoleMiddleware(model.Teacher))
		{
			banks.POST("", c.questionBank.CreateBank)
			banks.GET("", c.questionBank.ListBanks)
			banks.GET("/:id", c.questionBank.GetBank)
			banks.DELETE("/:id", c.questionBank.DeleteBank)
			banks.POST("/:id/questions", c.questionBank.AddQuestion)
			banks.GET("/:id/questions", c.questionBank.ListQuestions)
			banks.PUT("/:id/questions/:qid", c.questionBank.UpdateQuestion)
			banks.DELETE("/:id/questions/:qid", c.questionBank.DeleteQuestion)
		}

		// 测验
		assessments := authGroup.Group("/assessments")
		{
			assessments.GET("", c.assessment.ListByCourse)
			assessments.GET("/:id", c.assessment.Get)

			teacher := assessments.Group("")
			teacher.Use(middleware.RoleMiddleware(model.Teacher))
			{
				teacher.POST("", c.assessment.Create)
				teacher.PUT("/:id", c.assessment.Update)
				teacher.DELETE("/:id", c.assessment.Delete)
				teacher.POST("/:id/publish", c.assessment.Publish)
			}
		}

		// 课件
		content := authGroup.Group("/content")
		{
			content.GET("", c.content.ListByCourse)
			content.GET("/:id", c.content.Get)

			teacher := content.Group("")
			teacher.Use(middleware.RoleMiddleware(model.Teacher))
			{
				teacher.POST("", c.content.Create)
				teacher.PUT("/:id", c.content.Update)
				teacher.DELETE("/:id", c.content.Delete)
				teacher.POST("/:id/publish", c.content.Publish)
				teacher.POST("/:id/package", c.content.UploadPackage)
			}
		}
	}
}
