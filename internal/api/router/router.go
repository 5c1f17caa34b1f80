package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MyFGitAccount/platform-efs/config"
	"github.com/MyFGitAccount/platform-efs/internal/api/handler"
	"github.com/MyFGitAccount/platform-efs/internal/api/middleware"
	"github.com/MyFGitAccount/platform-efs/pkg/jwt"
	"github.com/MyFGitAccount/platform-efs/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Upload.MaxBodyBytes))

	// rdb 为 nil 时黑名单检查降级跳过，避免 typed-nil 接口
	var blacklist middleware.BlacklistChecker
	if rdb != nil {
		blacklist = rdb
	}

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录注册限流）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", middleware.RateLimit(rdb, 5, time.Minute), h.Auth.Register)
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.RefreshToken)
		}

		// 学生证照片（照片 URL 公开可访问）
		v1.GET("/uploads/photos/:fileID", h.Upload.Photo)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 个人资料模块
			profile := authorized.Group("/profile")
			{
				profile.GET("", h.Profile.Get)
				profile.PUT("", h.Profile.Update)
			}

			// 课程目录模块
			courses := authorized.Group("/courses")
			{
				courses.GET("", h.Course.List)
				courses.GET("/:code", h.Course.Get)
				courses.GET("/:code/materials", h.Material.ListByCourse)
				courses.POST("/request", h.Course.Request)
				courses.POST("", middleware.RoleAuth("admin"), h.Course.Create)
				courses.PUT("/:code", middleware.RoleAuth("admin"), h.Course.Update)
				courses.DELETE("/:code", middleware.RoleAuth("admin"), h.Course.Delete)
			}

			// 时间表规划模块
			calendar := authorized.Group("/calendar")
			{
				calendar.GET("/courses", h.Calendar.ListSessions)
				calendar.GET("/my", h.Calendar.GetMy)
				calendar.PUT("/my", h.Calendar.Save)
				calendar.GET("/my/export/excel", h.Calendar.ExportExcel)
				calendar.GET("/my/export/ics", h.Calendar.ExportICS)
			}

			// 组队匹配模块
			groups := authorized.Group("/groups/requests")
			{
				groups.GET("", h.Group.ListActive)
				groups.POST("", h.Group.Create)
				groups.GET("/my", h.Group.GetMy)
				groups.DELETE("/my", h.Group.Cancel)
				groups.GET("/:id/contact", h.Group.Contact)
			}

			// 问卷积分交换模块
			questionnaires := authorized.Group("/questionnaires")
			{
				questionnaires.GET("", h.Questionnaire.ListFillable)
				questionnaires.POST("", h.Questionnaire.Create)
				questionnaires.GET("/my", h.Questionnaire.ListMine)
				questionnaires.GET("/stats", h.Questionnaire.Stats)
				questionnaires.POST("/:id/fill", h.Questionnaire.Fill)
				questionnaires.DELETE("/:id", h.Questionnaire.Delete)
			}

			// 课程资料模块
			materials := authorized.Group("/materials")
			{
				materials.GET("/:id/download", h.Material.Download)
				materials.POST("", middleware.RoleAuth("admin"), h.Material.Upload)
				materials.DELETE("/:id", middleware.RoleAuth("admin"), h.Material.Delete)
			}

			// 个人工作台
			authorized.GET("/dashboard", h.Dashboard.Summary)

			// 管理端
			admin := authorized.Group("/admin")
			admin.Use(middleware.RoleAuth("admin"))
			{
				admin.GET("/pending-accounts", h.Admin.ListPendingAccounts)
				admin.POST("/pending-accounts/:sid/approve", h.Admin.ApproveAccount)
				admin.POST("/pending-accounts/:sid/reject", h.Admin.RejectAccount)
				admin.GET("/pending-courses", h.Admin.ListPendingCourses)
				admin.POST("/pending-courses/:code/approve", h.Admin.ApproveCourse)
				admin.POST("/pending-courses/:code/reject", h.Admin.RejectCourse)
				admin.GET("/users", h.Admin.ListUsers)
				admin.DELETE("/users/:sid", h.Admin.DeleteUser)
				admin.POST("/credits", h.Admin.GrantCredits)
				admin.GET("/stats", h.Admin.Stats)
			}
		}
	}

	return r
}
