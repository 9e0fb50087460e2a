package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"volunteer-dashboard/backend/config"
	"volunteer-dashboard/backend/internal/api/handler"
	"volunteer-dashboard/backend/internal/api/middleware"
	"volunteer-dashboard/backend/pkg/jwt"
	"volunteer-dashboard/backend/pkg/redis"
)

const maxBodyBytes = 1 << 20 // 1MB

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 部门模块
			departments := authorized.Group("/departments")
			{
				departments.GET("", h.Department.ListDepartments)
				departments.GET("/:id", h.Department.GetDepartment)
				departments.POST("", middleware.RoleAuth("admin"), h.Department.CreateDepartment)
				departments.PUT("/:id", middleware.RoleAuth("admin"), h.Department.UpdateDepartment)
				departments.DELETE("/:id", middleware.RoleAuth("admin"), h.Department.DeleteDepartment)
			}

			// 志愿者模块
			volunteers := authorized.Group("/volunteers")
			volunteers.Use(middleware.RoleAuth("admin", "leader"))
			{
				volunteers.GET("", h.Volunteer.ListVolunteers)
				volunteers.GET("/:id", h.Volunteer.GetVolunteer)
				volunteers.POST("", h.Volunteer.CreateVolunteer)
				volunteers.PUT("/:id", h.Volunteer.UpdateVolunteer)
				volunteers.DELETE("/:id", h.Volunteer.DeleteVolunteer)
			}

			// 活动模块
			events := authorized.Group("/events")
			{
				events.GET("", h.Event.ListEvents)
				events.GET("/:id", h.Event.GetEvent)
				events.POST("", middleware.RoleAuth("admin", "leader"), h.Event.CreateEvent)
				events.PUT("/:id", middleware.RoleAuth("admin", "leader"), h.Event.UpdateEvent)
				events.PUT("/:id/schedule", middleware.RoleAuth("admin", "leader"), h.Event.RescheduleEvent)
				events.DELETE("/:id", middleware.RoleAuth("admin"), h.Event.DeleteEvent)

				events.POST("/:id/departments", middleware.RoleAuth("admin", "leader"), h.Event.AssignDepartment)
				events.DELETE("/:id/departments/:deptId", middleware.RoleAuth("admin", "leader"), h.Event.UnassignDepartment)
				events.POST("/:id/volunteers", middleware.RoleAuth("admin", "leader"), h.Event.AssignVolunteer)
				events.DELETE("/:id/volunteers/:volId/departments/:deptId", middleware.RoleAuth("admin", "leader"), h.Event.UnassignVolunteer)
			}

			// 签到模块
			attendance := authorized.Group("/attendance")
			{
				attendance.POST("/token", h.Attendance.IssueToken)
				attendance.POST("/confirm", middleware.RoleAuth("admin", "leader"), h.Attendance.Confirm)
			}

			// 仪表盘模块
			authorized.GET("/dashboard", middleware.RoleAuth("admin", "leader"), h.Dashboard.GetDashboard)

			// 导出模块
			export := authorized.Group("/export")
			export.Use(middleware.RoleAuth("admin", "leader"))
			{
				export.GET("/schedule", h.Export.ExportSchedule)
				export.GET("/calendar", h.Export.ExportCalendar)
			}
		}
	}

	return r
}
