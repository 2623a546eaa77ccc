package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"SecurityAlert/internal/handler"
	"SecurityAlert/internal/middleware"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())
	h.Use(middleware.SessionMiddleware())
	h.Use(middleware.CSRFMiddleware())

	v1 := h.Group("/v1")

	// 认证相关路由
	auth := v1.Group("/auth")
	auth.Use(middleware.AuthRateLimitMiddleware()) // 认证接口限流
	{
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
		auth.POST("/token/refresh", handler.RefreshToken)
		auth.POST("/logout",
			middleware.AuthMiddleware(),
			middleware.CurrentUserMiddleware(),
			handler.Logout,
		)
	}

	// 用户相关路由
	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware(), middleware.CurrentUserMiddleware())
	{
		users.GET("/me", handler.GetCurrentUser)
	}

	// 通缉档案，浏览公开，维护仅管理员
	criminals := v1.Group("/criminals")
	{
		criminals.GET("", handler.ListCriminals)
		criminals.GET("/:id", handler.GetCriminal)

		// 目击举报：公开提交，登录用户自动关联
		criminals.POST("/:id/reports",
			middleware.ReportRateLimitMiddleware(),
			middleware.OptionalAuthMiddleware(),
			middleware.OptionalCurrentUserMiddleware(),
			handler.SubmitReport,
		)

		admin := criminals.Group("",
			middleware.AuthMiddleware(),
			middleware.CurrentUserMiddleware(),
			middleware.AdminMiddleware(),
		)
		{
			admin.POST("", handler.CreateCriminal)
			admin.PUT("/:id", handler.UpdateCriminal)
			admin.DELETE("/:id", handler.DeleteCriminal)
			admin.POST("/:id/photos", handler.AddCriminalPhoto)
			admin.DELETE("/:id/photos/:photo_id", handler.DeleteCriminalPhoto)
		}
	}

	// 求救预警，登录用户本人
	alert := v1.Group("/survival-alert")
	alert.Use(
		middleware.AuthMiddleware(),
		middleware.CurrentUserMiddleware(),
		middleware.GeneralRateLimitMiddleware(),
	)
	{
		alert.GET("", handler.GetSurvivalAlert)
		alert.PUT("", handler.UpsertSurvivalAlert)
		alert.POST("/trigger", handler.TriggerSurvivalAlert)
	}

	// 管理端举报审核
	adminGroup := v1.Group("/admin")
	adminGroup.Use(
		middleware.AuthMiddleware(),
		middleware.CurrentUserMiddleware(),
		middleware.AdminMiddleware(),
	)
	{
		adminGroup.GET("/reports", handler.ListReports)
		adminGroup.PATCH("/reports/:id", handler.ReviewReport)
	}
}
