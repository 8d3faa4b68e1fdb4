package route

import (
	"abrino-storage/backend/api/handler"
	"abrino-storage/backend/api/middleware"

	"github.com/gin-gonic/gin"
)

func SetApiRouter(route *gin.Engine) {
	// Liveness stays outside the rate-limited group.
	route.GET("/health", handler.HealthCheck)

	apiRouter := route.Group("/api")
	apiRouter.Use(middleware.GlobalAPIRateLimit())
	{
		authRoutes := apiRouter.Group("/auth")
		{
			authRoutes.POST("/register", handler.Register)
			authRoutes.POST("/login", handler.Login)
			authRoutes.POST("/logout", handler.Logout)
			authRoutes.POST("/telegram-magic-link", handler.TelegramMagicLink)
			authRoutes.GET("/verify-magic-link", handler.VerifyMagicLink)
		}

		fileRoutes := apiRouter.Group("/files")
		fileRoutes.Use(middleware.UserAuth())
		{
			fileRoutes.GET("", handler.ListFiles)
			fileRoutes.GET("/:id", handler.DownloadFile)
			fileRoutes.POST("", handler.UploadFile)
			fileRoutes.DELETE("/:id", handler.DeleteFile)
		}

		apiRouter.GET("/categories", middleware.UserAuth(), handler.GetCategories)

		userRoutes := apiRouter.Group("/user")
		userRoutes.Use(middleware.UserAuth())
		{
			userRoutes.GET("/profile", handler.GetProfile)
			userRoutes.POST("/link-telegram", handler.LinkTelegram)
		}

		adminRoutes := apiRouter.Group("/admin")
		adminRoutes.Use(middleware.AdminAuth())
		{
			adminRoutes.GET("/files/reconcile", handler.ReconcileFiles)
		}

		optionRoutes := apiRouter.Group("/option")
		optionRoutes.Use(middleware.RootAuth())
		{
			optionRoutes.GET("", handler.GetOptions)
			optionRoutes.PUT("", handler.UpdateOption)
		}
	}
}
