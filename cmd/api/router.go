package api

import (
	"net/http"

	"postbox-backend/internal/auth/delivery"
	authUsecase "postbox-backend/internal/auth/usecase"
	emailDelivery "postbox-backend/internal/email/delivery"
	emailUsecase "postbox-backend/internal/email/usecase"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, syncUc emailUsecase.SyncUsecase) {
	authHandler := delivery.NewAuthHandler(authUc)
	emailHandler := emailDelivery.NewEmailHandler(syncUc)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(authUc), authHandler.Me)
			auth.POST("/google-account", delivery.AuthMiddleware(authUc), authHandler.SaveGoogleAccount)
		}

		// Thread and email routes (protected)
		emails := api.Group("/emails")
		emails.Use(delivery.AuthMiddleware(authUc))
		{
			emails.POST("/send", emailHandler.SendEmail)
		}

		threads := api.Group("/threads")
		threads.Use(delivery.AuthMiddleware(authUc))
		{
			threads.GET("", emailHandler.ListThreads)
		}

		// Sync routes. The per-user steps are protected; the all-account
		// batch steps are meant for a scheduler.
		sync := api.Group("/sync")
		{
			sync.POST("/backfill", delivery.AuthMiddleware(authUc), emailHandler.RunBackfill)
			sync.POST("/history", delivery.AuthMiddleware(authUc), emailHandler.RunIncrementalSync)
			sync.POST("/backfill-all", emailHandler.RunBackfillAll)
			sync.POST("/history-all", emailHandler.RunIncrementalSyncAll)
		}
	}
}
