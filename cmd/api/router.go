package api

import (
	"net/http"

	"github.com/BhavyPan/Advance-Web/internal/auth/delivery"
	emailDelivery "github.com/BhavyPan/Advance-Web/internal/email/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authHandler *delivery.AuthHandler, emailHandler *emailDelivery.EmailHandler, settingsHandler *SettingsHandler) {
	api := r.Group("/api")
	{
		// Health check (no tokens required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.GET("/google", authHandler.GoogleAuth)
			auth.GET("/google/callback", authHandler.GoogleCallback)
			auth.POST("/user", delivery.RequireCredentials(), authHandler.CurrentUser)
		}

		// Mailbox routes (tokens in the body)
		mail := api.Group("")
		mail.Use(delivery.RequireCredentials())
		{
			mail.POST("/emails", emailHandler.ListEmails)
			mail.POST("/analyze-all-emails", emailHandler.AnalyzeAllEmails)
			mail.POST("/analyze-labels", emailHandler.AnalyzeLabels)
			mail.POST("/email/:id", emailHandler.GetEmail)
			mail.POST("/email/:id/analyze", emailHandler.AnalyzeEmail)
			mail.POST("/email/:id/smart-reply", emailHandler.SmartReply)
			mail.POST("/send-email", emailHandler.SendEmail)
			mail.POST("/reports", emailHandler.Reports)
		}

		// AI writing routes (no mailbox access)
		api.POST("/ai-compose-email", emailHandler.ComposeEmail)
		api.POST("/ai-enhance-email", emailHandler.EnhanceEmail)

		// Settings routes - Runtime configuration
		settings := api.Group("/settings")
		{
			settings.GET("/ollama", settingsHandler.GetOllamaSettings)
			settings.PUT("/ollama", settingsHandler.UpdateOllamaSettings)
			settings.POST("/ollama/test", settingsHandler.TestOllamaConnection)
		}
	}
}
