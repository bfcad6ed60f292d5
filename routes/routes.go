package routes

import (
	"net/http"
	"time"

	"agency-backoffice-api/config"
	"agency-backoffice-api/controllers"
	"agency-backoffice-api/middleware"
	"agency-backoffice-api/models"
	"agency-backoffice-api/monitor"
	"agency-backoffice-api/ratelimit"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	settings := config.Current

	// Cookie presence check for the back-office screens
	router.Use(middleware.SessionGate(middleware.SessionCookieName()))

	router.GET("/", controllers.Home)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Agency back-office API is running",
		})
	})

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			loginLimiter := ratelimit.New(config.Redis, time.Minute)
			auth.POST("/sign-up", controllers.SignUp)
			auth.POST("/sign-in", middleware.RateLimitMiddleware(loginLimiter, "login", settings.LoginRateLimit), controllers.SignIn)
			auth.POST("/sign-out", controllers.SignOut)
			auth.GET("/session", middleware.RequireSession(), controllers.GetSession)
			auth.POST("/forgot-password", controllers.ForgotPassword)
			auth.POST("/reset-password", controllers.ResetPassword)
		}

		// Scheduler entry point, guarded by JOB_TRIGGER_TOKEN when set
		api.GET("/send-policy-notifications", middleware.RequireJobToken(settings.JobTriggerToken), controllers.SendPolicyNotifications)

		protected := api.Group("")
		protected.Use(middleware.RequireSession())
		{
			protected.GET("/notifications/unread-count", controllers.GetUnreadCount)
			protected.GET("/notification-job-runs", middleware.RequireRole(models.RoleAdmin), controllers.ListNotificationJobRuns)
		}
	}

	notifications := router.Group("/notifications")
	notifications.Use(middleware.RequireSession())
	{
		notifications.GET("", controllers.GetNotifications)
		notifications.POST("/:id/read", controllers.MarkNotificationRead)
	}

	router.GET("/dashboard", middleware.RequireSession(), controllers.GetDashboardStats)

	policies := router.Group("/policies")
	policies.Use(middleware.RequireSession())
	{
		policies.GET("", controllers.ListPolicies)
		policies.GET("/:id", controllers.GetPolicy)
		policies.POST("", controllers.CreatePolicy)
		policies.PUT("/:id", controllers.UpdatePolicy)
		policies.DELETE("/:id", middleware.AdminOnly("delete policies"), controllers.DeletePolicy)
	}

	leads := router.Group("/leads")
	leads.Use(middleware.RequireSession())
	{
		leads.GET("", controllers.ListLeads)
		leads.POST("", controllers.CreateLead)
		leads.PUT("/:id", controllers.UpdateLead)
		leads.POST("/:id/convert", controllers.ConvertLead)
		leads.DELETE("/:id", middleware.AdminOnly("delete leads"), controllers.DeleteLead)
	}

	claims := router.Group("/claims")
	claims.Use(middleware.RequireSession())
	{
		claims.GET("", controllers.ListClaims)
		claims.GET("/policy-lookup", controllers.LookupPolicyByNumber)
		claims.POST("", controllers.SubmitClaim)
		claims.PUT("/:id", controllers.EditClaim)
		claims.DELETE("/:id", middleware.AdminOnly("delete claims"), controllers.DeleteClaim)
	}

	documents := router.Group("/documents")
	documents.Use(middleware.RequireSession())
	{
		documents.GET("", controllers.ListDocuments)
		documents.POST("", controllers.UploadDocument)
		documents.GET("/:id/download", controllers.DownloadDocument)
		documents.DELETE("/:id", middleware.AdminOnly("delete documents"), controllers.DeleteDocument)
	}

	// Admin screens
	commissions := router.Group("/commissions")
	commissions.Use(middleware.RequireSession(), middleware.AdminOnly("manage commissions"))
	{
		commissions.GET("", controllers.ListCommissions)
		commissions.POST("", controllers.CreateCommission)
		commissions.PUT("/:id", controllers.UpdateCommission)
		commissions.DELETE("/:id", controllers.DeleteCommission)
	}

	users := router.Group("/users")
	users.Use(middleware.RequireSession(), middleware.AdminOnly("manage users"))
	{
		users.GET("", controllers.ListUsers)
		users.PUT("/:id", controllers.UpdateUser)
		users.PUT("/:id/password", controllers.ChangeUserPassword)
		users.DELETE("/:id", controllers.DeleteUser)
	}

	// Operator endpoints
	monitor.RegisterRoutes(router.Group("/monitor", middleware.RequireSession(), middleware.RequireRole(models.RoleAdmin)))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})
}
