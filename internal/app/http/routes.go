package routes

import (
	authapi "collabcanvas-app/internal/api/auth"
	"collabcanvas-app/internal/api/billing"
	contributionsapi "collabcanvas-app/internal/api/contributions"
	notificationsapi "collabcanvas-app/internal/api/notifications"
	projectsapi "collabcanvas-app/internal/api/projects"
	timelapseapi "collabcanvas-app/internal/api/timelapse"
	"collabcanvas-app/internal/app/http/middleware"
	"collabcanvas-app/internal/realtime"

	"collabcanvas-app/config"
	"collabcanvas-app/database"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, hub *realtime.Hub) {
	contributions := contributionsapi.NewHandler(database.DB, hub)
	projects := projectsapi.NewHandler(database.DB, hub)
	notifications := notificationsapi.NewHandler(database.DB)
	timelapse := timelapseapi.NewHandler(database.DB)

	r.POST("/webhook", billing.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/ws", hub.ServeWS)
	r.Static("/public", config.PUBLIC_DIR)

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/verify", authapi.VerifyEmail)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	public.GET("/projects", projects.ListActive)
	public.GET("/projects/:projectId", projects.GetByID)
	public.GET("/contributions/project/:projectId", contributions.List)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(), middleware.SanitizeAndCleanInputMiddleware())

	auth.POST("/contributions", contributions.Create)
	auth.POST("/contributions/batch", contributions.BatchCreate)
	auth.POST("/contributions/:id/vote", contributions.Vote)
	auth.DELETE("/contributions/:id", contributions.Delete)
	auth.DELETE("/contributions/:id/clear-canvas", contributions.ClearCanvas)

	auth.POST("/projects/create", projects.Create)
	auth.POST("/projects/:projectId/join", projects.Join)
	auth.PATCH("/projects/remove-contributor", projects.RemoveContributor)
	auth.GET("/projects/:projectId/export", projects.Export)
	auth.GET("/timelapse/:projectId", timelapse.Generate)

	auth.POST("/projects/:projectId/checkout", billing.CreateProjectCheckout)
	auth.GET("/payments", billing.GetPaymentHistory)

	auth.GET("/notifications", notifications.List)
	auth.PATCH("/notifications/read-all", notifications.MarkAllRead)
	auth.PATCH("/notifications/:notificationId/read", notifications.MarkRead)

	// Project owner only
	owner := auth.Group("/")
	owner.Use(middleware.RequireProjectOwner())
	owner.POST("/projects/:projectId/contributors", projects.AddContributors)
	owner.PATCH("/projects/:projectId/status", projects.UpdateStatus)
	owner.DELETE("/projects/:projectId", projects.Delete)
}
