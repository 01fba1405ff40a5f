package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sj7trunks/datestack/config"
	"github.com/sj7trunks/datestack/handlers"
	"github.com/sj7trunks/datestack/middleware"
)

// RegisterAuthRoutes registers registration and login endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.RegisterHandler)
		api.POST("/login", hb.LoginHandler)
	}
}

// RegisterAccountRoutes registers profile and API key endpoints.
func RegisterAccountRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.Use(middleware.AuthMiddleware(hb.UserRepo, hb.Keys))
		api.GET("/me", hb.GetMeHandler)
		api.PUT("/me", hb.UpdateMeHandler)
		api.PUT("/me/password", hb.UpdatePasswordHandler)

		api.GET("/keys", hb.ListKeysHandler)
		api.POST("/keys", hb.CreateKeyHandler)
		api.DELETE("/keys/:id", hb.DeleteKeyHandler)
	}
}

// RegisterSyncRoutes registers source, event and calendar endpoints.
func RegisterSyncRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.Use(middleware.AuthMiddleware(hb.UserRepo, hb.Keys))
		api.GET("/sources", hb.ListSourcesHandler)
		api.POST("/sources", hb.CreateSourceHandler)
		api.DELETE("/sources/:id", hb.DeleteSourceHandler)
		api.POST("/sources/:id/refresh", hb.RefreshSourceHandler)

		api.POST("/events/sync", hb.SyncHandler)
		api.GET("/events", hb.ListEventsHandler)

		api.GET("/calendars", hb.ListCalendarsHandler)
		api.PATCH("/calendars/:id", hb.UpdateCalendarHandler)
	}
}

// RegisterAgendaRoutes registers the task list endpoints.
func RegisterAgendaRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/agenda")
	{
		api.Use(middleware.AuthMiddleware(hb.UserRepo, hb.Keys))
		api.GET("", hb.ListAgendaHandler)
		api.POST("", hb.CreateAgendaHandler)
		api.PATCH("/:id", hb.UpdateAgendaHandler)
		api.DELETE("/:id", hb.DeleteAgendaHandler)
	}
}

// RegisterAvailabilityRoutes registers the owner-facing settings endpoints
// and the public share pages. The public group carries no auth middleware;
// possession of the share token is the credential.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/availability")
	{
		api.Use(middleware.AuthMiddleware(hb.UserRepo, hb.Keys))
		api.GET("/settings", hb.GetSettingsHandler)
		api.PUT("/settings", hb.UpdateSettingsHandler)
		api.POST("/settings/rotate-token", hb.RotateTokenHandler)
	}

	public := r.Group("/api/public/availability")
	{
		public.GET("/:token", hb.PublicAvailabilityHandler)
		public.GET("/:token/feed.ics", hb.BusyFeedHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations. API keys never
// grant admin access, so the group demands a JWT session on top of auth.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.AuthMiddleware(hb.UserRepo, hb.Keys), middleware.AdminMiddleware())
		adminGroup.GET("/users", hb.GetAllUsersHandler)
		adminGroup.GET("/stats", hb.GetStatsHandler)
		adminGroup.GET("/backup", hb.ExportBackupHandler)
		adminGroup.POST("/restore", hb.RestoreBackupHandler)
	}
}

// RegisterHealthRoutes registers the liveness and metrics endpoints.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(middleware.MetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.CORSOriginList(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-API-Key"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(secure.New(secure.Config{
		ContentTypeNosniff: true,
		FrameDeny:          true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	RegisterHealthRoutes(r)
	RegisterAuthRoutes(r, hb)
	RegisterAccountRoutes(r, hb)
	RegisterSyncRoutes(r, hb)
	RegisterAgendaRoutes(r, hb)
	RegisterAvailabilityRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
