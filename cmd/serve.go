package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/sj7trunks/datestack/config"
	datecron "github.com/sj7trunks/datestack/cron"
	"github.com/sj7trunks/datestack/database"
	"github.com/sj7trunks/datestack/database/repository"
	"github.com/sj7trunks/datestack/handlers"
	"github.com/sj7trunks/datestack/middleware"
	"github.com/sj7trunks/datestack/routes"
	"github.com/sj7trunks/datestack/services/agenda"
	"github.com/sj7trunks/datestack/services/apikey"
	"github.com/sj7trunks/datestack/services/availability"
	"github.com/sj7trunks/datestack/services/backup"
	"github.com/sj7trunks/datestack/services/events"
	"github.com/sj7trunks/datestack/services/user"
	"github.com/sj7trunks/datestack/utils"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and background jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port (overrides APP_PORT)")

	return cmd
}

func runServe(port string) error {
	config.LoadConfig()
	logger := utils.GetLogger()

	if config.IsProduction() {
		if config.AppConfig.JWTSecret == config.DefaultJWTSecret {
			logger.Sugar().Fatal("serve: JWT_SECRET still has the development default, refusing to start in production")
		}
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	utils.StartHealthMonitor(database.DB)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	userRepo := &repository.GormUserRepo{}
	keyRepo := &repository.GormAPIKeyRepo{}
	sourceRepo := &repository.GormSourceRepo{}
	calendarRepo := &repository.GormCalendarRepo{}
	eventRepo := &repository.GormEventRepo{}
	agendaRepo := &repository.GormAgendaRepo{}
	availabilityRepo := &repository.GormAvailabilityRepo{}
	backupRepo := &repository.GormBackupRepo{}

	// services.
	userService := &user.DefaultUserService{Repo: userRepo}
	keyService := &apikey.DefaultAPIKeyService{Repo: keyRepo}
	eventService := &events.DefaultEventService{
		Events:    eventRepo,
		Sources:   sourceRepo,
		Calendars: calendarRepo,
	}
	agendaService := &agenda.DefaultAgendaService{Repo: agendaRepo}
	availabilityService := &availability.DefaultAvailabilityService{
		Repo:   availabilityRepo,
		Events: eventRepo,
		Users:  userRepo,
	}
	backupService := &backup.DefaultBackupService{
		Repo:    backupRepo,
		Users:   userRepo,
		Sources: sourceRepo,
		Events:  eventRepo,
		Agenda:  agendaRepo,
	}

	// handlers.
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	keyHandler := handlers.NewAPIKeyHandler(keyService)
	eventHandler := handlers.NewEventHandler(eventService)
	agendaHandler := handlers.NewAgendaHandler(agendaService)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	adminHandler := handlers.NewAdminHandler(userService, backupService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo: userRepo,
		Keys:     keyService,

		// Auth endpoints.
		RegisterHandler: authHandler.RegisterHandler,
		LoginHandler:    authHandler.LoginHandler,

		// Account endpoints.
		GetMeHandler:          userHandler.GetMeHandler,
		UpdateMeHandler:       userHandler.UpdateMeHandler,
		UpdatePasswordHandler: userHandler.UpdatePasswordHandler,

		// API key endpoints.
		ListKeysHandler:  keyHandler.ListKeysHandler,
		CreateKeyHandler: keyHandler.CreateKeyHandler,
		DeleteKeyHandler: keyHandler.DeleteKeyHandler,

		// Source and event endpoints.
		ListSourcesHandler:   eventHandler.ListSourcesHandler,
		CreateSourceHandler:  eventHandler.CreateSourceHandler,
		DeleteSourceHandler:  eventHandler.DeleteSourceHandler,
		RefreshSourceHandler: eventHandler.RefreshSourceHandler,
		SyncHandler:          eventHandler.SyncHandler,
		ListEventsHandler:    eventHandler.ListEventsHandler,

		// Calendar endpoints.
		ListCalendarsHandler:  eventHandler.ListCalendarsHandler,
		UpdateCalendarHandler: eventHandler.UpdateCalendarHandler,

		// Agenda endpoints.
		ListAgendaHandler:   agendaHandler.ListAgendaHandler,
		CreateAgendaHandler: agendaHandler.CreateAgendaHandler,
		UpdateAgendaHandler: agendaHandler.UpdateAgendaHandler,
		DeleteAgendaHandler: agendaHandler.DeleteAgendaHandler,

		// Availability endpoints.
		GetSettingsHandler:        availabilityHandler.GetSettingsHandler,
		UpdateSettingsHandler:     availabilityHandler.UpdateSettingsHandler,
		RotateTokenHandler:        availabilityHandler.RotateTokenHandler,
		PublicAvailabilityHandler: availabilityHandler.PublicAvailabilityHandler,
		BusyFeedHandler:           availabilityHandler.BusyFeedHandler,

		// Admin endpoints.
		GetAllUsersHandler:   adminHandler.GetAllUsersHandler,
		GetStatsHandler:      adminHandler.GetStatsHandler,
		ExportBackupHandler:  adminHandler.ExportBackupHandler,
		RestoreBackupHandler: adminHandler.RestoreBackupHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the background jobs.
	worker := datecron.NewWorker(eventService, eventRepo)
	if err := worker.Start(); err != nil {
		logger.Sugar().Fatalf("serve: failed to start background jobs: %v", err)
	}

	// Start the HTTP server.
	if port == "" {
		port = config.AppConfig.AppPort
	}
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("serve: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("serve: server is shutting down...")

	select {
	case <-worker.Stop().Done():
	case <-time.After(10 * time.Second):
		logger.Sugar().Warn("serve: background jobs still running, shutting down anyway")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("serve: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("serve: server stopped gracefully")
	return nil
}
