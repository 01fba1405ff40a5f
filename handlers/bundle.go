package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sj7trunks/datestack/database/repository"
	"github.com/sj7trunks/datestack/services/apikey"
)

// HandlerBundle groups all endpoint handlers into one struct, together with
// the dependencies the route middleware needs.
type HandlerBundle struct {
	UserRepo repository.UserRepository
	Keys     apikey.APIKeyService

	// Auth endpoints
	RegisterHandler gin.HandlerFunc
	LoginHandler    gin.HandlerFunc

	// Account endpoints
	GetMeHandler          gin.HandlerFunc
	UpdateMeHandler       gin.HandlerFunc
	UpdatePasswordHandler gin.HandlerFunc

	// API key endpoints
	ListKeysHandler  gin.HandlerFunc
	CreateKeyHandler gin.HandlerFunc
	DeleteKeyHandler gin.HandlerFunc

	// Source and event endpoints
	ListSourcesHandler   gin.HandlerFunc
	CreateSourceHandler  gin.HandlerFunc
	DeleteSourceHandler  gin.HandlerFunc
	RefreshSourceHandler gin.HandlerFunc
	SyncHandler          gin.HandlerFunc
	ListEventsHandler    gin.HandlerFunc

	// Calendar endpoints
	ListCalendarsHandler  gin.HandlerFunc
	UpdateCalendarHandler gin.HandlerFunc

	// Agenda endpoints
	ListAgendaHandler   gin.HandlerFunc
	CreateAgendaHandler gin.HandlerFunc
	UpdateAgendaHandler gin.HandlerFunc
	DeleteAgendaHandler gin.HandlerFunc

	// Availability endpoints
	GetSettingsHandler        gin.HandlerFunc
	UpdateSettingsHandler     gin.HandlerFunc
	RotateTokenHandler        gin.HandlerFunc
	PublicAvailabilityHandler gin.HandlerFunc
	BusyFeedHandler           gin.HandlerFunc

	// Admin endpoints
	GetAllUsersHandler   gin.HandlerFunc
	GetStatsHandler      gin.HandlerFunc
	ExportBackupHandler  gin.HandlerFunc
	RestoreBackupHandler gin.HandlerFunc
}
