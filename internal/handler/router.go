package handler

import (
	"school-navigator/internal/config"
	"school-navigator/internal/middleware"
	"school-navigator/internal/service"
	"school-navigator/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Services are the dependencies the HTTP API is built on
type Services struct {
	Datasets *service.DatasetService
	Sessions *service.SessionService
	Imports  *service.ImportQueue
}

// NewRouter registers every route of the API
func NewRouter(cfg *config.Config, svc Services) *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = cfg.Server.MaxUploadSize

	// Apply CORS middleware
	r.Use(middleware.CORS(cfg))

	authHandler := NewAuthHandler(svc.Sessions)
	datasetHandler := NewDatasetHandler(svc.Datasets)
	floorHandler := NewFloorHandler(svc.Datasets, cfg.Server.UploadDir, cfg.Server.MaxUploadSize)
	roomHandler := NewRoomHandler(svc.Datasets)
	scheduleHandler := NewScheduleHandler(svc.Datasets)
	importHandler := NewImportHandler(svc.Imports, cfg.Server.MaxUploadSize)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{
			"status":  "healthy",
			"service": "school-navigator",
			"version": svc.Datasets.Version(),
		})
	})

	// Uploaded floor plans
	r.Static(UploadURLPrefix, cfg.Server.UploadDir)

	sessions := middleware.SessionMiddleware(svc.Sessions)

	// Auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/google", authHandler.GoogleLogin)
		auth.POST("/logout", sessions, authHandler.Logout)
		auth.GET("/me", sessions, authHandler.Me)
	}

	// API routes (anonymous viewers allowed unless noted)
	api := r.Group("/api")
	api.Use(sessions)
	{
		api.GET("/dataset", datasetHandler.GetDataset)
		api.GET("/export", datasetHandler.Export)

		api.GET("/floors", floorHandler.GetFloors)
		api.POST("/floors", floorHandler.CreateFloor)
		api.GET("/floors/:id", floorHandler.GetFloor)
		api.PUT("/floors/:id/map", floorHandler.UploadMap)

		api.GET("/rooms", roomHandler.GetRooms)
		api.POST("/rooms/place", roomHandler.PlaceRoom)
		api.GET("/rooms/:id", roomHandler.GetRoom)
		api.PATCH("/rooms/:id", roomHandler.RenameRoom)
		api.POST("/rooms/:id/center", roomHandler.CenterRoom)

		// Admin-only routes
		api.DELETE("/rooms/:id", middleware.RequireAdmin(), roomHandler.DeleteRoom)

		api.GET("/schedule", scheduleHandler.GetByDay)
		api.GET("/schedule/today", scheduleHandler.GetToday)

		imports := api.Group("/import")
		{
			imports.POST("/rooms", importHandler.ImportRooms)
			imports.POST("/schedule", importHandler.ImportSchedule)
			imports.POST("/xlsx", importHandler.ImportWorkbook)
			imports.POST("/json", importHandler.ImportJSON)
		}
	}

	return r
}
