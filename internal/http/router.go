package http

import (
	"github.com/gin-gonic/gin"

	"github.com/dexreader/dexreader/internal/database"
)

// RouterConfig carries the dependencies the router needs. A config struct
// keeps the constructor signature stable as endpoints grow.
type RouterConfig struct {
	Database   *database.Database
	Native     NativeBackupService
	Foreign    ForeignBackupService
	BackupDir  string
	AppVersion string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	healthController := NewHealthController(cfg.Database, cfg.BackupDir, cfg.AppVersion)
	router.GET("/health", healthController.Status)

	backupController := NewBackupController(cfg.Native, cfg.Foreign, cfg.BackupDir)
	api := router.Group("/api/backup")
	{
		api.GET("/files", backupController.ListFiles)
		api.POST("/export", backupController.Export)
		api.POST("/import", backupController.Import)
		api.POST("/cancel", backupController.Cancel)
		api.POST("/mihon/export", backupController.MihonExport)
		api.POST("/mihon/import", backupController.MihonImport)
	}

	return router
}
