package http

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dexreader/dexreader/internal/database"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController reports liveness of the two things every backup operation
// depends on: the library database and the backup directory.
type HealthController struct {
	db        *database.Database
	backupDir string
	version   string
}

func NewHealthController(db *database.Database, backupDir, version string) *HealthController {
	return &HealthController{
		db:        db,
		backupDir: backupDir,
		version:   version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	// Check database connectivity
	if h.db != nil {
		sqlDB, err := h.db.DB.DB()
		if err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if err := sqlDB.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	// Check the backup directory is writable; an export would fail at the
	// temp-file stage otherwise.
	if h.backupDir != "" {
		probe := filepath.Join(h.backupDir, ".dexreader-health")
		if err := os.WriteFile(probe, nil, 0o644); err != nil {
			checks["backup_dir"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			os.Remove(probe)
			checks["backup_dir"] = "ok"
		}
	} else {
		checks["backup_dir"] = "not configured"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
