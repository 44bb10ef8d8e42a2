package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexreader/dexreader/internal/backup"
	"github.com/dexreader/dexreader/internal/backup/mihon"
	"github.com/dexreader/dexreader/internal/database"
	"github.com/dexreader/dexreader/internal/database/collections"
	"github.com/dexreader/dexreader/internal/database/manga"
	"github.com/dexreader/dexreader/internal/database/progress"
	"github.com/dexreader/dexreader/internal/database/readersettings"
	"github.com/dexreader/dexreader/internal/entities"
)

func setupBackupTest(t *testing.T) (*gin.Engine, *database.Database, string, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_backup_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	backupDir := t.TempDir()

	libraryRepo := manga.NewRepository(db.DB)
	collectionsRepo := collections.NewRepository(db.DB)
	progressRepo := progress.NewRepository(db.DB)
	readerRepo := readersettings.NewRepository(db.DB)

	native := backup.NewService(libraryRepo, collectionsRepo, progressRepo, readerRepo, "test")
	foreign := mihon.NewService(libraryRepo, collectionsRepo, progressRepo)

	router := NewRouter(RouterConfig{
		Database:   db,
		Native:     native,
		Foreign:    foreign,
		BackupDir:  backupDir,
		AppVersion: "test",
	})

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return router, db, backupDir, cleanup
}

func seedLibrary(t *testing.T, db *database.Database) {
	t.Helper()
	repo := manga.NewRepository(db.DB)
	require.NoError(t, repo.UpsertManga([]entities.Manga{
		{ID: "6e2a1517-5b21-4f0a-8a2f-1bb0e8a7d001", Title: "Berserk", Favorite: true},
	}))
}

func TestBackupController_ExportAndListFiles(t *testing.T) {
	router, db, backupDir, cleanup := setupBackupTest(t)
	defer cleanup()
	seedLibrary(t, db)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/backup/export", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var result backup.ExportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 1, result.MangaCount)
	assert.True(t, strings.HasPrefix(result.Path, backupDir))
	assert.NotEmpty(t, result.Checksum)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/backup/files", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Files []BackupFile `json:"files"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Len(t, listing.Files, 1)
	assert.Equal(t, result.Size, listing.Files[0].Size)
}

func TestBackupController_ExportEmptyLibrary(t *testing.T) {
	router, _, _, cleanup := setupBackupTest(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/backup/export", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var result backup.ExportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Zero(t, result.MangaCount)
	assert.Empty(t, result.Path)
}

func TestBackupController_ExportRejectsMalformedBody(t *testing.T) {
	// An absent body means a default full export, but a body that fails to
	// parse must not trigger one.
	router, _, backupDir, cleanup := setupBackupTest(t)
	defer cleanup()

	for _, path := range []string{"/api/backup/export", "/api/backup/mihon/export"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", path, strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no export may run for a malformed request")
}

func TestBackupController_ImportRoundTrip(t *testing.T) {
	router, db, _, cleanup := setupBackupTest(t)
	defer cleanup()
	seedLibrary(t, db)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/backup/export", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var exported backup.ExportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &exported))

	body, _ := json.Marshal(ImportRequest{Path: exported.Path})
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/backup/import", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var result backup.ImportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 1, result.ImportedManga)
	assert.False(t, result.Cancelled)
}

func TestBackupController_ImportRequiresPath(t *testing.T) {
	router, _, _, cleanup := setupBackupTest(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/backup/import", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBackupController_ImportRejectsGarbageFile(t *testing.T) {
	router, _, _, cleanup := setupBackupTest(t)
	defer cleanup()

	path := filepath.Join(t.TempDir(), "junk"+backup.FileExtension)
	require.NoError(t, os.WriteFile(path, []byte("this is not a backup"), 0o644))

	body, _ := json.Marshal(ImportRequest{Path: path})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/backup/import", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "corrupt_archive", resp.Code)
}

func TestBackupController_Cancel(t *testing.T) {
	router, _, _, cleanup := setupBackupTest(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/backup/cancel", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _, cleanup := setupBackupTest(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "ok", health.Checks["database"])
	assert.Equal(t, "ok", health.Checks["backup_dir"])
}

func TestHealthEndpointMissingBackupDir(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(RouterConfig{
		BackupDir:  "/nonexistent/dexreader-backups",
		AppVersion: "test",
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "unhealthy", health.Status)
	assert.Contains(t, health.Checks["backup_dir"], "error")
}
