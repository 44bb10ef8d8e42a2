package http

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dexreader/dexreader/internal/backup"
	"github.com/dexreader/dexreader/internal/backup/mihon"
)

// NativeBackupService runs native exports and imports.
type NativeBackupService interface {
	Export(path string, opts backup.ExportOptions) (backup.ExportResult, error)
	Import(path string) (backup.ImportResult, error)
	Cancel()
}

// ForeignBackupService runs Mihon/Tachiyomi exports and imports.
type ForeignBackupService interface {
	Export(path string) (backup.ExportResult, error)
	Import(path string) (backup.ImportResult, error)
	Cancel()
}

// BackupController exposes the backup engine over HTTP. Import and export
// paths refer to the server's filesystem; this is a single-user local
// application, the API is its own UI's backend.
type BackupController struct {
	native    NativeBackupService
	foreign   ForeignBackupService
	backupDir string
}

func NewBackupController(native NativeBackupService, foreign ForeignBackupService, backupDir string) *BackupController {
	return &BackupController{
		native:    native,
		foreign:   foreign,
		backupDir: backupDir,
	}
}

// ExportRequest selects the export destination and sections. An empty path
// means a timestamped file in the configured backup directory.
type ExportRequest struct {
	Path                  string `json:"path"`
	IncludeCollections    *bool  `json:"include_collections"`
	IncludeProgress       *bool  `json:"include_progress"`
	IncludeReaderSettings *bool  `json:"include_reader_settings"`
}

// ImportRequest names the file to restore.
type ImportRequest struct {
	Path string `json:"path" binding:"required"`
}

// Export writes a native backup file.
// POST /api/backup/export
func (bc *BackupController) Export(c *gin.Context) {
	// The body is optional; an empty request means a full export into the
	// backup directory. A present but malformed body is a client error, not
	// a request for a default export.
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(c, "invalid request body")
		return
	}

	opts := backup.FullExportOptions()
	if req.IncludeCollections != nil {
		opts.IncludeCollections = *req.IncludeCollections
	}
	if req.IncludeProgress != nil {
		opts.IncludeProgress = *req.IncludeProgress
	}
	if req.IncludeReaderSettings != nil {
		opts.IncludeReaderSettings = *req.IncludeReaderSettings
	}

	path := req.Path
	if path == "" {
		path = bc.defaultPath("library", backup.FileExtension)
	}

	result, err := bc.native.Export(path, opts)
	if err != nil {
		respondInternalError(c, err, "native export")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Import restores a native backup file.
// POST /api/backup/import
func (bc *BackupController) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "path is required")
		return
	}

	result, err := bc.native.Import(req.Path)
	if err != nil {
		respondBackupError(c, err, "native import")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Cancel signals both pipelines; whichever is in flight stops at its next
// cooperative check.
// POST /api/backup/cancel
func (bc *BackupController) Cancel(c *gin.Context) {
	bc.native.Cancel()
	bc.foreign.Cancel()
	respondSuccess(c, "cancellation requested")
}

// MihonImport restores a Mihon/Tachiyomi backup file.
// POST /api/backup/mihon/import
func (bc *BackupController) MihonImport(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "path is required")
		return
	}

	result, err := bc.foreign.Import(req.Path)
	if err != nil {
		respondBackupError(c, err, "mihon import")
		return
	}
	c.JSON(http.StatusOK, result)
}

// MihonExport writes a Mihon/Tachiyomi backup file.
// POST /api/backup/mihon/export
func (bc *BackupController) MihonExport(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(c, "invalid request body")
		return
	}

	path := req.Path
	if path == "" {
		path = bc.defaultPath("library", mihon.FileExtension)
	}

	result, err := bc.foreign.Export(path)
	if err != nil {
		respondInternalError(c, err, "mihon export")
		return
	}
	c.JSON(http.StatusOK, result)
}

// BackupFile describes one file in the backup directory.
type BackupFile struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Size       int64     `json:"size_bytes"`
	ModifiedAt time.Time `json:"modified_at"`
}

// ListFiles returns the backup files in the configured directory, newest
// first.
// GET /api/backup/files
func (bc *BackupController) ListFiles(c *gin.Context) {
	entries, err := os.ReadDir(bc.backupDir)
	if os.IsNotExist(err) {
		c.JSON(http.StatusOK, gin.H{"files": []BackupFile{}})
		return
	}
	if err != nil {
		respondInternalError(c, err, "list backup files")
		return
	}

	files := make([]BackupFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), backup.FileExtension) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, BackupFile{
			Name:       entry.Name(),
			Path:       filepath.Join(bc.backupDir, entry.Name()),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].ModifiedAt.After(files[j].ModifiedAt) })

	c.JSON(http.StatusOK, gin.H{"files": files})
}

func (bc *BackupController) defaultPath(prefix, ext string) string {
	name := prefix + "-" + time.Now().UTC().Format("20060102-150405") + ext
	return filepath.Join(bc.backupDir, name)
}

// respondBackupError maps the importer's failure taxonomy onto status codes:
// a file the user picked that cannot be read as a backup is their problem
// (422), everything else is ours (500).
func respondBackupError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, backup.ErrCorruptArchive):
		respondError(c, http.StatusUnprocessableEntity, "corrupt_archive",
			"backup file is corrupt or truncated, re-export it and try again")
	case errors.Is(err, backup.ErrUnrecognizedSchema):
		respondError(c, http.StatusUnprocessableEntity, "unrecognized_schema",
			"file is not a recognized backup format")
	case errors.Is(err, backup.ErrIncompatibleVersion):
		respondError(c, http.StatusUnprocessableEntity, "incompatible_version",
			"backup was made by a newer version, update the application and try again")
	case errors.Is(err, os.ErrNotExist):
		respondBadRequest(c, "backup file does not exist")
	default:
		respondInternalError(c, err, context)
	}
}
