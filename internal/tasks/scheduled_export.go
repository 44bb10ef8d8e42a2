package tasks

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/dexreader/dexreader/internal/backup"
)

// LibraryExporter produces native backup files.
type LibraryExporter interface {
	Export(path string, opts backup.ExportOptions) (backup.ExportResult, error)
}

// ScheduledExportTask writes a full native backup into the backup directory.
type ScheduledExportTask struct {
	BackupDir string `json:"backup_dir"`
}

// Config returns the queue configuration for scheduled export tasks.
func (t ScheduledExportTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "scheduled_export",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ScheduledExportProcessor creates a processor function for ScheduledExportTask.
func ScheduledExportProcessor(exporter LibraryExporter) backlite.QueueProcessor[ScheduledExportTask] {
	return func(ctx context.Context, task ScheduledExportTask) error {
		if exporter == nil {
			return fmt.Errorf("library exporter not configured")
		}

		name := "library-" + time.Now().UTC().Format("20060102-150405") + backup.FileExtension
		path := filepath.Join(task.BackupDir, name)

		result, err := exporter.Export(path, backup.FullExportOptions())
		if err != nil {
			return fmt.Errorf("scheduled export: %w", err)
		}
		if result.Cancelled {
			log.Printf("[TASK] Scheduled export superseded by a manual operation")
			return nil
		}
		if result.Path == "" {
			log.Printf("[TASK] Scheduled export skipped: %s", result.Message)
			return nil
		}

		log.Printf("[TASK] Scheduled export wrote %s (%d manga, %d bytes)",
			result.Path, result.MangaCount, result.Size)
		return nil
	}
}

// NewScheduledExportQueue creates a backlite queue for scheduled export tasks.
func NewScheduledExportQueue(exporter LibraryExporter) backlite.Queue {
	return backlite.NewQueue(ScheduledExportProcessor(exporter))
}
