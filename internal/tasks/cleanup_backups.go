package tasks

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/dexreader/dexreader/internal/backup"
)

// CleanupBackupsTask removes scheduled backup files older than the configured
// retention period. Only native backup files are touched; anything else in
// the directory is left alone.
type CleanupBackupsTask struct {
	BackupDir     string `json:"backup_dir"`
	RetentionDays int    `json:"retention_days"`
}

// Config returns the queue configuration for backup cleanup tasks.
func (t CleanupBackupsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_backups",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupBackupsProcessor creates a processor function for CleanupBackupsTask.
func CleanupBackupsProcessor() backlite.QueueProcessor[CleanupBackupsTask] {
	return func(ctx context.Context, task CleanupBackupsTask) error {
		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 14
		}
		cutoff := time.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour)

		entries, err := os.ReadDir(task.BackupDir)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read backup directory: %w", err)
		}

		deleted := 0
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), backup.FileExtension) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(cutoff) {
				continue
			}
			if err := os.Remove(filepath.Join(task.BackupDir, entry.Name())); err != nil {
				return fmt.Errorf("delete %s: %w", entry.Name(), err)
			}
			deleted++
		}

		log.Printf("[TASK] Cleaned up %d backup files older than %d days", deleted, retentionDays)
		return nil
	}
}

// NewCleanupBackupsQueue creates a backlite queue for backup cleanup tasks.
func NewCleanupBackupsQueue() backlite.Queue {
	return backlite.NewQueue(CleanupBackupsProcessor())
}
