// Package scheduler runs the periodic backup jobs. The cron entries only
// enqueue tasks; the actual work happens on the task queue workers, so a slow
// export never blocks the scheduler loop.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dexreader/dexreader/internal/config"
	"github.com/dexreader/dexreader/internal/tasks"
)

// BackupScheduler triggers scheduled library exports and retention cleanup.
type BackupScheduler struct {
	cfg   config.ScheduledBackup
	dir   string
	queue *tasks.Client

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewBackupScheduler creates a new scheduler instance.
func NewBackupScheduler(cfg config.ScheduledBackup, backupDir string, queue *tasks.Client) *BackupScheduler {
	return &BackupScheduler{
		cfg:   cfg,
		dir:   backupDir,
		queue: queue,
		cron:  cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if scheduled backups are enabled.
func (s *BackupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		log.Printf("Backup scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.runBackup()
	})
	if err != nil {
		return fmt.Errorf("invalid backup schedule '%s': %w", s.cfg.Schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Backup scheduler: started with schedule '%s'", s.cfg.Schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *BackupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Backup scheduler: stopped")
}

// RunNow triggers an immediate backup cycle.
func (s *BackupScheduler) RunNow() {
	go s.runBackup()
}

// IsRunning returns whether the scheduler is active.
func (s *BackupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next backup will occur.
func (s *BackupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runBackup enqueues one export and one retention cleanup.
func (s *BackupScheduler) runBackup() {
	_, err := s.queue.Add(tasks.ScheduledExportTask{BackupDir: s.dir}).Save()
	if err != nil {
		log.Printf("Backup scheduler: failed to enqueue export: %v", err)
		return
	}
	_, err = s.queue.Add(tasks.CleanupBackupsTask{
		BackupDir:     s.dir,
		RetentionDays: s.cfg.RetentionDays,
	}).Save()
	if err != nil {
		log.Printf("Backup scheduler: failed to enqueue cleanup: %v", err)
	}
}
