package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dexreader/dexreader/internal/backup"
	"github.com/dexreader/dexreader/internal/backup/mihon"
	"github.com/dexreader/dexreader/internal/config"
	"github.com/dexreader/dexreader/internal/database"
	"github.com/dexreader/dexreader/internal/database/collections"
	"github.com/dexreader/dexreader/internal/database/manga"
	"github.com/dexreader/dexreader/internal/database/progress"
	"github.com/dexreader/dexreader/internal/database/readersettings"
	http_controllers "github.com/dexreader/dexreader/internal/http"
	"github.com/dexreader/dexreader/internal/scheduler"
	"github.com/dexreader/dexreader/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM. SIGKILL cannot be caught.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the scheduler and task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting dexreader v%s", version)

	// Make sure the backup directory exists and is writable before anything
	// tries to export into it.
	if cfg.Backup.Dir == "" {
		log.Fatalf("Backup directory is not set")
		return
	}
	if err := os.MkdirAll(cfg.Backup.Dir, 0o755); err != nil {
		log.Fatalf("Failed to create backup directory %s: %v", cfg.Backup.Dir, err)
	}

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	mangaRepo := manga.NewRepository(db.DB)
	collectionRepo := collections.NewRepository(db.DB)
	progressRepo := progress.NewRepository(db.DB)
	readerRepo := readersettings.NewRepository(db.DB)

	appVersion := cfg.Backup.AppVersion
	if appVersion == "" {
		appVersion = version
	}

	nativeService := backup.NewService(mangaRepo, collectionRepo, progressRepo, readerRepo, appVersion)
	foreignService := mihon.NewService(mangaRepo, collectionRepo, progressRepo)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		// Register task queues
		taskClient.Register(
			tasks.NewScheduledExportQueue(nativeService),
			tasks.NewCleanupBackupsQueue(),
		)

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// The scheduler only enqueues work; without the task queue it has nothing
	// to hand jobs to.
	var backupScheduler *scheduler.BackupScheduler
	if taskClient != nil {
		backupScheduler = scheduler.NewBackupScheduler(cfg.ScheduledBackup, cfg.Backup.Dir, taskClient)
		if err := backupScheduler.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start backup scheduler: %v", err)
		}
		if next := backupScheduler.GetNextRunTime(); next != nil {
			log.Printf("Next scheduled backup: %s", next.Format(time.RFC3339))
		}
	} else if cfg.ScheduledBackup.Enabled {
		log.Printf("WARNING: Scheduled backups are enabled but the task queue is disabled. Set 'TASKS_ENABLED' to enable them.")
	}

	routerCfg := http_controllers.RouterConfig{
		Database:   db,
		Native:     nativeService,
		Foreign:    foreignService,
		BackupDir:  cfg.Backup.Dir,
		AppVersion: version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if backupScheduler != nil {
			backupScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
