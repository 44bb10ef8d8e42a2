package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Backup
		ScheduledBackup
		Tasks
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Backup struct {
		Dir        string // Directory for backup files
		AppVersion string
	}
	ScheduledBackup struct {
		Enabled       bool
		Schedule      string // Cron format: "0 4 * * *" = daily at 04:00
		RetentionDays int    // Days to keep scheduled backup files
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("backup_dir", DefaultBackupDir)
	v.SetDefault("app_version", "dev")
	v.SetDefault("scheduled_backup_enabled", false)
	v.SetDefault("scheduled_backup_schedule", "0 4 * * *") // Daily at 04:00
	v.SetDefault("scheduled_backup_retention_days", 14)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Backup: Backup{
			Dir:        v.GetString("BACKUP_DIR"),
			AppVersion: v.GetString("APP_VERSION"),
		},
		ScheduledBackup: ScheduledBackup{
			Enabled:       v.GetBool("SCHEDULED_BACKUP_ENABLED"),
			Schedule:      v.GetString("SCHEDULED_BACKUP_SCHEDULE"),
			RetentionDays: v.GetInt("SCHEDULED_BACKUP_RETENTION_DAYS"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
