package config

// Default filesystem locations
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./dexreader.db"

	// DefaultBackupDir is the default directory for backup files
	DefaultBackupDir = "./backups"
)
