package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/dexreader/dexreader/internal/backup"
	"github.com/dexreader/dexreader/internal/backup/mihon"
	"github.com/dexreader/dexreader/internal/database/collections"
	"github.com/dexreader/dexreader/internal/database/manga"
	"github.com/dexreader/dexreader/internal/database/progress"
	"github.com/dexreader/dexreader/internal/database/readersettings"
	"github.com/dexreader/dexreader/internal/http"
	"github.com/dexreader/dexreader/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// LibraryStore implementations
var _ backup.LibraryStore = (*manga.Repository)(nil)

// CollectionStore implementations
var _ backup.CollectionStore = (*collections.Repository)(nil)

// ProgressStore implementations
var _ backup.ProgressStore = (*progress.Repository)(nil)

// ReaderSettingsStore implementations
var _ backup.ReaderSettingsStore = (*readersettings.Repository)(nil)

// =============================================================================
// Service Layer
// =============================================================================

// Backup service implementations consumed by the HTTP controllers
var _ http.NativeBackupService = (*backup.Service)(nil)
var _ http.ForeignBackupService = (*mihon.Service)(nil)

// Export surface consumed by the scheduled task queue
var _ tasks.LibraryExporter = (*backup.Service)(nil)
