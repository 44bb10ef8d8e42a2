// Package interfaces documents the core abstractions used throughout the application.
//
// This package consolidates interface documentation to help code agents understand
// extension points and how to implement new functionality.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - LibraryStore: Manga and chapter access (internal/backup/interfaces.go)
//   - CollectionStore: Collections and membership (internal/backup/interfaces.go)
//   - ProgressStore: Reading progress (internal/backup/interfaces.go)
//   - ReaderSettingsStore: Per-manga reader overrides (internal/backup/interfaces.go)
//
// ## Service Interfaces
//
//   - http.NativeBackupService: Native backup export/import (internal/http/backup.go)
//   - http.ForeignBackupService: Mihon backup export/import (internal/http/backup.go)
//   - tasks.LibraryExporter: Export surface used by scheduled tasks (internal/tasks/scheduled_export.go)
//
// The compile-time checks in checks.go verify that every concrete type
// satisfies the interface its consumers expect.
package interfaces
