// Package cli implements the command-line entry points for backup and
// migration operations. Each command owns its flag set and runs against the
// same store layer the HTTP server uses.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/dexreader/dexreader/internal/backup"
	"github.com/dexreader/dexreader/internal/backup/mihon"
	"github.com/dexreader/dexreader/internal/database"
	"github.com/dexreader/dexreader/internal/database/collections"
	"github.com/dexreader/dexreader/internal/database/manga"
	"github.com/dexreader/dexreader/internal/database/progress"
	"github.com/dexreader/dexreader/internal/database/readersettings"
)

// services bundles everything a backup command needs.
type services struct {
	db      *database.Database
	native  *backup.Service
	foreign *mihon.Service
}

func (s *services) close() {
	s.db.Close()
}

// openServices opens the database and wires the backup services over it.
func openServices(dbPath, appVersion string) (*services, error) {
	absPath, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	db, err := database.NewDatabase(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	libraryRepo := manga.NewRepository(db.DB)
	collectionsRepo := collections.NewRepository(db.DB)
	progressRepo := progress.NewRepository(db.DB)
	readerRepo := readersettings.NewRepository(db.DB)

	return &services{
		db:      db,
		native:  backup.NewService(libraryRepo, collectionsRepo, progressRepo, readerRepo, appVersion),
		foreign: mihon.NewService(libraryRepo, collectionsRepo, progressRepo),
	}, nil
}

// printImportResult renders an import result for terminal output.
func printImportResult(result backup.ImportResult) {
	fmt.Println("\n=== Import Summary ===")
	fmt.Printf("Manga imported: %d (skipped: %d)\n", result.ImportedManga, result.SkippedManga)
	fmt.Printf("Chapters imported: %d\n", result.ImportedChapters)
	fmt.Printf("Collections imported: %d (reused: %d)\n", result.ImportedCollections, result.SkippedCollections)
	fmt.Printf("Collection items imported: %d\n", result.ImportedCollectionItems)
	fmt.Printf("Progress rows imported: %d\n", result.ImportedProgress)
	if result.ImportedOverrides > 0 {
		fmt.Printf("Reader overrides imported: %d\n", result.ImportedOverrides)
	}
	if result.Cancelled {
		fmt.Println("Import was cancelled before completing")
	}
	if len(result.Failures) > 0 {
		fmt.Printf("\n%d rows could not be imported:\n", len(result.Failures))
		for _, f := range result.Failures {
			label := f.Title
			if label == "" {
				label = f.ID
			}
			fmt.Printf("  [%s] %s: %s\n", f.Section, label, f.Reason)
		}
	}
}

// printExportResult renders an export result for terminal output.
func printExportResult(result backup.ExportResult) {
	if result.Path == "" {
		fmt.Println(result.Message)
		return
	}
	fmt.Println("\n=== Export Summary ===")
	fmt.Printf("File: %s (%d bytes)\n", result.Path, result.Size)
	fmt.Printf("Checksum: %s\n", result.Checksum)
	fmt.Printf("Manga: %d, chapters: %d\n", result.MangaCount, result.ChapterCount)
	if result.CollectionCount > 0 || result.ItemCount > 0 {
		fmt.Printf("Collections: %d (%d items)\n", result.CollectionCount, result.ItemCount)
	}
	if result.ProgressCount > 0 {
		fmt.Printf("Progress rows: %d\n", result.ProgressCount)
	}
	if result.OverrideCount > 0 {
		fmt.Printf("Reader overrides: %d\n", result.OverrideCount)
	}
}
