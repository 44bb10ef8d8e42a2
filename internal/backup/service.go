// Package backup implements the library backup engine: the versioned native
// backup format, the export/import pipelines over the store repositories, and
// single-flight cancellation. The Mihon/Tachiyomi compatibility adapters live
// in the mihon sub-package.
package backup

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"
)

// Service runs native exports and imports. At most one native operation is in
// flight at a time: starting a new one supersedes the previous.
type Service struct {
	library     LibraryStore
	collections CollectionStore
	progress    ProgressStore
	reader      ReaderSettingsStore
	appVersion  string

	ctl Controller
}

// NewService creates a backup service over the given store repositories.
func NewService(library LibraryStore, collections CollectionStore, progress ProgressStore, reader ReaderSettingsStore, appVersion string) *Service {
	return &Service{
		library:     library,
		collections: collections,
		progress:    progress,
		reader:      reader,
		appVersion:  appVersion,
	}
}

// Cancel signals the in-flight operation, if any.
func (s *Service) Cancel() {
	s.ctl.Cancel()
}

// FileExtension is the conventional suffix for native backup files.
const FileExtension = ".dexreader"

// WriteBackupFile writes data atomically: the bytes land in a temp file that
// is renamed over the destination only once fully written, so a failed export
// never leaves a partial backup on disk.
func WriteBackupFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create backup directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write backup file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize backup file: %w", err)
	}
	return nil
}

// Checksum returns the hex BLAKE2b-256 digest of an encoded backup.
func Checksum(data []byte) string {
	sum := blake2b.Sum256(data)
	return fmt.Sprintf("%x", sum)
}
