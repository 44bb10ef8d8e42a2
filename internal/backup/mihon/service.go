package mihon

import (
	"context"
	"strconv"
	"time"

	"github.com/dexreader/dexreader/internal/backup"
)

// CatalogueSourceID is the source ID foreign clients assign to the catalogue
// this application reads from. Import only considers records carrying it;
// export stamps it on every record.
const CatalogueSourceID int64 = 2499283573021220255

// FileExtension is the conventional suffix for foreign backup files. Files
// named *.proto.gz use the same encoding and are accepted on import.
const FileExtension = ".tachibk"

// Service runs foreign-format exports and imports. Like the native service,
// at most one foreign operation is in flight at a time.
type Service struct {
	library     backup.LibraryStore
	collections backup.CollectionStore
	progress    backup.ProgressStore

	ctl backup.Controller
}

// NewService creates a foreign-format adapter over the given store
// repositories. Reader settings have no foreign counterpart, so the adapter
// never touches them.
func NewService(library backup.LibraryStore, collections backup.CollectionStore, progress backup.ProgressStore) *Service {
	return &Service{
		library:     library,
		collections: collections,
		progress:    progress,
	}
}

// Cancel signals the in-flight operation, if any.
func (s *Service) Cancel() {
	s.ctl.Cancel()
}

func cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// toMillis converts a timestamp to foreign epoch milliseconds, keeping zero
// times as 0.
func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// formatChapterNumber renders a foreign float chapter number the way the
// catalogue writes them ("12", "12.5"). Zero means unnumbered.
func formatChapterNumber(n float32) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatFloat(float64(n), 'f', -1, 32)
}

// parseChapterNumber is the inverse; unparseable or empty numbers become 0.
func parseChapterNumber(s string) float32 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0
	}
	return float32(f)
}
