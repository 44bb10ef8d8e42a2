package backup

import (
	"time"

	"github.com/dexreader/dexreader/internal/entities"
)

// Schema version of the native backup format. The encoded schemaVersion is
// major*10000+minor; importers reject a differing major and tolerate any
// minor, so minor bumps must stay wire-compatible.
const (
	SchemaMajor = 1
	SchemaMinor = 2
)

// CurrentSchemaVersion is the encoded version stamped on new exports.
const CurrentSchemaVersion = SchemaMajor*10000 + SchemaMinor

// MajorVersion extracts the major component from an encoded schema version.
func MajorVersion(v uint32) uint32 { return v / 10000 }

// Envelope is the root of a native backup file. Only the library section is
// mandatory; the others are present when the user opted in at export time.
type Envelope struct {
	SchemaVersion uint32
	ExportedAt    time.Time
	AppVersion    string

	Library        LibrarySection
	Collections    *CollectionsSection
	Progress       *ProgressSection
	ReaderSettings *ReaderSettingsSection
}

// LibrarySection carries the cached catalogue rows. Chapters reference manga
// by ID; the importer commits manga first regardless of file order.
type LibrarySection struct {
	Manga    []entities.Manga
	Chapters []entities.Chapter
}

// CollectionsSection carries collections and their membership rows.
type CollectionsSection struct {
	Collections []entities.Collection
	Items       []entities.CollectionItem
}

// ProgressSection carries reading progress. The per-manga stream is the
// authoritative source for FirstReadAt.
type ProgressSection struct {
	Manga    []entities.MangaProgress
	Chapters []entities.ChapterProgress
}

// ReaderSettingsSection carries per-manga reader overrides.
type ReaderSettingsSection struct {
	Overrides []entities.ReaderOverride
}
