package backup

import "time"

// RowError describes a single record that could not be imported. Row errors
// never abort the run; they are collected so the caller can report which
// records were dropped and why.
type RowError struct {
	Section string `json:"section"`
	ID      string `json:"id,omitempty"`
	Title   string `json:"title,omitempty"`
	Reason  string `json:"reason"`
}

// ImportResult accumulates per-section counts for an import run. Skips are
// not errors: a skipped record is one the store already had (or one left
// unprocessed after cancellation), while a failure is a record with a
// data-quality problem.
type ImportResult struct {
	ImportedManga           int `json:"imported_manga"`
	SkippedManga            int `json:"skipped_manga"`
	ImportedChapters        int `json:"imported_chapters"`
	ImportedCollections     int `json:"imported_collections"`
	SkippedCollections      int `json:"skipped_collections"`
	ImportedCollectionItems int `json:"imported_collection_items"`
	ImportedProgress        int `json:"imported_progress"`
	ImportedOverrides       int `json:"imported_overrides"`

	Failures []RowError `json:"failures,omitempty"`

	// Cancelled marks a run that was superseded or cancelled mid-flight.
	// Whatever was committed before the cancellation point remains committed.
	Cancelled bool          `json:"cancelled,omitempty"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"-"`
}

// Fail records a row-level failure.
func (r *ImportResult) Fail(section, id, title, reason string) {
	r.Failures = append(r.Failures, RowError{Section: section, ID: id, Title: title, Reason: reason})
}

// ExportResult describes a completed (or short-circuited) export. An empty
// library yields a zero-count result with no Path: nothing was written and
// nothing went wrong.
type ExportResult struct {
	Path            string        `json:"path,omitempty"`
	MangaCount      int           `json:"manga_count"`
	ChapterCount    int           `json:"chapter_count"`
	CollectionCount int           `json:"collection_count"`
	ItemCount       int           `json:"collection_item_count"`
	ProgressCount   int           `json:"progress_count"`
	OverrideCount   int           `json:"override_count"`
	Size            int64         `json:"size_bytes,omitempty"`
	Checksum        string        `json:"checksum,omitempty"`
	Cancelled       bool          `json:"cancelled,omitempty"`
	Message         string        `json:"message,omitempty"`
	Duration        time.Duration `json:"-"`
}
