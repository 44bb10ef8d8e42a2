package backup

import (
	"context"
	"fmt"
	"time"
)

// ExportOptions selects which optional sections are included in a native
// backup. The library section is always present.
type ExportOptions struct {
	IncludeCollections    bool `json:"include_collections"`
	IncludeProgress       bool `json:"include_progress"`
	IncludeReaderSettings bool `json:"include_reader_settings"`
}

// FullExportOptions includes every section.
func FullExportOptions() ExportOptions {
	return ExportOptions{
		IncludeCollections:    true,
		IncludeProgress:       true,
		IncludeReaderSettings: true,
	}
}

// Export serializes the library into a native backup file at path. An empty
// library is a no-op signaled through the result, not an error; any store or
// I/O failure aborts the whole export. The store is never mutated.
func (s *Service) Export(path string, opts ExportOptions) (ExportResult, error) {
	start := time.Now()
	ctx := s.ctl.Begin(context.Background())
	defer s.ctl.End(ctx)

	result := ExportResult{}

	mangaRows, err := s.library.FavoritedManga()
	if err != nil {
		return result, fmt.Errorf("read library: %w", err)
	}
	if len(mangaRows) == 0 {
		result.Message = "library is empty, nothing to export"
		result.Duration = time.Since(start)
		return result, nil
	}

	ids := make([]string, 0, len(mangaRows))
	for _, m := range mangaRows {
		ids = append(ids, m.ID)
	}
	chapterRows, err := s.library.ChaptersByMangaIDs(ids)
	if err != nil {
		return result, fmt.Errorf("read chapters: %w", err)
	}

	env := &Envelope{
		SchemaVersion: CurrentSchemaVersion,
		ExportedAt:    time.Now().UTC(),
		AppVersion:    s.appVersion,
		Library: LibrarySection{
			Manga:    mangaRows,
			Chapters: chapterRows,
		},
	}
	result.MangaCount = len(mangaRows)
	result.ChapterCount = len(chapterRows)

	if opts.IncludeCollections {
		cols, err := s.collections.AllCollections()
		if err != nil {
			return result, fmt.Errorf("read collections: %w", err)
		}
		items, err := s.collections.AllCollectionItems()
		if err != nil {
			return result, fmt.Errorf("read collection items: %w", err)
		}
		env.Collections = &CollectionsSection{Collections: cols, Items: items}
		result.CollectionCount = len(cols)
		result.ItemCount = len(items)
	}

	if opts.IncludeProgress {
		mangaProg, err := s.progress.AllMangaProgress()
		if err != nil {
			return result, fmt.Errorf("read manga progress: %w", err)
		}
		chapterProg, err := s.progress.AllChapterProgress()
		if err != nil {
			return result, fmt.Errorf("read chapter progress: %w", err)
		}
		env.Progress = &ProgressSection{Manga: mangaProg, Chapters: chapterProg}
		result.ProgressCount = len(chapterProg)
	}

	if opts.IncludeReaderSettings {
		overrides, err := s.reader.AllOverrides()
		if err != nil {
			return result, fmt.Errorf("read reader overrides: %w", err)
		}
		env.ReaderSettings = &ReaderSettingsSection{Overrides: overrides}
		result.OverrideCount = len(overrides)
	}

	if cancelled(ctx) {
		return ExportResult{Cancelled: true, Message: "export cancelled", Duration: time.Since(start)}, nil
	}

	data, err := Encode(env)
	if err != nil {
		return result, err
	}
	if err := WriteBackupFile(path, data); err != nil {
		return result, err
	}

	result.Path = path
	result.Size = int64(len(data))
	result.Checksum = Checksum(data)
	result.Duration = time.Since(start)
	return result, nil
}
