package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dexreader/dexreader/internal/entities"
)

// errRunCancelled is the internal signal that a stage observed cancellation.
// It never escapes Import: cancellation is a result, not an error.
var errRunCancelled = errors.New("run cancelled")

// Import restores a native backup file into the store. Stages run in fixed
// dependency order: library (manga before chapters), collections (collections
// before items), progress (chapter rows before the firstReadAt patch), reader
// overrides last. Manga and chapters are upserted by ID, so re-importing the
// same file updates in place instead of duplicating.
//
// Data-quality problems are recorded per row in the result; only an
// unreadable file, a corrupt archive, or an incompatible schema major version
// returns an error. Cancellation (explicit or superseded by a newer import)
// is a normal outcome: the result carries whatever was committed before the
// cancellation point.
func (s *Service) Import(path string) (ImportResult, error) {
	start := time.Now()
	ctx := s.ctl.Begin(context.Background())
	defer s.ctl.End(ctx)

	result := ImportResult{}

	raw, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("read backup file: %w", err)
	}
	env, err := Decode(raw)
	if err != nil {
		return result, err
	}
	if MajorVersion(env.SchemaVersion) != SchemaMajor {
		return result, fmt.Errorf("%w: file has major version %d, importer supports %d",
			ErrIncompatibleVersion, MajorVersion(env.SchemaVersion), SchemaMajor)
	}

	stages := []func(context.Context, *Envelope, *ImportResult) error{
		s.importLibrary,
		s.importCollections,
		s.importProgress,
		s.importReaderSettings,
	}
	for _, stage := range stages {
		if err := stage(ctx, env, &result); err != nil {
			if errors.Is(err, errRunCancelled) {
				result.Cancelled = true
				result.Message = "import cancelled"
				result.Duration = time.Since(start)
				return result, nil
			}
			return result, err
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// importLibrary commits manga first and chapters second, regardless of the
// order records appear in the file.
func (s *Service) importLibrary(ctx context.Context, env *Envelope, result *ImportResult) error {
	mangaRows := make([]entities.Manga, 0, len(env.Library.Manga))
	for _, m := range env.Library.Manga {
		if cancelled(ctx) {
			return errRunCancelled
		}
		if m.ID == "" {
			result.Fail("manga", "", m.Title, "missing manga ID")
			continue
		}
		mangaRows = append(mangaRows, m)
	}
	if cancelled(ctx) {
		return errRunCancelled
	}
	if err := s.library.UpsertManga(mangaRows); err != nil {
		return fmt.Errorf("commit manga: %w", err)
	}
	result.ImportedManga = len(mangaRows)

	chapterRows := make([]entities.Chapter, 0, len(env.Library.Chapters))
	for _, c := range env.Library.Chapters {
		if cancelled(ctx) {
			return errRunCancelled
		}
		if c.ID == "" || c.MangaID == "" {
			result.Fail("chapter", c.ID, c.Title, "missing chapter or manga ID")
			continue
		}
		chapterRows = append(chapterRows, c)
	}
	if cancelled(ctx) {
		return errRunCancelled
	}
	if err := s.library.SaveChapters(chapterRows); err != nil {
		return fmt.Errorf("commit chapters: %w", err)
	}
	result.ImportedChapters = len(chapterRows)
	return nil
}

// importCollections reuses same-named collections instead of duplicating
// them; file-local collection IDs are remapped to whatever the store assigns.
func (s *Service) importCollections(ctx context.Context, env *Envelope, result *ImportResult) error {
	if env.Collections == nil {
		return nil
	}

	idMap := make(map[int64]int64, len(env.Collections.Collections))
	for _, col := range env.Collections.Collections {
		if cancelled(ctx) {
			return errRunCancelled
		}
		existing, err := s.collections.FindByName(col.Name)
		if err != nil {
			return fmt.Errorf("look up collection %q: %w", col.Name, err)
		}
		if existing != nil {
			idMap[col.ID] = existing.ID
			result.SkippedCollections++
			continue
		}
		newID, err := s.collections.CreateCollection(col.Name, col.Description)
		if err != nil {
			return fmt.Errorf("create collection %q: %w", col.Name, err)
		}
		idMap[col.ID] = newID
		result.ImportedCollections++
	}

	known := make(map[string]bool, len(env.Library.Manga))
	for _, m := range env.Library.Manga {
		known[m.ID] = true
	}

	items := make([]entities.CollectionItem, 0, len(env.Collections.Items))
	for _, it := range env.Collections.Items {
		if cancelled(ctx) {
			return errRunCancelled
		}
		nativeID, ok := idMap[it.CollectionID]
		if !ok {
			result.Fail("collection_item", it.MangaID, "", "dangling collection reference")
			continue
		}
		if !known[it.MangaID] {
			ok, err := s.library.HasManga(it.MangaID)
			if err != nil {
				return fmt.Errorf("look up manga %s: %w", it.MangaID, err)
			}
			if !ok {
				result.Fail("collection_item", it.MangaID, "", "dangling manga reference")
				continue
			}
		}
		it.CollectionID = nativeID
		items = append(items, it)
	}
	if cancelled(ctx) {
		return errRunCancelled
	}
	if err := s.collections.AddItems(items); err != nil {
		return fmt.Errorf("commit collection items: %w", err)
	}
	result.ImportedCollectionItems = len(items)
	return nil
}

// importProgress commits chapter progress first and patches firstReadAt from
// the per-manga stream afterwards, so the authoritative historical timestamps
// are never clobbered by the generic upsert.
func (s *Service) importProgress(ctx context.Context, env *Envelope, result *ImportResult) error {
	if env.Progress == nil {
		return nil
	}

	chapterRows := make([]entities.ChapterProgress, 0, len(env.Progress.Chapters))
	for _, p := range env.Progress.Chapters {
		if cancelled(ctx) {
			return errRunCancelled
		}
		if p.MangaID == "" || p.ChapterID == "" {
			result.Fail("progress", p.ChapterID, "", "missing progress key")
			continue
		}
		chapterRows = append(chapterRows, p)
	}
	if cancelled(ctx) {
		return errRunCancelled
	}
	if err := s.progress.SaveProgress(chapterRows); err != nil {
		return fmt.Errorf("commit chapter progress: %w", err)
	}
	result.ImportedProgress = len(chapterRows)

	mangaRows := make([]entities.MangaProgress, 0, len(env.Progress.Manga))
	for _, p := range env.Progress.Manga {
		if cancelled(ctx) {
			return errRunCancelled
		}
		if p.MangaID == "" {
			continue
		}
		mangaRows = append(mangaRows, p)
	}
	if cancelled(ctx) {
		return errRunCancelled
	}
	if err := s.progress.UpdateFirstReadAt(mangaRows); err != nil {
		return fmt.Errorf("commit manga progress: %w", err)
	}
	return nil
}

func (s *Service) importReaderSettings(ctx context.Context, env *Envelope, result *ImportResult) error {
	if env.ReaderSettings == nil {
		return nil
	}

	rows := make([]entities.ReaderOverride, 0, len(env.ReaderSettings.Overrides))
	for _, o := range env.ReaderSettings.Overrides {
		if cancelled(ctx) {
			return errRunCancelled
		}
		if o.MangaID == "" {
			continue
		}
		rows = append(rows, o)
	}
	if cancelled(ctx) {
		return errRunCancelled
	}
	if err := s.reader.UpsertOverrides(rows); err != nil {
		return fmt.Errorf("commit reader overrides: %w", err)
	}
	result.ImportedOverrides = len(rows)
	return nil
}
