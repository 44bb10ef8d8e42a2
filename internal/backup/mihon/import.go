package mihon

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dexreader/dexreader/internal/backup"
	"github.com/dexreader/dexreader/internal/entities"
	"github.com/dexreader/dexreader/internal/wire"
)

// staged accumulates everything a foreign import wants to write. Nothing
// touches the store until the loop over the file is done, so cancellation
// mid-loop commits nothing.
type staged struct {
	manga       []entities.Manga
	chapters    []entities.Chapter
	items       []itemRef
	chapterProg []entities.ChapterProgress
	mangaProg   []entities.MangaProgress
}

// itemRef is a collection membership whose collection ID is not known until
// the reconciler commits.
type itemRef struct {
	categoryKey int64
	mangaID     string
	position    int
}

// Import reads a foreign backup file and merges its catalogue records into
// the library. Records from other sources are ignored, manga the library
// already has are skipped, and rows with unintelligible URLs fail
// individually without aborting the run.
func (s *Service) Import(path string) (backup.ImportResult, error) {
	start := time.Now()
	ctx := s.ctl.Begin(context.Background())
	defer s.ctl.End(ctx)

	result := backup.ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("read foreign backup file: %w", err)
	}
	bk, err := Unmarshal(data)
	if err != nil {
		return result, err
	}

	rec := NewReconciler(s.collections, bk.Categories)
	var st staged

	for i, fm := range bk.Manga {
		if cancelled(ctx) {
			result.Cancelled = true
			result.Message = "import cancelled"
			// Nothing staged was committed; everything in scope counts
			// as skipped, including the rows not yet looked at.
			result.SkippedManga += len(st.manga)
			for _, rest := range bk.Manga[i:] {
				if rest.Source == CatalogueSourceID {
					result.SkippedManga++
				}
			}
			result.Duration = time.Since(start)
			return result, nil
		}

		if fm.Source != CatalogueSourceID {
			continue
		}

		mangaID, ok := ExtractMangaID(fm.URL)
		if !ok {
			result.Fail("library", "", fm.Title, "Invalid manga URL")
			continue
		}

		exists, err := s.library.HasManga(mangaID)
		if err != nil {
			return result, fmt.Errorf("check manga %s: %w", mangaID, err)
		}
		if exists {
			result.SkippedManga++
			continue
		}

		st.manga = append(st.manga, foreignManga(mangaID, fm))
		for _, key := range fm.Categories {
			rec.Mark(key)
			st.items = append(st.items, itemRef{categoryKey: key, mangaID: mangaID})
		}
		s.stageChapters(mangaID, fm, &st, &result)
	}

	if cancelled(ctx) {
		result.Cancelled = true
		result.Message = "import cancelled"
		result.SkippedManga += len(st.manga)
		result.Duration = time.Since(start)
		return result, nil
	}

	if err := s.commit(ctx, rec, &st, &result); err != nil {
		return result, err
	}
	result.Duration = time.Since(start)
	return result, nil
}

// stageChapters flattens one foreign manga's nested chapters and history into
// native chapter, chapter progress and manga progress rows.
func (s *Service) stageChapters(mangaID string, fm BackupManga, st *staged, result *backup.ImportResult) {
	lastRead := make(map[string]int64, len(fm.History))
	for _, h := range fm.History {
		lastRead[h.URL] = h.LastRead
	}

	var firstMillis, latestMillis int64
	var lastChapterID string
	for _, fc := range fm.Chapters {
		chapterID, ok := ExtractChapterID(fc.URL)
		if !ok {
			result.Fail("chapters", "", fc.Name, "Invalid chapter URL")
			continue
		}
		st.chapters = append(st.chapters, entities.Chapter{
			ID:          chapterID,
			MangaID:     mangaID,
			Title:       fc.Name,
			Number:      formatChapterNumber(fc.Number),
			Scanlator:   fc.Scanlator,
			PublishedAt: wire.ToTime(fc.DateUpload),
		})

		readAt := lastRead[fc.URL]
		if fc.Read || fc.LastPageRead > 0 || readAt > 0 {
			st.chapterProg = append(st.chapterProg, entities.ChapterProgress{
				MangaID:     mangaID,
				ChapterID:   chapterID,
				CurrentPage: int(fc.LastPageRead),
				Completed:   fc.Read,
				LastReadAt:  wire.ToTime(readAt),
			})
		}
		if readAt > 0 {
			if firstMillis == 0 || readAt < firstMillis {
				firstMillis = readAt
			}
			if readAt > latestMillis {
				latestMillis = readAt
				lastChapterID = chapterID
			}
		}
	}

	if latestMillis > 0 {
		st.mangaProg = append(st.mangaProg, entities.MangaProgress{
			MangaID:       mangaID,
			LastChapterID: lastChapterID,
			FirstReadAt:   wire.ToTime(firstMillis),
			LastReadAt:    wire.ToTime(latestMillis),
		})
	}
}

// commit writes the staged rows in dependency order: manga, collections and
// membership first, then chapters and progress. A cancellation between the
// two batches leaves the first batch committed, matching the native
// pipeline's cancellation contract.
func (s *Service) commit(ctx context.Context, rec *Reconciler, st *staged, result *backup.ImportResult) error {
	ids, created, reused, err := rec.Commit()
	if err != nil {
		return err
	}
	result.ImportedCollections = created
	result.SkippedCollections = reused

	if len(st.manga) > 0 {
		if err := s.library.UpsertManga(st.manga); err != nil {
			return fmt.Errorf("save manga: %w", err)
		}
		result.ImportedManga = len(st.manga)
	}

	if len(st.items) > 0 {
		now := time.Now().UTC()
		rows := make([]entities.CollectionItem, 0, len(st.items))
		for _, ref := range st.items {
			id, ok := ids[ref.categoryKey]
			if !ok {
				continue
			}
			rows = append(rows, entities.CollectionItem{
				CollectionID: id,
				MangaID:      ref.mangaID,
				AddedAt:      now,
				Position:     ref.position,
			})
		}
		if len(rows) > 0 {
			if err := s.collections.AddItems(rows); err != nil {
				return fmt.Errorf("save collection items: %w", err)
			}
			result.ImportedCollectionItems = len(rows)
		}
	}

	if cancelled(ctx) {
		result.Cancelled = true
		result.Message = "import cancelled"
		return nil
	}

	if len(st.chapters) > 0 {
		if err := s.library.SaveChapters(st.chapters); err != nil {
			return fmt.Errorf("save chapters: %w", err)
		}
		result.ImportedChapters = len(st.chapters)
	}
	if len(st.chapterProg) > 0 {
		if err := s.progress.SaveProgress(st.chapterProg); err != nil {
			return fmt.Errorf("save chapter progress: %w", err)
		}
		result.ImportedProgress = len(st.chapterProg)
	}
	if len(st.mangaProg) > 0 {
		if err := s.progress.UpdateFirstReadAt(st.mangaProg); err != nil {
			return fmt.Errorf("save manga progress: %w", err)
		}
	}
	return nil
}

// foreignManga maps one foreign record onto the native entity. Imported
// manga land favorited; a foreign backup only carries library entries.
func foreignManga(mangaID string, fm BackupManga) entities.Manga {
	m := entities.Manga{
		ID:          mangaID,
		Title:       fm.Title,
		Description: fm.Description,
		Status:      NativeStatus(fm.Status),
		CoverURL:    fm.ThumbnailURL,
		Tags:        fm.Genre,
		Favorite:    true,
	}
	if fm.Author != "" {
		m.Authors = []string{fm.Author}
	}
	if fm.Artist != "" {
		m.Artists = []string{fm.Artist}
	}
	return m
}
