package mihon

import (
	"context"
	"fmt"
	"time"

	"github.com/dexreader/dexreader/internal/backup"
	"github.com/dexreader/dexreader/internal/entities"
)

// Export writes the favorited library as a foreign backup file a Mihon or
// Tachiyomi client can restore. Collections become foreign categories keyed
// by their position in the collection list; chapters are nested only where
// reading progress exists, since a foreign client re-fetches chapter lists
// from the source anyway.
func (s *Service) Export(path string) (backup.ExportResult, error) {
	start := time.Now()
	ctx := s.ctl.Begin(context.Background())
	defer s.ctl.End(ctx)

	result := backup.ExportResult{}

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
	chaptersByManga := make(map[string][]entities.Chapter, len(mangaRows))
	for _, c := range chapterRows {
		chaptersByManga[c.MangaID] = append(chaptersByManga[c.MangaID], c)
	}

	cols, err := s.collections.AllCollections()
	if err != nil {
		return result, fmt.Errorf("read collections: %w", err)
	}
	items, err := s.collections.AllCollectionItems()
	if err != nil {
		return result, fmt.Errorf("read collection items: %w", err)
	}
	// A collection's position in the list doubles as its foreign order key.
	orderByCollection := make(map[int64]int64, len(cols))
	categories := make([]BackupCategory, 0, len(cols))
	for i, c := range cols {
		orderByCollection[c.ID] = int64(i)
		categories = append(categories, BackupCategory{Name: c.Name, Order: int64(i), OrderSet: true})
	}
	ordersByManga := make(map[string][]int64)
	itemCount := 0
	for _, it := range items {
		order, ok := orderByCollection[it.CollectionID]
		if !ok {
			continue
		}
		ordersByManga[it.MangaID] = append(ordersByManga[it.MangaID], order)
		itemCount++
	}

	chapterProg, err := s.progress.AllChapterProgress()
	if err != nil {
		return result, fmt.Errorf("read chapter progress: %w", err)
	}
	progByChapter := make(map[string]entities.ChapterProgress, len(chapterProg))
	for _, p := range chapterProg {
		progByChapter[p.ChapterID] = p
	}

	bk := &Backup{Categories: categories}
	for _, m := range mangaRows {
		fm := foreignRecord(m, ordersByManga[m.ID])
		for i, c := range chaptersByManga[m.ID] {
			p, ok := progByChapter[c.ID]
			if !ok {
				continue
			}
			fm.Chapters = append(fm.Chapters, BackupChapter{
				URL:          ChapterURL(c.ID),
				Name:         c.Title,
				Scanlator:    c.Scanlator,
				Read:         p.Completed,
				LastPageRead: int64(p.CurrentPage),
				DateUpload:   toMillis(c.PublishedAt),
				Number:       parseChapterNumber(c.Number),
				SourceOrder:  int64(i),
			})
			if !p.LastReadAt.IsZero() {
				fm.History = append(fm.History, BackupHistory{
					URL:      ChapterURL(c.ID),
					LastRead: toMillis(p.LastReadAt),
				})
			}
			result.ProgressCount++
		}
		result.ChapterCount += len(fm.Chapters)
		bk.Manga = append(bk.Manga, fm)
	}
	result.MangaCount = len(bk.Manga)
	result.CollectionCount = len(categories)
	result.ItemCount = itemCount

	if cancelled(ctx) {
		return backup.ExportResult{Cancelled: true, Message: "export cancelled", Duration: time.Since(start)}, nil
	}

	data, err := Marshal(bk)
	if err != nil {
		return result, err
	}
	if err := backup.WriteBackupFile(path, data); err != nil {
		return result, err
	}

	result.Path = path
	result.Size = int64(len(data))
	result.Checksum = backup.Checksum(data)
	result.Duration = time.Since(start)
	return result, nil
}

// foreignRecord maps one native manga onto the foreign shape. Multi-valued
// credits collapse to the first entry; the foreign schema has single author
// and artist fields.
func foreignRecord(m entities.Manga, categoryOrders []int64) BackupManga {
	fm := BackupManga{
		Source:       CatalogueSourceID,
		URL:          MangaURL(m.ID),
		Title:        m.Title,
		Description:  m.Description,
		Genre:        m.Tags,
		Status:       ForeignStatus(m.Status),
		ThumbnailURL: m.CoverURL,
		DateAdded:    toMillis(m.CreatedAt),
		Categories:   categoryOrders,
		Favorite:     true,
	}
	if len(m.Authors) > 0 {
		fm.Author = m.Authors[0]
	}
	if len(m.Artists) > 0 {
		fm.Artist = m.Artists[0]
	}
	return fm
}
