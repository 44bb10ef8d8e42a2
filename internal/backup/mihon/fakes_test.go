package mihon

import (
	"sort"

	"github.com/dexreader/dexreader/internal/entities"
)

// In-memory fakes for the store interfaces the adapter consumes.

type fakeLibrary struct {
	manga    map[string]entities.Manga
	chapters map[string]entities.Chapter
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{
		manga:    make(map[string]entities.Manga),
		chapters: make(map[string]entities.Chapter),
	}
}

func (f *fakeLibrary) FavoritedManga() ([]entities.Manga, error) {
	var rows []entities.Manga
	for _, m := range f.manga {
		if m.Favorite {
			rows = append(rows, m)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Title < rows[j].Title })
	return rows, nil
}

func (f *fakeLibrary) ChaptersByMangaIDs(ids []string) ([]entities.Chapter, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var rows []entities.Chapter
	for _, c := range f.chapters {
		if want[c.MangaID] {
			rows = append(rows, c)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (f *fakeLibrary) HasManga(id string) (bool, error) {
	_, ok := f.manga[id]
	return ok, nil
}

func (f *fakeLibrary) UpsertManga(rows []entities.Manga) error {
	for _, m := range rows {
		f.manga[m.ID] = m
	}
	return nil
}

func (f *fakeLibrary) SaveChapters(rows []entities.Chapter) error {
	for _, c := range rows {
		f.chapters[c.ID] = c
	}
	return nil
}

type fakeCollections struct {
	cols   map[int64]entities.Collection
	items  []entities.CollectionItem
	nextID int64
}

func newFakeCollections() *fakeCollections {
	return &fakeCollections{cols: make(map[int64]entities.Collection), nextID: 1}
}

func (f *fakeCollections) AllCollections() ([]entities.Collection, error) {
	var rows []entities.Collection
	for _, c := range f.cols {
		rows = append(rows, c)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (f *fakeCollections) AllCollectionItems() ([]entities.CollectionItem, error) {
	return f.items, nil
}

func (f *fakeCollections) FindByName(name string) (*entities.Collection, error) {
	for _, c := range f.cols {
		if c.Name == name {
			col := c
			return &col, nil
		}
	}
	return nil, nil
}

func (f *fakeCollections) CreateCollection(name, description string) (int64, error) {
	id := f.nextID
	f.nextID++
	f.cols[id] = entities.Collection{ID: id, Name: name, Description: description}
	return id, nil
}

func (f *fakeCollections) AddItems(rows []entities.CollectionItem) error {
	f.items = append(f.items, rows...)
	return nil
}

type fakeProgress struct {
	chapters map[string]entities.ChapterProgress
	manga    map[string]entities.MangaProgress
}

func newFakeProgress() *fakeProgress {
	return &fakeProgress{
		chapters: make(map[string]entities.ChapterProgress),
		manga:    make(map[string]entities.MangaProgress),
	}
}

func (f *fakeProgress) AllMangaProgress() ([]entities.MangaProgress, error) {
	var rows []entities.MangaProgress
	for _, p := range f.manga {
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].MangaID < rows[j].MangaID })
	return rows, nil
}

func (f *fakeProgress) AllChapterProgress() ([]entities.ChapterProgress, error) {
	var rows []entities.ChapterProgress
	for _, p := range f.chapters {
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ChapterID < rows[j].ChapterID })
	return rows, nil
}

func (f *fakeProgress) SaveProgress(rows []entities.ChapterProgress) error {
	for _, p := range rows {
		f.chapters[p.MangaID+"/"+p.ChapterID] = p
	}
	return nil
}

func (f *fakeProgress) UpdateFirstReadAt(rows []entities.MangaProgress) error {
	for _, p := range rows {
		existing, ok := f.manga[p.MangaID]
		if ok && !existing.FirstReadAt.IsZero() &&
			(p.FirstReadAt.IsZero() || existing.FirstReadAt.Before(p.FirstReadAt)) {
			p.FirstReadAt = existing.FirstReadAt
		}
		f.manga[p.MangaID] = p
	}
	return nil
}
