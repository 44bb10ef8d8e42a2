package backup

import "github.com/dexreader/dexreader/internal/entities"

// Store collaborator interfaces consumed by the pipelines. The concrete
// implementations live under internal/database; the pipelines only ever see
// these read/batch-write surfaces.

// LibraryStore provides access to the cached catalogue library.
type LibraryStore interface {
	FavoritedManga() ([]entities.Manga, error)
	ChaptersByMangaIDs(ids []string) ([]entities.Chapter, error)
	HasManga(id string) (bool, error)
	UpsertManga(rows []entities.Manga) error
	SaveChapters(rows []entities.Chapter) error
}

// CollectionStore provides access to user collections and their membership.
type CollectionStore interface {
	AllCollections() ([]entities.Collection, error)
	AllCollectionItems() ([]entities.CollectionItem, error)
	FindByName(name string) (*entities.Collection, error)
	CreateCollection(name, description string) (int64, error)
	AddItems(rows []entities.CollectionItem) error
}

// ProgressStore provides access to reading progress.
type ProgressStore interface {
	AllMangaProgress() ([]entities.MangaProgress, error)
	AllChapterProgress() ([]entities.ChapterProgress, error)
	SaveProgress(rows []entities.ChapterProgress) error
	UpdateFirstReadAt(rows []entities.MangaProgress) error
}

// ReaderSettingsStore provides access to per-manga reader overrides.
type ReaderSettingsStore interface {
	AllOverrides() ([]entities.ReaderOverride, error)
	UpsertOverrides(rows []entities.ReaderOverride) error
}
