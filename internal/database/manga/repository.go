// Package manga provides database operations for the cached catalogue
// library (manga and chapter rows).
//
// This package implements the LibraryStore interface defined in
// internal/backup/interfaces.go.
//
// # Interface Implementation
//
//	var _ backup.LibraryStore = (*Repository)(nil)
//
// # Usage
//
//	repo := manga.NewRepository(db)
//	rows, err := repo.FavoritedManga()
package manga

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dexreader/dexreader/internal/entities"
)

// Repository handles all manga and chapter database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new manga repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FavoritedManga retrieves every manga in the user's library, ordered by title.
func (r *Repository) FavoritedManga() ([]entities.Manga, error) {
	var rows []entities.Manga
	err := r.db.Where("favorite = ?", true).Order("title ASC").Find(&rows).Error
	return rows, err
}

// ChaptersByMangaIDs retrieves the cached chapters for the given manga IDs.
func (r *Repository) ChaptersByMangaIDs(ids []string) ([]entities.Chapter, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []entities.Chapter
	err := r.db.Where("manga_id IN ?", ids).Order("manga_id ASC, number ASC").Find(&rows).Error
	return rows, err
}

// HasManga reports whether a manga with the given catalogue ID exists locally.
func (r *Repository) HasManga(id string) (bool, error) {
	var row entities.Manga
	err := r.db.Select("id").Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpsertManga inserts or updates manga rows in a single batch, keyed by ID.
func (r *Repository) UpsertManga(rows []entities.Manga) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&rows).Error
}

// SaveChapters inserts or updates chapter rows in a single batch, keyed by ID.
func (r *Repository) SaveChapters(rows []entities.Chapter) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&rows).Error
}
