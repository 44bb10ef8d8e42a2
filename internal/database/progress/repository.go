// Package progress provides database operations for reading progress, both
// per-chapter positions and the per-manga summary.
//
// This package implements the ProgressStore interface defined in
// internal/backup/interfaces.go.
//
// # Interface Implementation
//
//	var _ backup.ProgressStore = (*Repository)(nil)
package progress

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dexreader/dexreader/internal/entities"
)

// Repository handles all reading-progress database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new progress repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AllMangaProgress retrieves every per-manga progress summary.
func (r *Repository) AllMangaProgress() ([]entities.MangaProgress, error) {
	var rows []entities.MangaProgress
	err := r.db.Order("manga_id ASC").Find(&rows).Error
	return rows, err
}

// AllChapterProgress retrieves every per-chapter progress row.
func (r *Repository) AllChapterProgress() ([]entities.ChapterProgress, error) {
	var rows []entities.ChapterProgress
	err := r.db.Order("manga_id ASC, chapter_id ASC").Find(&rows).Error
	return rows, err
}

// SaveProgress inserts or updates chapter progress rows in a single batch,
// keyed by (manga_id, chapter_id).
func (r *Repository) SaveProgress(rows []entities.ChapterProgress) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "manga_id"}, {Name: "chapter_id"}},
		UpdateAll: true,
	}).Create(&rows).Error
}

// UpdateFirstReadAt upserts per-manga progress summaries. FirstReadAt is
// historical data: an existing earlier value always wins over the incoming
// one, while the other fields follow last-write-wins.
func (r *Repository) UpdateFirstReadAt(rows []entities.MangaProgress) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			var existing entities.MangaProgress
			err := tx.Where("manga_id = ?", row.MangaID).First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
				continue
			}
			if err != nil {
				return err
			}

			if !existing.FirstReadAt.IsZero() &&
				(row.FirstReadAt.IsZero() || existing.FirstReadAt.Before(row.FirstReadAt)) {
				row.FirstReadAt = existing.FirstReadAt
			}
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
