// Package readersettings provides database operations for per-manga reader
// mode overrides.
//
// This package implements the ReaderSettingsStore interface defined in
// internal/backup/interfaces.go.
package readersettings

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dexreader/dexreader/internal/entities"
)

// Repository handles all reader override database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reader settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AllOverrides retrieves every per-manga reader override.
func (r *Repository) AllOverrides() ([]entities.ReaderOverride, error) {
	var rows []entities.ReaderOverride
	err := r.db.Order("manga_id ASC").Find(&rows).Error
	return rows, err
}

// UpsertOverrides inserts or updates overrides in a single batch, keyed by
// manga_id.
func (r *Repository) UpsertOverrides(rows []entities.ReaderOverride) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "manga_id"}},
		UpdateAll: true,
	}).Create(&rows).Error
}
