// Package collections provides database operations for user collections and
// their membership rows.
//
// This package implements the CollectionStore interface defined in
// internal/backup/interfaces.go.
//
// # Interface Implementation
//
//	var _ backup.CollectionStore = (*Repository)(nil)
package collections

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dexreader/dexreader/internal/entities"
)

// Repository handles all collection database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new collections repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AllCollections retrieves every collection.
func (r *Repository) AllCollections() ([]entities.Collection, error) {
	var rows []entities.Collection
	err := r.db.Order("id ASC").Find(&rows).Error
	return rows, err
}

// AllCollectionItems retrieves every membership row.
func (r *Repository) AllCollectionItems() ([]entities.CollectionItem, error) {
	var rows []entities.CollectionItem
	err := r.db.Order("collection_id ASC, position ASC").Find(&rows).Error
	return rows, err
}

// FindByName retrieves a collection by exact (case-sensitive) name.
// Returns nil without error when no such collection exists.
func (r *Repository) FindByName(name string) (*entities.Collection, error) {
	var row entities.Collection
	err := r.db.Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateCollection creates a collection and returns its assigned ID.
func (r *Repository) CreateCollection(name, description string) (int64, error) {
	row := entities.Collection{Name: name, Description: description}
	if err := r.db.Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

// AddItems inserts membership rows in a single batch. Re-adding an existing
// (collection, manga) pair updates it in place rather than duplicating.
func (r *Repository) AddItems(rows []entities.CollectionItem) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection_id"}, {Name: "manga_id"}},
		UpdateAll: true,
	}).Create(&rows).Error
}
