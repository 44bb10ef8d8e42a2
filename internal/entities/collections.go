package entities

import "time"

// Collection groups manga under a user-chosen name ("Plan to Read" etc).
// Names are logically unique.
type Collection struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:256" json:"name"`
	Description string    `gorm:"size:1024" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CollectionItem is a manga's membership in a collection.
type CollectionItem struct {
	CollectionID int64     `gorm:"primaryKey;autoIncrement:false" json:"collection_id"`
	MangaID      string    `gorm:"primaryKey;size:36" json:"manga_id"`
	AddedAt      time.Time `json:"added_at"`
	Position     int       `json:"position"`
}
