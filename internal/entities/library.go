package entities

import (
	"time"
)

// PublicationStatus is the catalogue's publication state for a manga.
type PublicationStatus string

const (
	StatusOngoing   PublicationStatus = "ongoing"
	StatusCompleted PublicationStatus = "completed"
	StatusHiatus    PublicationStatus = "hiatus"
	StatusCancelled PublicationStatus = "cancelled"
)

// ReadingMode selects how the reader pages through a manga.
type ReadingMode string

const (
	ReadingModeSingle   ReadingMode = "single"
	ReadingModeDouble   ReadingMode = "double"
	ReadingModeVertical ReadingMode = "vertical"
)

// Manga is a cached catalogue entry. The ID is the catalogue's UUID and is
// the natural key for all upserts.
type Manga struct {
	ID          string            `gorm:"primaryKey;size:36" json:"id"`
	Title       string            `gorm:"index;size:512" json:"title"`
	Description string            `gorm:"type:text" json:"description,omitempty"`
	Status      PublicationStatus `gorm:"size:20;default:'ongoing'" json:"status"`
	CoverURL    string            `gorm:"size:2048" json:"cover_url,omitempty"`

	Tags    []string          `gorm:"serializer:json" json:"tags,omitempty"`
	Authors []string          `gorm:"serializer:json" json:"authors,omitempty"`
	Artists []string          `gorm:"serializer:json" json:"artists,omitempty"`
	Links   map[string]string `gorm:"serializer:json" json:"links,omitempty"`

	Favorite       bool   `gorm:"index;default:false" json:"favorite"`
	HasNewChapters bool   `gorm:"default:false" json:"has_new_chapters"`
	LastChapterID  string `gorm:"size:36" json:"last_chapter_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Chapter is a cached chapter row belonging to a Manga.
type Chapter struct {
	ID      string `gorm:"primaryKey;size:36" json:"id"`
	MangaID string `gorm:"index;size:36" json:"manga_id"`

	Title     string `gorm:"size:512" json:"title,omitempty"`
	Number    string `gorm:"size:20" json:"number,omitempty"`
	Volume    string `gorm:"size:20" json:"volume,omitempty"`
	Language  string `gorm:"size:10" json:"language,omitempty"`
	Scanlator string `gorm:"size:256" json:"scanlator,omitempty"`

	// ExternalURL points at chapters hosted outside the catalogue.
	ExternalURL string `gorm:"size:2048" json:"external_url,omitempty"`

	PublishedAt time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
