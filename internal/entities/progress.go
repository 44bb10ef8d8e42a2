package entities

import "time"

// MangaProgress is the per-manga reading summary. FirstReadAt is historical
// user data: imports may lower it but never move it forward.
type MangaProgress struct {
	MangaID       string    `gorm:"primaryKey;size:36" json:"manga_id"`
	LastChapterID string    `gorm:"size:36" json:"last_chapter_id,omitempty"`
	FirstReadAt   time.Time `json:"first_read_at,omitempty"`
	LastReadAt    time.Time `json:"last_read_at,omitempty"`
}

// ChapterProgress tracks position within a single chapter, keyed by
// (manga, chapter).
type ChapterProgress struct {
	MangaID     string    `gorm:"primaryKey;size:36" json:"manga_id"`
	ChapterID   string    `gorm:"primaryKey;size:36" json:"chapter_id"`
	CurrentPage int       `json:"current_page"`
	Completed   bool      `gorm:"default:false" json:"completed"`
	LastReadAt  time.Time `json:"last_read_at,omitempty"`
}

// ReaderOverride is a per-manga override of the global reading mode. The
// double-page options only apply when Mode is ReadingModeDouble.
type ReaderOverride struct {
	MangaID         string      `gorm:"primaryKey;size:36" json:"manga_id"`
	Mode            ReadingMode `gorm:"size:20;default:'single'" json:"mode"`
	SkipCoverPages  bool        `gorm:"default:false" json:"skip_cover_pages"`
	ReadRightToLeft bool        `gorm:"default:false" json:"read_right_to_left"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
