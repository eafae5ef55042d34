package entities

import (
	"time"
)

// BibleVersion is one imported translation. Name is the short code readers
// select by, e.g. "ASV" or "Statenvertaling".
type BibleVersion struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Name      string      `gorm:"uniqueIndex;size:100" json:"name"`
	FullName  string      `gorm:"size:255" json:"full_name,omitempty"`
	Language  string      `gorm:"index;size:10" json:"language,omitempty"`
	Books     []BibleBook `gorm:"foreignKey:VersionID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (BibleVersion) TableName() string {
	return "bible_versions"
}

// BibleBook is a book of a version. Position orders the books the way the
// version lists them; the same position across versions is the same book.
type BibleBook struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	VersionID uint         `gorm:"uniqueIndex:idx_version_position;not null" json:"version_id"`
	Position  int          `gorm:"uniqueIndex:idx_version_position" json:"position"`
	Name      string       `gorm:"size:100;index" json:"name"`
	Chapters  int          `json:"chapters"`
	Verses    []BibleVerse `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
}

func (BibleBook) TableName() string {
	return "bible_books"
}

type BibleVerse struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	BookID  uint   `gorm:"index:idx_book_chapter;not null" json:"book_id"`
	Chapter int    `gorm:"index:idx_book_chapter" json:"chapter"`
	Verse   int    `json:"verse"`
	Text    string `gorm:"type:text" json:"text"`
}

func (BibleVerse) TableName() string {
	return "bible_verses"
}
