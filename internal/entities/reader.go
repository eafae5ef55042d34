package entities

import (
	"time"
)

// LastRead is the most recent reading position of one reader.
type LastRead struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	ReaderID  string    `gorm:"uniqueIndex;size:64;not null" json:"-"`
	Version   string    `gorm:"size:100" json:"version"`
	Book      string    `gorm:"size:100" json:"book"`
	Chapter   int       `json:"chapter"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (LastRead) TableName() string {
	return "last_reads"
}

type Preference struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	ReaderID    string    `gorm:"uniqueIndex;size:64;not null" json:"-"`
	Translation string    `gorm:"size:100" json:"translation,omitempty"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (Preference) TableName() string {
	return "preferences"
}
