package server

import (
	"bible-reader/internal/database/bible"
	"bible-reader/internal/database/readers"
	"bible-reader/internal/entities"
)

// BibleStore serves the catalog and the text of imported versions.
type BibleStore interface {
	ListVersions() ([]entities.BibleVersion, error)
	ListBooks(version string) ([]string, error)
	ListChapters(version, book string) ([]int, error)
	GetChapter(version, book string, chapter int) ([]entities.BibleVerse, error)
}

// ReaderStore keeps per-reader navigation state.
type ReaderStore interface {
	GetLastRead(readerID string) (*entities.LastRead, error)
	SaveLastRead(rec *entities.LastRead) error
	GetPreference(readerID string) (*entities.Preference, error)
	SavePreference(pref *entities.Preference) error
}

var (
	_ BibleStore  = (*bible.Repository)(nil)
	_ ReaderStore = (*readers.Repository)(nil)
)
