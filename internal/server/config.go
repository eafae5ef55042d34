package server

import (
	"bible-reader/internal/database"
)

// RouterConfig holds the dependencies of the router.
type RouterConfig struct {
	Bible    BibleStore
	Readers  ReaderStore
	Sessions *SessionManager // nil: readers must send X-Reader-ID
	Database *database.Database

	// DefaultVersion answers /books and /chapters requests without a
	// version. Empty means the first imported version.
	DefaultVersion string
	Version        string
}
