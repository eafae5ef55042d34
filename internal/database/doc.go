// Package database opens the reading server's sqlite database and migrates
// its schema.
//
// Queries live in domain-specific sub-packages, each with a Repository over
// the shared *gorm.DB:
//
//	database/
//	├── database.go   # Connection setup and migrations
//	├── bible/        # Versions, books, chapters and verse text
//	└── readers/      # Last-read positions and preferences per reader
//
// Usage:
//
//	db, err := database.NewDatabase("./bible-reader.db")
//	bibleRepo := bible.NewRepository(db.DB)
//	readersRepo := readers.NewRepository(db.DB)
package database
