// Package readers provides database operations for per-reader state: the
// last-read position and the stored preferences.
package readers

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bible-reader/internal/entities"
)

// Repository handles all reader state database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetLastRead returns the reader's position, or nil when none is stored.
func (r *Repository) GetLastRead(readerID string) (*entities.LastRead, error) {
	var rec entities.LastRead
	err := r.db.Where("reader_id = ?", readerID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// SaveLastRead creates or replaces the reader's position.
func (r *Repository) SaveLastRead(rec *entities.LastRead) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "reader_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"version", "book", "chapter", "updated_at"}),
	}).Create(rec).Error
}

// GetPreference returns the reader's preferences, or nil when none are stored.
func (r *Repository) GetPreference(readerID string) (*entities.Preference, error) {
	var pref entities.Preference
	err := r.db.Where("reader_id = ?", readerID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// SavePreference creates or replaces the reader's preferences.
func (r *Repository) SavePreference(pref *entities.Preference) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "reader_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"translation", "updated_at"}),
	}).Create(pref).Error
}
