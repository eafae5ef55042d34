// Package bible provides database operations for imported translations.
package bible

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bible-reader/internal/entities"
)

var (
	ErrVersionNotFound = errors.New("version not found")
	ErrBookNotFound    = errors.New("book not found")
	ErrChapterNotFound = errors.New("chapter not found")
)

const verseBatchSize = 500

// Repository handles all bible content database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListVersions returns every imported version in import order.
func (r *Repository) ListVersions() ([]entities.BibleVersion, error) {
	var versions []entities.BibleVersion
	err := r.db.Order("id").Find(&versions).Error
	return versions, err
}

// FindVersion looks a version up by name, exact first and then ignoring case.
func (r *Repository) FindVersion(name string) (*entities.BibleVersion, error) {
	var version entities.BibleVersion
	err := r.db.Where("name = ?", name).First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = r.db.Where("LOWER(name) = LOWER(?)", name).First(&version).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrVersionNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}

// ListBooks returns the book names of a version ordered by position.
func (r *Repository) ListBooks(versionName string) ([]string, error) {
	version, err := r.FindVersion(versionName)
	if err != nil {
		return nil, err
	}

	var names []string
	err = r.db.Model(&entities.BibleBook{}).
		Where("version_id = ?", version.ID).
		Order("position").
		Pluck("name", &names).Error
	return names, err
}

func (r *Repository) findBook(versionName, bookName string) (*entities.BibleBook, error) {
	version, err := r.FindVersion(versionName)
	if err != nil {
		return nil, err
	}

	var book entities.BibleBook
	err = r.db.Where("version_id = ? AND name = ?", version.ID, bookName).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrBookNotFound, bookName)
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// ListChapters returns the chapter numbers that have text, ascending. A book
// without any imported verses has no chapters.
func (r *Repository) ListChapters(versionName, bookName string) ([]int, error) {
	book, err := r.findBook(versionName, bookName)
	if err != nil {
		return nil, err
	}

	var chapters []int
	err = r.db.Model(&entities.BibleVerse{}).
		Where("book_id = ?", book.ID).
		Distinct().
		Order("chapter").
		Pluck("chapter", &chapters).Error
	return chapters, err
}

// GetChapter returns the verses of one chapter ordered by verse number.
func (r *Repository) GetChapter(versionName, bookName string, chapter int) ([]entities.BibleVerse, error) {
	book, err := r.findBook(versionName, bookName)
	if err != nil {
		return nil, err
	}

	var verses []entities.BibleVerse
	err = r.db.Where("book_id = ? AND chapter = ?", book.ID, chapter).
		Order("verse").
		Find(&verses).Error
	if err != nil {
		return nil, err
	}
	if len(verses) == 0 {
		return nil, fmt.Errorf("%w: %s %d", ErrChapterNotFound, bookName, chapter)
	}
	return verses, nil
}

// ImportTranslation stores a version with its books and verses, replacing
// any version with the same name.
func (r *Repository) ImportTranslation(version *entities.BibleVersion) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteVersion(tx, version.Name); err != nil {
			return err
		}

		books := version.Books
		version.ID = 0
		if err := tx.Omit("Books").Create(version).Error; err != nil {
			return fmt.Errorf("failed to create version %s: %w", version.Name, err)
		}

		for i := range books {
			book := &books[i]
			book.ID = 0
			book.VersionID = version.ID
			verses := book.Verses
			if err := tx.Omit("Verses").Create(book).Error; err != nil {
				return fmt.Errorf("failed to create book %s: %w", book.Name, err)
			}
			if len(verses) == 0 {
				continue
			}
			for j := range verses {
				verses[j].ID = 0
				verses[j].BookID = book.ID
			}
			if err := tx.CreateInBatches(verses, verseBatchSize).Error; err != nil {
				return fmt.Errorf("failed to create verses of %s: %w", book.Name, err)
			}
		}
		version.Books = books
		return nil
	})
}

// DeleteVersion removes a version with everything imported for it.
func (r *Repository) DeleteVersion(name string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return deleteVersion(tx, name)
	})
}

func deleteVersion(tx *gorm.DB, name string) error {
	var existing entities.BibleVersion
	err := tx.Where("name = ?", name).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	bookIDs := tx.Model(&entities.BibleBook{}).Select("id").Where("version_id = ?", existing.ID)
	if err := tx.Where("book_id IN (?)", bookIDs).Delete(&entities.BibleVerse{}).Error; err != nil {
		return err
	}
	if err := tx.Where("version_id = ?", existing.ID).Delete(&entities.BibleBook{}).Error; err != nil {
		return err
	}
	return tx.Delete(&existing).Error
}
