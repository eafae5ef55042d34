// Package importer loads a translation from the bolls.life provider into the
// reading server's database.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"bible-reader/internal/bolls"
	"bible-reader/internal/entities"
)

// Source is the upstream provider.
type Source interface {
	FindTranslation(ctx context.Context, shortName string) (*bolls.Translation, error)
	GetBooks(ctx context.Context, translation string) ([]bolls.Book, error)
	DownloadTranslation(ctx context.Context, translation string) ([]bolls.Verse, error)
}

// Store persists an imported version.
type Store interface {
	ImportTranslation(version *entities.BibleVersion) error
}

type Importer struct {
	source Source
	store  Store
	logger *slog.Logger
}

// Result summarises one import.
type Result struct {
	Version string
	Books   int
	Verses  int
	Skipped int // verses whose book is not in the book list
}

func New(source Source, store Store, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{source: source, store: store, logger: logger}
}

// Import downloads translation shortName and stores it under that name,
// tagged with the given language code.
func (i *Importer) Import(ctx context.Context, shortName, language string) (*Result, error) {
	translation, err := i.source.FindTranslation(ctx, shortName)
	if err != nil {
		return nil, err
	}

	books, err := i.source.GetBooks(ctx, translation.ShortName)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch books of %s: %w", translation.ShortName, err)
	}
	if len(books) == 0 {
		return nil, fmt.Errorf("translation %s has no books", translation.ShortName)
	}

	i.logger.Info("Downloading translation", "translation", translation.ShortName, "books", len(books))
	verses, err := i.source.DownloadTranslation(ctx, translation.ShortName)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", translation.ShortName, err)
	}

	version, result := buildVersion(translation, strings.ToLower(language), books, verses)
	if result.Skipped > 0 {
		i.logger.Warn("Skipped verses of unknown books", "translation", translation.ShortName, "count", result.Skipped)
	}

	if err := i.store.ImportTranslation(version); err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", translation.ShortName, err)
	}

	i.logger.Info("Imported translation", "translation", result.Version, "books", result.Books, "verses", result.Verses)
	return result, nil
}

func buildVersion(t *bolls.Translation, language string, books []bolls.Book, verses []bolls.Verse) (*entities.BibleVersion, *Result) {
	sort.Slice(books, func(a, b int) bool { return books[a].BookID < books[b].BookID })

	version := &entities.BibleVersion{
		Name:     t.ShortName,
		FullName: t.FullName,
		Language: language,
		Books:    make([]entities.BibleBook, len(books)),
	}
	index := make(map[int]int, len(books))
	for n, b := range books {
		version.Books[n] = entities.BibleBook{
			Position: n + 1,
			Name:     strings.TrimSpace(b.Name),
			Chapters: b.Chapters,
		}
		index[b.BookID] = n
	}

	result := &Result{Version: t.ShortName, Books: len(books)}
	for _, v := range verses {
		n, ok := index[v.Book]
		if !ok {
			result.Skipped++
			continue
		}
		version.Books[n].Verses = append(version.Books[n].Verses, entities.BibleVerse{
			Chapter: v.Chapter,
			Verse:   v.Verse,
			Text:    cleanText(v.Text),
		})
		result.Verses++
	}

	return version, result
}

var (
	strongsRe = regexp.MustCompile(`<S>[^<]*</S>`)
	supRe     = regexp.MustCompile(`<sup>[^<]*</sup>`)
	tagRe     = regexp.MustCompile(`<[^>]*>`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

// cleanText drops Strong's numbers, footnote markers and any remaining
// markup from a verse.
func cleanText(s string) string {
	s = strongsRe.ReplaceAllString(s, "")
	s = supRe.ReplaceAllString(s, "")
	s = tagRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
