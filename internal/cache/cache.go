package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Cache keeps book and chapter lists on disk, one JSON file per version and
// per (version, book):
//
//	<dir>/books/<version>.json
//	<dir>/chapters/<version>/<book>.json
type Cache struct {
	cacheDir string
}

// DefaultDir returns the cache directory under the user's cache dir.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "bible-reader", "lists"), nil
}

func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{cacheDir: dir}, nil
}

func escape(name string) string {
	return url.PathEscape(name)
}

func unescape(name string) string {
	if s, err := url.PathUnescape(name); err == nil {
		return s
	}
	return name
}

func (c *Cache) booksPath(version string) string {
	return filepath.Join(c.cacheDir, "books", escape(version)+".json")
}

func (c *Cache) chaptersPath(version, book string) string {
	return filepath.Join(c.cacheDir, "chapters", escape(version), escape(book)+".json")
}

// IsCached checks if the book list of a version is stored
func (c *Cache) IsCached(version string) bool {
	_, err := os.Stat(c.booksPath(version))
	return err == nil
}

func (c *Cache) Books(version string) ([]string, bool) {
	var books []string
	if !readJSON(c.booksPath(version), &books) || len(books) == 0 {
		return nil, false
	}
	return books, true
}

func (c *Cache) PutBooks(version string, books []string) error {
	return writeJSON(c.booksPath(version), books)
}

func (c *Cache) Chapters(version, book string) ([]string, bool) {
	var chapters []string
	if !readJSON(c.chaptersPath(version, book), &chapters) || len(chapters) == 0 {
		return nil, false
	}
	return chapters, true
}

func (c *Cache) PutChapters(version, book string, chapters []string) error {
	return writeJSON(c.chaptersPath(version, book), chapters)
}

// ListCached returns the versions that have a stored book list
func (c *Cache) ListCached() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(c.cacheDir, "books"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var versions []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			versions = append(versions, unescape(strings.TrimSuffix(entry.Name(), ".json")))
		}
	}

	return versions, nil
}

// RemoveVersion removes the book and chapter lists of one version
func (c *Cache) RemoveVersion(version string) error {
	if err := os.Remove(c.booksPath(version)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.RemoveAll(filepath.Join(c.cacheDir, "chapters", escape(version)))
}

// Clear removes everything under the cache directory
func (c *Cache) Clear() error {
	if err := os.RemoveAll(c.cacheDir); err != nil {
		return err
	}
	return os.MkdirAll(c.cacheDir, 0o755)
}

// Size returns the total size of cached data in bytes
func (c *Cache) Size() (int64, error) {
	var size int64
	err := filepath.WalkDir(c.cacheDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		size += info.Size()
		return nil
	})
	return size, err
}

func readJSON(path string, out any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
