package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type VersionResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name,omitempty"`
	Language string `json:"language,omitempty"`
}

type ChapterResponse struct {
	Verses map[string]string `json:"verses"`
}

type BibleController struct {
	store          BibleStore
	defaultVersion string
}

func NewBibleController(store BibleStore, defaultVersion string) *BibleController {
	return &BibleController{store: store, defaultVersion: defaultVersion}
}

// Versions lists every imported version.
func (b *BibleController) Versions(c *gin.Context) {
	versions, err := b.store.ListVersions()
	if err != nil {
		respondInternalError(c, err, "list versions")
		return
	}

	resp := make([]VersionResponse, len(versions))
	for i, v := range versions {
		resp[i] = VersionResponse{ID: v.ID, Name: v.Name, FullName: v.FullName, Language: v.Language}
	}
	c.JSON(http.StatusOK, resp)
}

// Books lists the book names of ?version=, or of the default version when
// the parameter is missing.
func (b *BibleController) Books(c *gin.Context) {
	version, ok := b.version(c)
	if !ok {
		return
	}

	books, err := b.store.ListBooks(version)
	if err != nil {
		respondStoreError(c, err, "list books")
		return
	}
	if books == nil {
		books = []string{}
	}
	c.JSON(http.StatusOK, books)
}

// Chapters lists the chapter numbers of ?book= as strings.
func (b *BibleController) Chapters(c *gin.Context) {
	book := strings.TrimSpace(c.Query("book"))
	if book == "" {
		respondBadRequest(c, "book is required")
		return
	}
	version, ok := b.version(c)
	if !ok {
		return
	}

	chapters, err := b.store.ListChapters(version, book)
	if err != nil {
		respondStoreError(c, err, "list chapters")
		return
	}

	resp := make([]string, len(chapters))
	for i, n := range chapters {
		resp[i] = strconv.Itoa(n)
	}
	c.JSON(http.StatusOK, resp)
}

// Chapter returns the verses of one chapter keyed by verse number.
func (b *BibleController) Chapter(c *gin.Context) {
	book := strings.TrimSpace(c.Query("book"))
	if book == "" {
		respondBadRequest(c, "book is required")
		return
	}
	chapter, err := strconv.Atoi(c.Query("chapter"))
	if err != nil || chapter < 1 {
		respondBadRequest(c, "chapter must be a positive number")
		return
	}
	version, ok := b.version(c)
	if !ok {
		return
	}

	verses, err := b.store.GetChapter(version, book, chapter)
	if err != nil {
		respondStoreError(c, err, "get chapter")
		return
	}

	resp := ChapterResponse{Verses: make(map[string]string, len(verses))}
	for _, v := range verses {
		resp.Verses[strconv.Itoa(v.Verse)] = v.Text
	}
	c.JSON(http.StatusOK, resp)
}

func (b *BibleController) version(c *gin.Context) (string, bool) {
	if v := strings.TrimSpace(c.Query("version")); v != "" {
		return v, true
	}
	if b.defaultVersion != "" {
		return b.defaultVersion, true
	}

	versions, err := b.store.ListVersions()
	if err != nil {
		respondInternalError(c, err, "default version")
		return "", false
	}
	if len(versions) == 0 {
		respondNotFound(c, "no versions imported")
		return "", false
	}
	return versions[0].Name, true
}
