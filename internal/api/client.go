package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"bible-reader/internal/navigator"
)

const defaultTimeout = 30 * time.Second

// ReaderHeader carries the reader identity on user-specific endpoints.
const ReaderHeader = "X-Reader-ID"

// CacheInterface stores book and chapter lists, which do not change for a
// given version.
type CacheInterface interface {
	Books(version string) ([]string, bool)
	PutBooks(version string, books []string) error
	Chapters(version, book string) ([]string, bool)
	PutChapters(version, book string, chapters []string) error
}

// Client talks to the reading server. It implements navigator.Catalog and
// navigator.Profile.
type Client struct {
	baseURL    string
	readerID   string
	httpClient *http.Client
	cache      CacheInterface
}

var (
	_ navigator.Catalog = (*Client)(nil)
	_ navigator.Profile = (*Client)(nil)
)

func NewClient(baseURL, readerID string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		readerID: readerID,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

func (c *Client) SetCache(cache CacheInterface) {
	c.cache = cache
}

type catalogEntry struct {
	ID       json.RawMessage `json:"id,omitempty"`
	Name     string          `json:"name"`
	Language string          `json:"language,omitempty"`
}

// Chapter is the text of one chapter, keyed by verse number.
type Chapter struct {
	Verses map[string]string `json:"verses"`
}

// Verse is one numbered verse of a Chapter.
type Verse struct {
	Number int
	Text   string
}

// Ordered returns the verses sorted by verse number. Keys that are not
// numbers are skipped.
func (ch Chapter) Ordered() []Verse {
	verses := make([]Verse, 0, len(ch.Verses))
	for k, text := range ch.Verses {
		n, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		verses = append(verses, Verse{Number: n, Text: text})
	}
	sort.Slice(verses, func(i, j int) bool { return verses[i].Number < verses[j].Number })
	return verses
}

type lastReadResponse struct {
	LastReadChapter *navigator.LastRead `json:"lastReadChapter"`
}

type lastReadRequest struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
	Version string `json:"version"`
}

type preferencesResponse struct {
	Preferences map[string]any `json:"preferences"`
}

// ListVersions fetches the version catalog. Both the {name} and the
// {id,name} entry shapes are accepted.
func (c *Client) ListVersions(ctx context.Context) ([]navigator.Version, error) {
	var entries []catalogEntry
	if err := c.getJSON(ctx, "/versions", nil, &entries); err != nil {
		return nil, err
	}

	versions := make([]navigator.Version, 0, len(entries))
	for _, e := range entries {
		v := navigator.Version{Name: e.Name, Language: e.Language}
		if len(e.ID) > 0 {
			var s string
			if err := json.Unmarshal(e.ID, &s); err == nil {
				v.ID = s
			} else {
				v.ID = strings.Trim(string(e.ID), `"`)
			}
		}
		if v.Ref() == "" {
			continue
		}
		versions = append(versions, v)
	}
	return versions, nil
}

// ListBooks fetches the book names of a version. An empty version asks the
// server for its default version.
func (c *Client) ListBooks(ctx context.Context, version string) ([]string, error) {
	if c.cache != nil && version != "" {
		if books, ok := c.cache.Books(version); ok {
			return books, nil
		}
	}

	params := url.Values{}
	if version != "" {
		params.Set("version", version)
	}
	var books []string
	if err := c.getJSON(ctx, "/books", params, &books); err != nil {
		return nil, err
	}

	if c.cache != nil && version != "" && len(books) > 0 {
		_ = c.cache.PutBooks(version, books)
	}
	return books, nil
}

// ListChapters fetches the chapter numbers of a book, as strings.
func (c *Client) ListChapters(ctx context.Context, version, book string) ([]string, error) {
	if c.cache != nil {
		if chapters, ok := c.cache.Chapters(version, book); ok {
			return chapters, nil
		}
	}

	params := url.Values{}
	params.Set("book", book)
	params.Set("version", version)
	var raw []json.RawMessage
	if err := c.getJSON(ctx, "/chapters", params, &raw); err != nil {
		return nil, err
	}

	// Some providers send numbers instead of strings.
	chapters := make([]string, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			chapters = append(chapters, s)
			continue
		}
		chapters = append(chapters, string(r))
	}

	if c.cache != nil && len(chapters) > 0 {
		_ = c.cache.PutChapters(version, book, chapters)
	}
	return chapters, nil
}

// GetChapter fetches the verses of one chapter.
func (c *Client) GetChapter(ctx context.Context, version, book string, chapter int) (*Chapter, error) {
	params := url.Values{}
	params.Set("book", book)
	params.Set("chapter", strconv.Itoa(chapter))
	params.Set("version", version)

	var ch Chapter
	if err := c.getJSON(ctx, "/chapter", params, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

// LastRead fetches the reader's last-read position; nil when there is none.
func (c *Client) LastRead(ctx context.Context) (*navigator.LastRead, error) {
	var resp lastReadResponse
	if err := c.getJSON(ctx, "/api/user/last-read", nil, &resp); err != nil {
		return nil, err
	}
	return resp.LastReadChapter, nil
}

// SaveLastRead stores the reader's position. The response body is ignored.
func (c *Client) SaveLastRead(ctx context.Context, rec navigator.LastRead) error {
	body := lastReadRequest{Book: rec.Book, Chapter: rec.Chapter, Version: rec.Version}
	return c.sendJSON(ctx, http.MethodPost, "/api/user/last-read", body)
}

// Preferences fetches the reader's preferences; nil when none are stored.
func (c *Client) Preferences(ctx context.Context) (*navigator.Preference, error) {
	var resp preferencesResponse
	if err := c.getJSON(ctx, "/api/user/preferences", nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Preferences) == 0 {
		return nil, nil
	}
	pref := &navigator.Preference{}
	if t, ok := resp.Preferences["translation"].(string); ok {
		pref.Translation = t
	}
	return pref, nil
}

// SavePreferences replaces the reader's stored translation preference.
func (c *Client) SavePreferences(ctx context.Context, pref navigator.Preference) error {
	return c.sendJSON(ctx, http.MethodPut, "/api/user/preferences", map[string]any{"preferences": pref})
}

func (c *Client) newRequest(ctx context.Context, method, path string, params url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.readerID != "" {
		req.Header.Set(ReaderHeader, c.readerID)
	}
	return req, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, method, path, nil, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
