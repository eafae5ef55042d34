// Package bolls fetches translations from the bolls.life provider so they
// can be imported into the reading server's database.
package bolls

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://bolls.life"
	defaultTimeout = 5 * time.Minute
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// SetBaseURL points the client at another host, e.g. a mirror.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

type Translation struct {
	ShortName string `json:"short_name"`
	FullName  string `json:"full_name"`
	Updated   int64  `json:"updated"`
	Dir       string `json:"dir,omitempty"`
}

type LanguageGroup struct {
	Language     string        `json:"language"`
	Translations []Translation `json:"translations"`
}

type Book struct {
	BookID     int    `json:"bookid"`
	ChronOrder int    `json:"chronorder"`
	Name       string `json:"name"`
	Chapters   int    `json:"chapters"`
}

type Verse struct {
	PK          int    `json:"pk"`
	Verse       int    `json:"verse"`
	Text        string `json:"text"`
	Translation string `json:"translation,omitempty"`
	Book        int    `json:"book,omitempty"`
	Chapter     int    `json:"chapter,omitempty"`
}

// GetTranslations lists the translations of one language group, e.g.
// "English" or "Dutch". An empty language returns every translation.
func (c *Client) GetTranslations(ctx context.Context, language string) ([]Translation, error) {
	url := fmt.Sprintf("%s/static/bolls/app/views/languages.json", c.baseURL)

	var languageGroups []LanguageGroup
	if err := c.getJSON(ctx, url, &languageGroups); err != nil {
		return nil, err
	}

	var translations []Translation
	for _, group := range languageGroups {
		if language == "" || strings.EqualFold(group.Language, language) {
			translations = append(translations, group.Translations...)
		}
	}

	return translations, nil
}

// FindTranslation looks up a translation by its short name.
func (c *Client) FindTranslation(ctx context.Context, shortName string) (*Translation, error) {
	translations, err := c.GetTranslations(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, t := range translations {
		if strings.EqualFold(t.ShortName, shortName) {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("translation %s not found", shortName)
}

func (c *Client) GetBooks(ctx context.Context, translation string) ([]Book, error) {
	url := fmt.Sprintf("%s/get-books/%s/", c.baseURL, translation)

	var books []Book
	if err := c.getJSON(ctx, url, &books); err != nil {
		return nil, err
	}

	return books, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
