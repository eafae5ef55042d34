package bolls

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// DownloadTranslation downloads the full text of a translation. The
// provider ships it as a ZIP holding a single JSON array of verses.
func (c *Client) DownloadTranslation(ctx context.Context, translation string) ([]Verse, error) {
	url := fmt.Sprintf("%s/static/translations/%s.zip", c.baseURL, translation)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	tmpFile, err := os.CreateTemp("", translation+"*.zip")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmpFile.Name())
	defer tmpFile.Close()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return nil, err
	}

	return readVerses(tmpFile.Name())
}

func readVerses(zipPath string) ([]Verse, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if filepath.Ext(f.Name) != ".json" {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		var verses []Verse
		if err := json.NewDecoder(rc).Decode(&verses); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.Name, err)
		}
		return verses, nil
	}

	return nil, fmt.Errorf("no JSON file found in ZIP")
}
