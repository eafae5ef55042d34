package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bible-reader/internal/navigator"
)

type memoryCache struct {
	books    map[string][]string
	chapters map[string][]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{books: map[string][]string{}, chapters: map[string][]string{}}
}

func (m *memoryCache) Books(version string) ([]string, bool) {
	b, ok := m.books[version]
	return b, ok
}

func (m *memoryCache) PutBooks(version string, books []string) error {
	m.books[version] = books
	return nil
}

func (m *memoryCache) Chapters(version, book string) ([]string, bool) {
	c, ok := m.chapters[version+"/"+book]
	return c, ok
}

func (m *memoryCache) PutChapters(version, book string, chapters []string) error {
	m.chapters[version+"/"+book] = chapters
	return nil
}

func TestClient_ListVersions(t *testing.T) {
	t.Run("name only", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/versions", r.URL.Path)
			w.Write([]byte(`[{"name":"ASV"},{"name":"Statenvertaling"}]`))
		}))
		defer srv.Close()

		versions, err := NewClient(srv.URL, "").ListVersions(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []navigator.Version{{Name: "ASV"}, {Name: "Statenvertaling"}}, versions)
	})

	t.Run("id and name", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"id":7,"name":"ASV","language":"en"},{"id":"sv","name":""},{"name":""}]`))
		}))
		defer srv.Close()

		versions, err := NewClient(srv.URL, "").ListVersions(context.Background())
		require.NoError(t, err)
		require.Len(t, versions, 2)
		assert.Equal(t, navigator.Version{ID: "7", Name: "ASV", Language: "en"}, versions[0])
		assert.Equal(t, "sv", versions[1].Ref())
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "database locked", http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, "").ListVersions(context.Background())
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
		assert.Contains(t, statusErr.Error(), "database locked")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"oops"`))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, "").ListVersions(context.Background())
		assert.Error(t, err)
	})
}

func TestClient_ListBooksAndChapters(t *testing.T) {
	var bookCalls, chapterCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/books":
			bookCalls++
			assert.Equal(t, "Statenvertaling", r.URL.Query().Get("version"))
			w.Write([]byte(`["1 Mozes","2 Mozes"]`))
		case "/chapters":
			chapterCalls++
			assert.Equal(t, "2 Mozes", r.URL.Query().Get("book"))
			assert.Equal(t, "Statenvertaling", r.URL.Query().Get("version"))
			w.Write([]byte(`["1","2",3]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	client.SetCache(newMemoryCache())
	ctx := context.Background()

	for range 2 {
		books, err := client.ListBooks(ctx, "Statenvertaling")
		require.NoError(t, err)
		assert.Equal(t, []string{"1 Mozes", "2 Mozes"}, books)

		chapters, err := client.ListChapters(ctx, "Statenvertaling", "2 Mozes")
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2", "3"}, chapters)
	}

	assert.Equal(t, 1, bookCalls, "second lookup is served from the cache")
	assert.Equal(t, 1, chapterCalls)
}

func TestClient_ListBooksWithoutVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`["Genesis"]`))
	}))
	defer srv.Close()

	books, err := NewClient(srv.URL, "").ListBooks(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Genesis"}, books)
}

func TestClient_GetChapter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("chapter"))
		w.Write([]byte(`{"verses":{"10":"ten","2":"two","1":"one","title":"skip"}}`))
	}))
	defer srv.Close()

	ch, err := NewClient(srv.URL, "").GetChapter(context.Background(), "ASV", "John", 3)
	require.NoError(t, err)
	assert.Equal(t, []Verse{{1, "one"}, {2, "two"}, {10, "ten"}}, ch.Ordered())
}

func TestClient_LastRead(t *testing.T) {
	var saved lastReadRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "reader-1", r.Header.Get(ReaderHeader))
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"lastReadChapter":{"book":"John","chapter":3,"version":"ASV","updatedAt":"2026-01-02T03:04:05Z"}}`))
		case http.MethodPost:
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&saved))
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "reader-1")
	ctx := context.Background()

	rec, err := client.LastRead(ctx)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "John", rec.Book)
	assert.Equal(t, 3, rec.Chapter)
	assert.Equal(t, "ASV", rec.Version)
	assert.Equal(t, 2026, rec.UpdatedAt.Year())

	err = client.SaveLastRead(ctx, navigator.LastRead{Book: "Jude", Chapter: 1, Version: "ASV"})
	require.NoError(t, err)
	assert.Equal(t, lastReadRequest{Book: "Jude", Chapter: 1, Version: "ASV"}, saved)
}

func TestClient_LastReadNull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"lastReadChapter":null}`))
	}))
	defer srv.Close()

	rec, err := NewClient(srv.URL, "").LastRead(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestClient_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").LastRead(context.Background())
	assert.True(t, errors.Is(err, ErrUnauthorized))

	err = NewClient(srv.URL, "").SaveLastRead(context.Background(), navigator.LastRead{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_Preferences(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *navigator.Preference
	}{
		{name: "translation set", body: `{"preferences":{"translation":"SV","theme":"dark"}}`, want: &navigator.Preference{Translation: "SV"}},
		{name: "no translation", body: `{"preferences":{"theme":"dark"}}`, want: &navigator.Preference{}},
		{name: "empty", body: `{"preferences":{}}`, want: nil},
		{name: "missing", body: `{}`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			pref, err := NewClient(srv.URL, "").Preferences(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, pref)
		})
	}
}

func TestClient_SavePreferences(t *testing.T) {
	var got struct {
		Preferences navigator.Preference `json:"preferences"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/user/preferences", r.URL.Path)
		assert.Equal(t, "reader-1", r.Header.Get(ReaderHeader))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "reader-1").SavePreferences(context.Background(), navigator.Preference{Translation: "Statenvertaling"})
	require.NoError(t, err)
	assert.Equal(t, "Statenvertaling", got.Preferences.Translation)
}

func TestClient_SavePreferencesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"preferences required"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "reader-1").SavePreferences(context.Background(), navigator.Preference{})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
}
