package ui

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bible-reader/internal/api"
	"bible-reader/internal/navigator"
	"bible-reader/internal/theme"
)

type stubCatalog struct {
	books    map[string][]string
	chapters map[string]int
}

func (s *stubCatalog) ListVersions(ctx context.Context) ([]navigator.Version, error) {
	return []navigator.Version{{Name: "ASV", Language: "en"}, {Name: "Statenvertaling", Language: "nl"}}, nil
}

func (s *stubCatalog) ListBooks(ctx context.Context, version string) ([]string, error) {
	return s.books[version], nil
}

func (s *stubCatalog) ListChapters(ctx context.Context, version, book string) ([]string, error) {
	n, ok := s.chapters[book]
	if !ok {
		return nil, errors.New("unknown book")
	}
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i + 1)
	}
	return out, nil
}

type stubProfile struct {
	mu      sync.Mutex
	rec     *navigator.LastRead
	saved   []navigator.LastRead
	pref    *navigator.Preference
	prefErr error
}

func (s *stubProfile) LastRead(ctx context.Context) (*navigator.LastRead, error) {
	return s.rec, nil
}

func (s *stubProfile) SaveLastRead(ctx context.Context, rec navigator.LastRead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, rec)
	return nil
}

func (s *stubProfile) Preferences(ctx context.Context) (*navigator.Preference, error) {
	return nil, nil
}

func (s *stubProfile) SavePreferences(ctx context.Context, pref navigator.Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prefErr != nil {
		return s.prefErr
	}
	s.pref = &pref
	return nil
}

type stubChapters struct {
	calls []string
}

func (s *stubChapters) GetChapter(ctx context.Context, version, book string, chapter int) (*api.Chapter, error) {
	s.calls = append(s.calls, version+" "+book+" "+strconv.Itoa(chapter))
	return &api.Chapter{Verses: map[string]string{"1": book + " " + strconv.Itoa(chapter) + " begins", "2": "and goes on"}}, nil
}

func newTestModel(t *testing.T, rec *navigator.LastRead) (Model, *stubProfile, *stubChapters) {
	t.Helper()
	catalog := &stubCatalog{
		books: map[string][]string{
			"ASV":             {"Genesis", "Exodus", "Jude"},
			"Statenvertaling": {"1 Mozes", "2 Mozes", "Judas"},
		},
		chapters: map[string]int{"Genesis": 50, "Exodus": 40, "Jude": 1, "1 Mozes": 50, "2 Mozes": 40, "Judas": 1},
	}
	profile := &stubProfile{rec: rec}
	chapters := &stubChapters{}

	m := NewModel(context.Background(), Options{
		Navigator:   navigator.Options{Language: "en", PersistDelay: time.Millisecond},
		Runner:      navigator.NewRunner(catalog, profile, nil),
		Chapters:    chapters,
		Preferences: profile,
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, profile, chapters
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	return drain(t, next.(Model), cmd)
}

// drain runs commands until none are left, feeding every message back into
// the model.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 1000, "command loop did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			next, cmd := m.Update(msg)
			m = next.(Model)
			queue = append(queue, cmd)
		}
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func start(t *testing.T, m Model) Model {
	return update(t, m, navEventMsg{navigator.Start{}})
}

func TestModel_StartsAtLanguageDefault(t *testing.T) {
	m, profile, chapters := newTestModel(t, nil)
	m = start(t, m)

	assert.Equal(t, navigator.Selection{Version: "ASV", Book: "Genesis", Chapter: 1}, m.State().Selection())
	assert.Equal(t, navigator.PhaseReady, m.State().Phase())
	assert.Equal(t, []string{"ASV Genesis 1"}, chapters.calls)
	assert.Contains(t, m.View(), "Genesis 1 begins")

	require.Len(t, profile.saved, 1)
	assert.Equal(t, "Genesis", profile.saved[0].Book)
}

func TestModel_RestoresLastRead(t *testing.T) {
	m, profile, _ := newTestModel(t, &navigator.LastRead{Version: "Statenvertaling", Book: "2 Mozes", Chapter: 20})
	m = start(t, m)

	assert.Equal(t, navigator.Selection{Version: "Statenvertaling", Book: "2 Mozes", Chapter: 20}, m.State().Selection())
	require.Len(t, profile.saved, 1)
	assert.Equal(t, 20, profile.saved[0].Chapter)
}

func TestModel_NextAndPrev(t *testing.T) {
	m, _, chapters := newTestModel(t, nil)
	m = start(t, m)

	m = update(t, m, key("p"))
	assert.Equal(t, 1, m.State().Selection().Chapter)

	m = update(t, m, key("n"))
	m = update(t, m, key("n"))
	assert.Equal(t, 3, m.State().Selection().Chapter)
	assert.Equal(t, []string{"ASV Genesis 1", "ASV Genesis 2", "ASV Genesis 3"}, chapters.calls)
}

func TestModel_PickBook(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = start(t, m)

	m = update(t, m, key("b"))
	require.Equal(t, pickBook, m.picking)

	m = update(t, m, key("down"))
	m = update(t, m, key("enter"))

	assert.Equal(t, pickNone, m.picking)
	assert.Equal(t, navigator.Selection{Version: "ASV", Book: "Exodus", Chapter: 1}, m.State().Selection())
}

func TestModel_PickVersionKeepsPosition(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = start(t, m)

	m = update(t, m, key("b"))
	m = update(t, m, key("down"))
	m = update(t, m, key("enter"))
	m = update(t, m, key("n"))

	m = update(t, m, key("v"))
	require.Equal(t, pickVersion, m.picking)
	m = update(t, m, key("down"))
	m = update(t, m, key("enter"))

	assert.Equal(t, navigator.Selection{Version: "Statenvertaling", Book: "2 Mozes", Chapter: 2}, m.State().Selection())
}

func TestModel_EscClosesPicker(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = start(t, m)

	m = update(t, m, key("c"))
	require.Equal(t, pickChapter, m.picking)
	m = update(t, m, key("esc"))

	assert.Equal(t, pickNone, m.picking)
	assert.Equal(t, 1, m.State().Selection().Chapter)
}

func TestModel_SingleChapterBookDisablesNavigation(t *testing.T) {
	m, _, _ := newTestModel(t, &navigator.LastRead{Version: "ASV", Book: "Jude", Chapter: 1})
	m = start(t, m)

	assert.Equal(t, 1, m.State().MaxChapter())
	assert.False(t, m.State().CanPrev())
	assert.False(t, m.State().CanNext())
	assert.NotContains(t, m.View(), "No chapters available")
}

func TestModel_StaleChapterTextIsDropped(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = start(t, m)

	m.textSeq++
	next, _ := m.Update(chapterTextMsg{seq: m.textSeq - 1, err: errors.New("late")})
	m = next.(Model)
	assert.NoError(t, m.textErr)
}

func TestModel_SavePreferredTranslation(t *testing.T) {
	m, profile, _ := newTestModel(t, nil)
	m = start(t, m)

	m = update(t, m, key("v"))
	m = update(t, m, key("down"))
	m = update(t, m, key("enter"))
	m = update(t, m, key("P"))

	require.NotNil(t, profile.pref)
	assert.Equal(t, "Statenvertaling", profile.pref.Translation)
	assert.Contains(t, m.View(), "Statenvertaling is now your preferred translation")

	m = update(t, m, key("n"))
	assert.NotContains(t, m.View(), "preferred translation")
}

func TestModel_SavePreferredTranslationFails(t *testing.T) {
	m, profile, _ := newTestModel(t, nil)
	profile.prefErr = errors.New("offline")
	m = start(t, m)

	m = update(t, m, key("P"))

	assert.Nil(t, profile.pref)
	assert.Contains(t, m.View(), "Could not save preferred translation")
}

func TestModel_PreferBeforeCatalogIsNoop(t *testing.T) {
	m, profile, _ := newTestModel(t, nil)

	next, cmd := m.Update(key("P"))
	assert.Nil(t, cmd)
	assert.Nil(t, profile.pref)
	assert.Empty(t, next.(Model).notice)
}

func TestModel_CycleTheme(t *testing.T) {
	var remembered theme.Theme
	m, _, _ := newTestModel(t, nil)
	m.onThemeChange = func(t theme.Theme) { remembered = t }

	m = update(t, m, key("T"))

	assert.Equal(t, theme.CatppuccinLatte.Name, m.theme.Name)
	assert.Equal(t, theme.CatppuccinLatte.Name, remembered.Name)
}

func TestModel_Quit(t *testing.T) {
	m, _, _ := newTestModel(t, nil)

	next, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.View())
}
