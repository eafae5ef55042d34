package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"bible-reader/internal/api"
	"bible-reader/internal/navigator"
	"bible-reader/internal/theme"
)

// ChapterSource fetches the text of the selected chapter.
type ChapterSource interface {
	GetChapter(ctx context.Context, version, book string, chapter int) (*api.Chapter, error)
}

// PreferenceSaver stores the translation the reader prefers to start on.
type PreferenceSaver interface {
	SavePreferences(ctx context.Context, pref navigator.Preference) error
}

type Options struct {
	Navigator   navigator.Options
	Runner      *navigator.Runner
	Chapters    ChapterSource
	Preferences PreferenceSaver
	Theme       theme.Theme

	// OnThemeChange is called after the theme was cycled, to remember it.
	OnThemeChange func(theme.Theme)
	Logger        *slog.Logger
}

// Model is the terminal reader. It owns the navigation state and is the
// only place that applies events to it; fetches and timers run as commands
// whose results come back through Update.
type Model struct {
	ctx      context.Context
	nav      navigator.State
	runner   *navigator.Runner
	chapters ChapterSource
	prefs    PreferenceSaver
	logger   *slog.Logger

	viewport viewport.Model
	spinner  spinner.Model
	picker   list.Model
	picking  pickTarget

	theme         theme.Theme
	styles        theme.Styles
	onThemeChange func(theme.Theme)

	// text of the shown chapter, tagged so late responses are dropped
	textSeq  uint64
	textFor  navigator.Selection
	textErr  error
	verses   []api.Verse
	status   string
	notice   string
	width    int
	height   int
	ready    bool
	quitting bool
}

type pickTarget int

const (
	pickNone pickTarget = iota
	pickVersion
	pickBook
	pickChapter
)

type navEventMsg struct{ event navigator.Event }

type preferenceSavedMsg struct {
	translation string
	err         error
}

type chapterTextMsg struct {
	seq     uint64
	chapter *api.Chapter
	err     error
}

const (
	headerHeight = 2
	footerHeight = 2
)

func NewModel(ctx context.Context, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	t := opts.Theme
	if t.Name == "" {
		t = theme.CatppuccinMocha
	}
	styles := theme.NewStyles(t)

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	picker := list.New(nil, delegate, 80, 20)
	picker.SetShowHelp(false)
	picker.DisableQuitKeybindings()

	return Model{
		ctx:           ctx,
		nav:           navigator.New(opts.Navigator),
		runner:        opts.Runner,
		chapters:      opts.Chapters,
		prefs:         opts.Preferences,
		logger:        logger,
		viewport:      viewport.New(80, 20),
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Spinner)),
		picker:        picker,
		theme:         t,
		styles:        styles,
		onThemeChange: opts.OnThemeChange,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg { return navEventMsg{navigator.Start{}} },
	)
}

// State exposes the navigation state, mainly for tests.
func (m Model) State() navigator.State { return m.nav }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bodyHeight := max(msg.Height-headerHeight-footerHeight, 1)
		m.viewport.Width = msg.Width
		m.viewport.Height = bodyHeight
		m.picker.SetSize(msg.Width, bodyHeight)
		m.ready = true
		m.viewport.SetContent(m.renderText())
		return m, nil

	case navEventMsg:
		return m.apply(msg.event)

	case chapterTextMsg:
		if msg.seq != m.textSeq {
			return m, nil
		}
		m.textErr = msg.err
		m.verses = nil
		if msg.chapter != nil {
			m.verses = msg.chapter.Ordered()
		}
		m.viewport.SetContent(m.renderText())
		m.viewport.GotoTop()
		return m, nil

	case preferenceSavedMsg:
		if msg.err != nil {
			m.status = "Could not save preferred translation"
			return m, nil
		}
		m.status = ""
		m.notice = msg.translation + " is now your preferred translation"
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.picking != pickNone {
			return m.updatePicker(msg)
		}
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "v":
		return m.openPicker(pickVersion), nil
	case "b":
		return m.openPicker(pickBook), nil
	case "c":
		return m.openPicker(pickChapter), nil
	case "n", "right":
		return m.apply(navigator.NextChapter{})
	case "p", "left":
		return m.apply(navigator.PrevChapter{})
	case "P":
		return m, m.savePreference()
	case "T":
		m.theme = theme.Next(m.theme)
		m.styles = theme.NewStyles(m.theme)
		m.spinner.Style = m.styles.Spinner
		m.viewport.SetContent(m.renderText())
		if m.onThemeChange != nil {
			m.onThemeChange(m.theme)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// savePreference stores the selected version as the translation new
// sessions start on when there is no last-read position.
func (m Model) savePreference() tea.Cmd {
	version := m.nav.Selection().Version
	if version == "" || m.prefs == nil {
		return nil
	}

	ctx, store, logger := m.ctx, m.prefs, m.logger
	return func() tea.Msg {
		err := store.SavePreferences(ctx, navigator.Preference{Translation: version})
		if err != nil {
			logger.Error("Failed to save preferred translation", "version", version, "error", err)
		}
		return preferenceSavedMsg{translation: version, err: err}
	}
}

// apply feeds ev to the navigation state and turns the resulting effects
// into commands.
func (m Model) apply(ev navigator.Event) (Model, tea.Cmd) {
	var effects []navigator.Effect
	m.nav, effects = m.nav.Apply(ev)

	if saved, ok := ev.(navigator.Saved); ok {
		if saved.Err != nil {
			m.status = "Could not save reading position"
		} else {
			m.status = ""
		}
	}

	cmds := m.effectCmds(effects)
	if cmd := m.syncText(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) effectCmds(effects []navigator.Effect) []tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(effects))
	for _, eff := range effects {
		if sp, ok := eff.(navigator.SchedulePersist); ok {
			token := sp.Token
			cmds = append(cmds, tea.Tick(sp.Delay, func(time.Time) tea.Msg {
				return navEventMsg{navigator.PersistDue{Token: token}}
			}))
			continue
		}
		cmds = append(cmds, m.runEffect(eff))
	}
	return cmds
}

func (m Model) runEffect(eff navigator.Effect) tea.Cmd {
	ctx, runner := m.ctx, m.runner
	return func() tea.Msg {
		ev := runner.Run(ctx, eff)
		if ev == nil {
			return nil
		}
		return navEventMsg{ev}
	}
}

// syncText starts loading the chapter text when the settled selection
// differs from the one on screen.
func (m *Model) syncText() tea.Cmd {
	sel := m.nav.Selection()
	if m.nav.Phase() != navigator.PhaseReady {
		if m.textFor != (navigator.Selection{}) {
			m.textSeq++
			m.textFor = navigator.Selection{}
			m.verses = nil
			m.textErr = nil
			m.viewport.SetContent(m.renderText())
		}
		return nil
	}
	if sel == m.textFor || m.chapters == nil {
		return nil
	}

	m.textSeq++
	m.textFor = sel
	m.verses = nil
	m.textErr = nil
	m.viewport.SetContent(m.renderText())

	seq, ctx, source, logger := m.textSeq, m.ctx, m.chapters, m.logger
	return func() tea.Msg {
		ch, err := source.GetChapter(ctx, sel.Version, sel.Book, sel.Chapter)
		if err != nil {
			logger.Error("Failed to load chapter text", "version", sel.Version, "book", sel.Book, "chapter", sel.Chapter, "error", err)
		}
		return chapterTextMsg{seq: seq, chapter: ch, err: err}
	}
}

func (m Model) openPicker(target pickTarget) Model {
	var (
		items   []list.Item
		current string
		title   string
	)
	sel := m.nav.Selection()

	switch target {
	case pickVersion:
		title = "Translation"
		current = sel.Version
		for _, v := range m.nav.Versions() {
			items = append(items, pickItem{value: v.Ref(), label: versionLabel(v)})
		}
	case pickBook:
		title = "Book"
		current = sel.Book
		for _, b := range m.nav.Books() {
			items = append(items, pickItem{value: b, label: b})
		}
	case pickChapter:
		title = "Chapter"
		current = strconv.Itoa(sel.Chapter)
		for _, n := range m.nav.Chapters() {
			s := strconv.Itoa(n)
			items = append(items, pickItem{value: s, label: s})
		}
	}
	if len(items) == 0 {
		return m
	}

	m.picker.Title = title
	m.picker.ResetFilter()
	m.picker.SetItems(items)
	for i, it := range items {
		if it.(pickItem).value == current {
			m.picker.Select(i)
			break
		}
	}
	m.picking = target
	return m
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.picker.FilterState() != list.Filtering {
		switch msg.String() {
		case "esc", "q":
			if m.picker.FilterState() == list.FilterApplied {
				break
			}
			m.picking = pickNone
			return m, nil
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			item, ok := m.picker.SelectedItem().(pickItem)
			target := m.picking
			m.picking = pickNone
			if !ok {
				return m, nil
			}
			return m.apply(pickEvent(target, item.value))
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func pickEvent(target pickTarget, value string) navigator.Event {
	switch target {
	case pickVersion:
		return navigator.SelectVersion{Version: value}
	case pickBook:
		return navigator.SelectBook{Book: value}
	}
	n, _ := strconv.Atoi(value)
	return navigator.SelectChapter{Chapter: n}
}

func versionLabel(v navigator.Version) string {
	if v.Language == "" {
		return v.Ref()
	}
	return fmt.Sprintf("%s (%s)", v.Ref(), v.Language)
}

type pickItem struct {
	value string
	label string
}

func (i pickItem) Title() string       { return i.label }
func (i pickItem) Description() string { return "" }
func (i pickItem) FilterValue() string { return i.label }

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	var body string
	switch {
	case m.picking != pickNone:
		body = m.picker.View()
	case m.nav.Phase() == navigator.PhaseReady:
		body = m.viewport.View()
	default:
		body = m.emptyView()
	}

	return strings.Join([]string{m.headerView(), body, m.footerView()}, "\n")
}

func (m Model) headerView() string {
	sel := m.nav.Selection()
	parts := []string{
		m.tierLabel(navigator.TierVersion, sel.Version),
		m.tierLabel(navigator.TierBook, sel.Book),
	}
	chapter := ""
	if sel.Chapter > 0 && sel.Book != "" {
		chapter = fmt.Sprintf("%d/%d", sel.Chapter, m.nav.MaxChapter())
	}
	parts = append(parts, m.tierLabel(navigator.TierChapter, chapter))

	return m.styles.Header.Width(max(m.width, 1)).Render(
		m.styles.Title.Render("Bible") + "  " + strings.Join(parts, m.styles.Crumb.Render(" › ")),
	)
}

func (m Model) tierLabel(t navigator.Tier, value string) string {
	switch m.nav.Tier(t) {
	case navigator.Loading:
		return m.spinner.View()
	case navigator.Failed:
		return m.styles.Error.Render("!")
	}
	if value == "" {
		return m.styles.Crumb.Render("–")
	}
	return m.styles.Title.Render(value)
}

func (m Model) emptyView() string {
	var lines []string
	if msg := m.nav.EmptyMessage(); msg != "" {
		lines = append(lines, msg)
	} else if m.nav.Loading() {
		lines = append(lines, m.spinner.View()+" Loading...")
	}
	for _, t := range []navigator.Tier{navigator.TierVersion, navigator.TierBook, navigator.TierChapter} {
		if err := m.nav.Err(t); err != nil {
			lines = append(lines, m.styles.Error.Render(fmt.Sprintf("Could not load %s list: %v", t, err)))
		}
	}
	return m.styles.Empty.Render(strings.Join(lines, "\n"))
}

func (m Model) footerView() string {
	key := func(k, label string, enabled bool) string {
		s := k + " " + label
		if !enabled {
			return m.styles.Disabled.Render(s)
		}
		return m.styles.Help.Render(s)
	}

	var help string
	if m.picking != pickNone {
		help = m.styles.Help.Render("enter select · / filter · esc back")
	} else {
		help = strings.Join([]string{
			key("v", "translation", len(m.nav.Versions()) > 0),
			key("b", "book", len(m.nav.Books()) > 0),
			key("c", "chapter", len(m.nav.Chapters()) > 0),
			key("p", "prev", m.nav.CanPrev()),
			key("n", "next", m.nav.CanNext()),
			key("P", "prefer", m.prefs != nil && m.nav.Selection().Version != ""),
			key("T", "theme", true),
			key("q", "quit", true),
		}, m.styles.Help.Render(" · "))
	}

	if m.status != "" {
		help += "  " + m.styles.Error.Render(m.status)
	} else if m.notice != "" {
		help += "  " + m.styles.Status.Render(m.notice)
	}
	return "\n" + help
}

func (m Model) renderText() string {
	if m.textErr != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.textErr))
	}
	if len(m.verses) == 0 {
		return ""
	}

	width := max(m.viewport.Width-6, 20)
	textStyle := m.styles.Verse.Width(width)

	var sb strings.Builder
	for _, v := range m.verses {
		verseNum := m.styles.VerseNum.Render(fmt.Sprintf("%3d", v.Number))
		sb.WriteString(fmt.Sprintf("%s  %s\n\n", verseNum, textStyle.Render(v.Text)))
	}
	return sb.String()
}
