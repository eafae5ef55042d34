package navigator

import (
	"slices"
	"time"
)

// DefaultPersistDelay is the idle time before a position is written back.
const DefaultPersistDelay = 1000 * time.Millisecond

// Options configures a navigation session.
type Options struct {
	// Language is the reader's UI language, e.g. "nl" or "en".
	Language string
	// DefaultVersions overrides the package DefaultVersions table.
	DefaultVersions map[string]string
	// PersistDelay is the debounce delay for last-read writes.
	PersistDelay time.Duration
}

// State is one navigation session. It is a value: Apply never modifies the
// receiver, and the slices it exposes must be treated as read-only.
type State struct {
	opts Options

	versions []Version
	books    []string
	chapters []int

	sel    Selection
	tiers  [3]LoadState
	errs   [3]error
	seq    [3]uint64
	intent RestorationIntent

	started        bool
	resolved       bool
	lastReadLoaded bool
	prefsRequested bool
	prefsLoaded    bool
	lastRead       *LastRead
	preference     *Preference

	persistToken uint64
	scheduled    Selection
	pending      *PendingWrite
}

// New creates an idle session. Apply(Start{}) kicks it off.
func New(opts Options) State {
	if opts.PersistDelay <= 0 {
		opts.PersistDelay = DefaultPersistDelay
	}
	return State{opts: opts}
}

// Apply returns the state after ev together with the effects to run.
func (s State) Apply(ev Event) (State, []Effect) {
	var effects []Effect

	switch ev := ev.(type) {
	case Start:
		s, effects = s.start()
	case VersionsLoaded:
		s, effects = s.versionsLoaded(ev)
	case LastReadLoaded:
		s, effects = s.lastReadResolved(ev)
	case PreferencesLoaded:
		s, effects = s.preferencesResolved(ev)
	case BooksLoaded:
		s, effects = s.booksLoaded(ev)
	case ChaptersLoaded:
		s, effects = s.chaptersLoaded(ev)
	case SelectVersion:
		s, effects = s.selectVersion(ev.Version)
	case SelectBook:
		s, effects = s.selectBook(ev.Book)
	case SelectChapter:
		s = s.selectChapter(ev.Chapter)
	case PrevChapter:
		if s.CanPrev() {
			s.sel.Chapter = s.chapters[s.chapterIndex()-1]
		}
	case NextChapter:
		if s.CanNext() {
			s.sel.Chapter = s.chapters[s.chapterIndex()+1]
		}
	case PersistDue:
		s, effects = s.persistDue(ev.Token)
	case Saved:
		// Failures are logged by the runner; the in-memory selection stays
		// authoritative either way.
	}

	return s.schedulePersist(effects)
}

func (s State) start() (State, []Effect) {
	if s.started {
		return s, nil
	}
	s.started = true
	s.seq[TierVersion]++
	s.tiers[TierVersion] = Loading
	return s, []Effect{FetchVersions{Seq: s.seq[TierVersion]}, FetchLastRead{}}
}

func (s State) versionsLoaded(ev VersionsLoaded) (State, []Effect) {
	if ev.Seq != s.seq[TierVersion] || s.tiers[TierVersion] != Loading {
		return s, nil
	}

	s.errs[TierVersion] = ev.Err
	switch {
	case ev.Err != nil:
		s.versions = nil
		s.tiers[TierVersion] = Failed
		s.sel = Selection{}
		return s, nil
	case len(ev.Versions) == 0:
		s.versions = nil
		s.tiers[TierVersion] = Empty
		s.sel = Selection{}
		return s, nil
	}

	s.versions = ev.Versions
	s.tiers[TierVersion] = Loaded
	return s.resolveDefault()
}

func (s State) lastReadResolved(ev LastReadLoaded) (State, []Effect) {
	if s.lastReadLoaded {
		return s, nil
	}
	s.lastReadLoaded = true

	if ev.Err == nil && ev.Record != nil && ev.Record.Version != "" {
		rec := *ev.Record
		s.lastRead = &rec
		return s.resolveDefault()
	}
	return s.fetchPreferences()
}

func (s State) fetchPreferences() (State, []Effect) {
	if s.prefsRequested {
		return s, nil
	}
	s.prefsRequested = true
	return s, []Effect{FetchPreferences{}}
}

func (s State) preferencesResolved(ev PreferencesLoaded) (State, []Effect) {
	if s.prefsLoaded {
		return s, nil
	}
	s.prefsLoaded = true
	if ev.Err == nil && ev.Preference != nil {
		pref := *ev.Preference
		s.preference = &pref
	}
	return s.resolveDefault()
}

// resolveDefault runs the default resolver once the catalog and the
// last-read (or, lacking one, preference) lookups have all resolved.
func (s State) resolveDefault() (State, []Effect) {
	if s.resolved || s.tiers[TierVersion] != Loaded || !s.lastReadLoaded {
		return s, nil
	}
	if !s.prefsLoaded {
		if s.lastRead == nil {
			return s, nil
		}
		// A record whose version left the catalog falls through to the
		// stored preference, which has not been read yet.
		if _, ok := findVersion(s.versions, s.lastRead.Version); !ok {
			return s.fetchPreferences()
		}
	}
	s.resolved = true

	version, intent := ResolveDefault(s.versions, s.lastRead, s.preference, s.opts.Language, s.opts.DefaultVersions)
	if version == "" {
		return s, nil
	}
	s.intent = intent
	return s.loadBooks(version)
}

func (s State) selectVersion(name string) (State, []Effect) {
	if s.tiers[TierVersion] != Loaded {
		return s, nil
	}
	v, ok := findVersion(s.versions, name)
	if !ok {
		return s, nil
	}
	ref := v.Ref()
	if ref == s.sel.Version && (s.tiers[TierBook] == Loading || s.tiers[TierBook] == Loaded) {
		return s, nil
	}

	switch {
	case s.sel.Book != "":
		chapter := s.sel.Chapter
		if chapter == 0 && s.intent.Kind == IntentChapter {
			chapter = s.intent.Chapter
		}
		s.intent = restoreIntent(s.sel.Book, slices.Index(s.books, s.sel.Book), chapter)
	case s.intent.Kind == IntentRestore:
		// A restoration is still waiting for its book list; carry it over.
	default:
		s.intent = RestorationIntent{}
	}

	s.resolved = true
	return s.loadBooks(ref)
}

func (s State) loadBooks(version string) (State, []Effect) {
	s.sel = Selection{Version: version}
	s.books = nil
	s.chapters = nil
	s.tiers[TierBook] = Loading
	s.tiers[TierChapter] = Idle
	s.errs[TierBook] = nil
	s.errs[TierChapter] = nil
	s.seq[TierBook]++
	// Chapter responses for the previous version are stale from here on.
	s.seq[TierChapter]++
	return s, []Effect{FetchBooks{Seq: s.seq[TierBook], Version: version}}
}

func (s State) booksLoaded(ev BooksLoaded) (State, []Effect) {
	if ev.Seq != s.seq[TierBook] || s.tiers[TierBook] != Loading {
		return s, nil
	}

	s.errs[TierBook] = ev.Err
	switch {
	case ev.Err != nil:
		s.books = nil
		s.sel.Book = ""
		s.tiers[TierBook] = Failed
		return s, nil
	case len(ev.Books) == 0:
		s.books = nil
		s.sel.Book = ""
		s.tiers[TierBook] = Empty
		return s, nil
	}

	s.books = ev.Books
	s.tiers[TierBook] = Loaded
	s.sel.Book, s.intent = ResolveBook(s.books, s.intent)
	return s.loadChapters()
}

func (s State) selectBook(book string) (State, []Effect) {
	if s.tiers[TierBook] != Loaded || !slices.Contains(s.books, book) {
		return s, nil
	}
	if book == s.sel.Book && (s.tiers[TierChapter] == Loading || s.tiers[TierChapter] == Loaded) {
		return s, nil
	}

	chapter := s.sel.Chapter
	if chapter == 0 && s.intent.Kind == IntentChapter {
		chapter = s.intent.Chapter
	}
	s.intent = chapterIntent(chapter)
	s.sel.Book = book
	return s.loadChapters()
}

func (s State) loadChapters() (State, []Effect) {
	s.sel.Chapter = 0
	s.chapters = nil
	s.tiers[TierChapter] = Loading
	s.errs[TierChapter] = nil
	s.seq[TierChapter]++
	return s, []Effect{FetchChapters{Seq: s.seq[TierChapter], Version: s.sel.Version, Book: s.sel.Book}}
}

func (s State) chaptersLoaded(ev ChaptersLoaded) (State, []Effect) {
	if ev.Seq != s.seq[TierChapter] || s.tiers[TierChapter] != Loading {
		return s, nil
	}

	s.errs[TierChapter] = ev.Err
	if ev.Err != nil {
		s.chapters = nil
		s.sel.Chapter = 0
		s.tiers[TierChapter] = Failed
		return s, nil
	}

	chapters := ParseChapters(ev.Chapters)
	if len(chapters) == 0 {
		s.chapters = nil
		s.sel.Chapter = 1
		s.tiers[TierChapter] = Empty
		s.intent = RestorationIntent{}
		return s, nil
	}

	s.chapters = chapters
	s.tiers[TierChapter] = Loaded
	s.sel.Chapter = ResolveChapter(chapters, s.intent)
	s.intent = RestorationIntent{}
	return s, nil
}

func (s State) selectChapter(chapter int) State {
	if s.tiers[TierChapter] == Loaded && slices.Contains(s.chapters, chapter) {
		s.sel.Chapter = chapter
	}
	return s
}

func (s State) persistDue(token uint64) (State, []Effect) {
	if s.pending == nil || s.pending.Token != token {
		return s, nil
	}
	rec := s.pending.Record
	s.pending = nil
	return s, []Effect{SaveLastRead{Record: rec}}
}

// schedulePersist debounces last-read writes. Nothing is scheduled before
// the initial last-read lookup resolved, so a transient default never
// overwrites a stored position. A pending write is dropped when the
// selection stops being valid.
func (s State) schedulePersist(effects []Effect) (State, []Effect) {
	if !s.Valid() {
		s.pending = nil
		s.scheduled = Selection{}
		return s, effects
	}
	if !s.lastReadLoaded || s.sel == s.scheduled {
		return s, effects
	}

	s.persistToken++
	s.scheduled = s.sel
	s.pending = &PendingWrite{
		Token: s.persistToken,
		Record: LastRead{
			Version: s.sel.Version,
			Book:    s.sel.Book,
			Chapter: s.sel.Chapter,
		},
	}
	return s, append(effects, SchedulePersist{Token: s.persistToken, Delay: s.opts.PersistDelay})
}
