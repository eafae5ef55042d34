package navigator

import "time"

// Event is an input to State.Apply: a reader action or the outcome of an
// Effect.
type Event interface{ event() }

type (
	// Start begins a navigation session. Only the first Start has an effect.
	Start struct{}

	VersionsLoaded struct {
		Seq      uint64
		Versions []Version
		Err      error
	}

	// LastReadLoaded resolves the initial restoration attempt. A nil
	// Record means the reader has no last-read position.
	LastReadLoaded struct {
		Record *LastRead
		Err    error
	}

	PreferencesLoaded struct {
		Preference *Preference
		Err        error
	}

	BooksLoaded struct {
		Seq     uint64
		Version string
		Books   []string
		Err     error
	}

	// ChaptersLoaded carries the chapter list as the provider returns it;
	// State.Apply parses it.
	ChaptersLoaded struct {
		Seq      uint64
		Version  string
		Book     string
		Chapters []string
		Err      error
	}

	SelectVersion struct{ Version string }
	SelectBook    struct{ Book string }
	SelectChapter struct{ Chapter int }
	PrevChapter   struct{}
	NextChapter   struct{}

	// PersistDue fires when the debounce timer of a scheduled write ends.
	PersistDue struct{ Token uint64 }

	Saved struct {
		Record LastRead
		Err    error
	}
)

func (Start) event()             {}
func (VersionsLoaded) event()    {}
func (LastReadLoaded) event()    {}
func (PreferencesLoaded) event() {}
func (BooksLoaded) event()       {}
func (ChaptersLoaded) event()    {}
func (SelectVersion) event()     {}
func (SelectBook) event()        {}
func (SelectChapter) event()     {}
func (PrevChapter) event()       {}
func (NextChapter) event()       {}
func (PersistDue) event()        {}
func (Saved) event()             {}

// Effect is work State.Apply asks the caller to perform.
type Effect interface{ effect() }

type (
	FetchVersions struct{ Seq uint64 }

	FetchLastRead struct{}

	FetchPreferences struct{}

	FetchBooks struct {
		Seq     uint64
		Version string
	}

	FetchChapters struct {
		Seq     uint64
		Version string
		Book    string
	}

	// SchedulePersist asks for a PersistDue{Token} after Delay. Older
	// tokens are ignored when they fire, so the newest schedule wins.
	SchedulePersist struct {
		Token uint64
		Delay time.Duration
	}

	SaveLastRead struct{ Record LastRead }
)

func (FetchVersions) effect()    {}
func (FetchLastRead) effect()    {}
func (FetchPreferences) effect() {}
func (FetchBooks) effect()       {}
func (FetchChapters) effect()    {}
func (SchedulePersist) effect()  {}
func (SaveLastRead) effect()     {}
